package browser

import "strings"

// hintAlphabet holds the home-row keys used for link hints.
const hintAlphabet = "asdfghjkl"

// hintLabels returns n distinct labels of equal length drawn from alphabet,
// using the shortest length that fits.
func hintLabels(n int, alphabet string) []string {
	if n <= 0 || alphabet == "" {
		return nil
	}
	chars := []rune(alphabet)
	width, capacity := 1, len(chars)
	for capacity < n {
		width++
		capacity *= len(chars)
	}

	labels := make([]string, n)
	buf := make([]rune, width)
	for i := range labels {
		v := i
		for pos := width - 1; pos >= 0; pos-- {
			buf[pos] = chars[v%len(chars)]
			v /= len(chars)
		}
		labels[i] = string(buf)
	}
	return labels
}

// matchHint reports the index of the label equal to typed, and whether
// typed is a prefix of at least one label.
func matchHint(labels []string, typed string) (index int, prefix bool) {
	index = -1
	for i, l := range labels {
		if l == typed {
			return i, true
		}
		if strings.HasPrefix(l, typed) {
			prefix = true
		}
	}
	return index, prefix
}
