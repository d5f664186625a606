package browser

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Built-in page addresses.
const (
	HomePage  = "about:home"
	BlankPage = "about:blank"
)

// page is the rendered content of an address.
type page struct {
	title string
	body  string
	links []string
}

// loadPage produces the placeholder content for an address. Quickmark
// targets are offered as links on every page so hints have something to
// follow.
func loadPage(address string, marks map[rune]string) page {
	links := markLinks(marks)

	switch address {
	case BlankPage, "":
		return page{title: "blank"}
	case HomePage:
		var b strings.Builder
		b.WriteString("Welcome to keyward.\n\n")
		if len(marks) == 0 {
			b.WriteString("No quickmarks configured.\n")
		} else {
			b.WriteString("Quickmarks:\n")
			for _, m := range sortedMarks(marks) {
				fmt.Fprintf(&b, "  %c  %s\n", m, marks[m])
			}
		}
		return page{title: "home", body: b.String(), links: links}
	}

	title := address
	if u, err := url.Parse(address); err == nil && u.Host != "" {
		title = u.Host
	}
	body := fmt.Sprintf("%s\n\nThis page is a placeholder; nothing was fetched.\n", address)
	return page{title: title, body: body, links: append([]string{HomePage}, links...)}
}

// normalizeAddress adds a scheme to bare host names.
func normalizeAddress(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if strings.HasPrefix(s, "about:") || strings.Contains(s, "://") {
		return s
	}
	return "https://" + s
}

func sortedMarks(marks map[rune]string) []rune {
	names := make([]rune, 0, len(marks))
	for m := range marks {
		names = append(names, m)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

func markLinks(marks map[rune]string) []string {
	var links []string
	seen := make(map[string]bool)
	for _, m := range sortedMarks(marks) {
		if u := marks[m]; !seen[u] {
			seen[u] = true
			links = append(links, u)
		}
	}
	return links
}
