package browser

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// Theme holds the colors of the window's highlights.
type Theme struct {
	HintText       colorful.Color
	HintBackground colorful.Color
	ActiveTab      colorful.Color
}

// Theme keys in configuration.
const (
	ThemeHintText       = "hint_text"
	ThemeHintBackground = "hint_background"
	ThemeActiveTab      = "active_tab"
)

// DefaultTheme returns the built-in colors.
func DefaultTheme() Theme {
	return Theme{
		HintText:       colorful.Color{R: 0, G: 0, B: 0},
		HintBackground: colorful.Color{R: 1, G: 0.843, B: 0},
		ActiveTab:      colorful.Color{R: 0.373, G: 0.529, B: 0.843},
	}
}

// ParseTheme applies hex colors ("#rrggbb" or "#rgb") by key over the
// defaults. Bad entries are skipped and reported together.
func ParseTheme(values map[string]string) (Theme, error) {
	th := DefaultTheme()
	slots := map[string]*colorful.Color{
		ThemeHintText:       &th.HintText,
		ThemeHintBackground: &th.HintBackground,
		ThemeActiveTab:      &th.ActiveTab,
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		slot, ok := slots[name]
		if !ok {
			errs = append(errs, fmt.Errorf("theme: unknown color %q", name))
			continue
		}
		c, err := colorful.Hex(strings.TrimSpace(values[name]))
		if err != nil {
			errs = append(errs, fmt.Errorf("theme: %s: invalid color %q", name, values[name]))
			continue
		}
		*slot = c
	}
	return th, errors.Join(errs...)
}

// hintTag starts a hint label.
func (th Theme) hintTag() string {
	return fmt.Sprintf("[%s:%s]", th.HintText.Hex(), th.HintBackground.Hex())
}

// typedTag starts the already typed part of a hint label, drawn halfway
// between the label colors.
func (th Theme) typedTag() string {
	dim := th.HintBackground.BlendLab(th.HintText, 0.5).Clamped()
	return fmt.Sprintf("[%s:%s]", dim.Hex(), th.HintBackground.Hex())
}

// activeTabTag starts the title of the current tab.
func (th Theme) activeTabTag() string {
	return fmt.Sprintf("[%s::b]", th.ActiveTab.Hex())
}

// truncate shortens s to at most width terminal cells, cutting between
// grapheme clusters and marking the cut with an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if uniseg.StringWidth(s) <= width {
		return s
	}

	var b strings.Builder
	used := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w := g.Width()
		if used+w > width-1 {
			break
		}
		b.WriteString(g.Str())
		used += w
	}
	b.WriteString("…")
	return b.String()
}
