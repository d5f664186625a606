package browser

import (
	"strings"
	"testing"

	"github.com/rivo/uniseg"
)

func TestParseTheme(t *testing.T) {
	th, err := ParseTheme(map[string]string{
		ThemeHintBackground: "#ff0000",
		ThemeActiveTab:      " #0f0 ",
	})
	if err != nil {
		t.Fatalf("ParseTheme() error = %v", err)
	}
	if got := th.HintBackground.Hex(); got != "#ff0000" {
		t.Errorf("hint background = %s", got)
	}
	if got := th.ActiveTab.Hex(); got != "#00ff00" {
		t.Errorf("active tab = %s", got)
	}
	if th.HintText != DefaultTheme().HintText {
		t.Error("unset color changed")
	}
}

func TestParseTheme_Errors(t *testing.T) {
	th, err := ParseTheme(map[string]string{
		ThemeHintText:  "black",
		"border":       "#ffffff",
		ThemeActiveTab: "#123456",
	})
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, `unknown color "border"`) || !strings.Contains(msg, `hint_text: invalid color "black"`) {
		t.Errorf("error = %q", msg)
	}
	if th.HintText != DefaultTheme().HintText {
		t.Error("invalid color applied")
	}
	if got := th.ActiveTab.Hex(); got != "#123456" {
		t.Errorf("valid entry not applied: %s", got)
	}
}

func TestThemeTags(t *testing.T) {
	th, _ := ParseTheme(map[string]string{
		ThemeHintText:       "#000000",
		ThemeHintBackground: "#ffffff",
	})
	if got := th.hintTag(); got != "[#000000:#ffffff]" {
		t.Errorf("hintTag() = %q", got)
	}
	typed := th.typedTag()
	if typed == th.hintTag() || !strings.HasSuffix(typed, ":#ffffff]") {
		t.Errorf("typedTag() = %q", typed)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"a longer title", 8, "a longe…"},
		{"日本語のページ", 7, "日本語…"},
		{"éééé", 3, "éé…"},
		{"anything", 0, ""},
	}
	for _, tt := range tests {
		got := truncate(tt.in, tt.width)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
		if tt.width > 0 && uniseg.StringWidth(got) > tt.width {
			t.Errorf("truncate(%q, %d) is %d cells wide", tt.in, tt.width, uniseg.StringWidth(got))
		}
	}
}
