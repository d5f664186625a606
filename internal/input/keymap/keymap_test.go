package keymap

import (
	"errors"
	"reflect"
	"testing"

	"github.com/dshills/keyward/internal/input/action"
	"github.com/dshills/keyward/internal/input/key"
)

func testRegistry(t *testing.T, names ...string) *action.Registry {
	t.Helper()
	reg := action.NewRegistry()
	for _, name := range names {
		if err := reg.RegisterFunc(name, "", func(*action.Context) bool { return true }); err != nil {
			t.Fatalf("RegisterFunc(%q) error = %v", name, err)
		}
	}
	return reg
}

func lookupName(km *KeyMap, spec string) string {
	a, ok := km.Lookup(key.MustParse(spec))
	if !ok {
		return ""
	}
	return a.Name
}

func TestBuildDefaultsOnly(t *testing.T) {
	reg := testRegistry(t, "close_tab")
	km := Build(ModeNormal, Source{"close_tab": "D"}, nil, reg)

	if got := lookupName(km, "D"); got != "close_tab" {
		t.Errorf("Lookup(D) = %q, want close_tab", got)
	}
	if _, ok := km.Lookup(key.MustParse("Shift+D")); ok {
		t.Error("Lookup(Shift+D) found a binding")
	}
	if km.Mode() != ModeNormal {
		t.Errorf("Mode() = %q, want normal", km.Mode())
	}
}

func TestBuildUserOverridesDefault(t *testing.T) {
	reg := testRegistry(t, "quickmark", "quickmark_newtab")
	defaults := Source{"quickmark": "G"}
	user := Source{"quickmark_newtab": "G"}

	km := Build(ModeNormal, defaults, user, reg)
	if got := lookupName(km, "G"); got != "quickmark_newtab" {
		t.Errorf("Lookup(G) = %q, want quickmark_newtab", got)
	}
	if km.Len() != 1 {
		t.Errorf("Len() = %d, want 1", km.Len())
	}
}

func TestBuildDefaultsFillUnclaimedKeys(t *testing.T) {
	reg := testRegistry(t, "close_tab", "next_tab", "prev_tab")
	defaults := Source{
		"close_tab": "D",
		"next_tab":  []any{"J", "Ctrl+Tab"},
		"prev_tab":  "K",
	}
	user := Source{"close_tab": "X"}

	km := Build(ModeNormal, defaults, user, reg)

	tests := []struct {
		spec string
		want string
	}{
		{"X", "close_tab"},
		{"D", "close_tab"},
		{"J", "next_tab"},
		{"Ctrl+Tab", "next_tab"},
		{"K", "prev_tab"},
	}
	for _, tt := range tests {
		if got := lookupName(km, tt.spec); got != tt.want {
			t.Errorf("Lookup(%s) = %q, want %q", tt.spec, got, tt.want)
		}
	}
}

func TestBuildUserLayerLastWriterWins(t *testing.T) {
	reg := testRegistry(t, "alpha", "beta")
	user := Source{"alpha": "Q", "beta": "Q"}

	km := Build(ModeNormal, nil, user, reg)
	if got := lookupName(km, "Q"); got != "beta" {
		t.Errorf("Lookup(Q) = %q, want beta", got)
	}
}

func TestBuildSkipsUnknownActionsAndBadSpecs(t *testing.T) {
	reg := testRegistry(t, "close_tab", "reload")
	defaults := Source{
		"close_tab":  []any{"D", "Ctrl+Banana", 42},
		"reload":     "R",
		"teleport":   "T",
		"empty_spec": "",
	}
	user := Source{
		"from_future": "F",
		"reload":      []string{"", "F5"},
	}

	km, report := BuildWithReport(ModeNormal, defaults, user, reg)

	if got := lookupName(km, "D"); got != "close_tab" {
		t.Errorf("Lookup(D) = %q, want close_tab", got)
	}
	if got := lookupName(km, "F5"); got != "reload" {
		t.Errorf("Lookup(F5) = %q, want reload", got)
	}
	if _, ok := km.Lookup(key.MustParse("T")); ok {
		t.Error("unknown action teleport was bound")
	}
	if _, ok := km.Lookup(key.MustParse("F")); ok {
		t.Error("unknown user action from_future was bound")
	}

	wantUnknown := []UnknownAction{
		{Layer: LayerUser, Action: "from_future"},
		{Layer: LayerDefaults, Action: "empty_spec"},
		{Layer: LayerDefaults, Action: "teleport"},
	}
	if !reflect.DeepEqual(report.Unknown, wantUnknown) {
		t.Errorf("Unknown = %+v, want %+v", report.Unknown, wantUnknown)
	}
	if len(report.Skipped) != 2 {
		t.Fatalf("Skipped = %+v, want 2 entries", report.Skipped)
	}
	if report.Skipped[0].Spec != "" || !errors.Is(report.Skipped[0].Err, key.ErrEmptySpec) {
		t.Errorf("Skipped[0] = %+v", report.Skipped[0])
	}
	if report.Skipped[1].Spec != "Ctrl+Banana" || !errors.Is(report.Skipped[1].Err, key.ErrInvalidSpec) {
		t.Errorf("Skipped[1] = %+v", report.Skipped[1])
	}
	if report.Clean() {
		t.Error("Clean() = true, want false")
	}
	if report.Bound != km.Len() {
		t.Errorf("Bound = %d, want %d", report.Bound, km.Len())
	}
}

func TestBuildReportsShiftedSymbols(t *testing.T) {
	reg := testRegistry(t, "quickmark_1", "bang")
	defaults := Source{"quickmark_1": "1"}
	user := Source{"bang": []string{"Shift+1", "!"}}

	km, report := BuildWithReport(ModeNormal, defaults, user, reg)

	if got := lookupName(km, "1"); got != "quickmark_1" {
		t.Errorf("Lookup(1) = %q, want quickmark_1", got)
	}
	if got := lookupName(km, "!"); got != "bang" {
		t.Errorf("Lookup(!) = %q, want bang", got)
	}
	if len(report.Skipped) != 1 {
		t.Fatalf("Skipped = %+v, want 1 entry", report.Skipped)
	}
	skipped := report.Skipped[0]
	if skipped.Layer != LayerUser || skipped.Action != "bang" || skipped.Spec != "Shift+1" {
		t.Errorf("Skipped[0] = %+v", skipped)
	}
	if !errors.Is(skipped.Err, key.ErrShiftedSymbol) {
		t.Errorf("Skipped[0].Err = %v, want %v", skipped.Err, key.ErrShiftedSymbol)
	}
}

func TestBuildNilRegistry(t *testing.T) {
	km, report := BuildWithReport(ModeInsert, Source{"close_tab": "D"}, nil, nil)
	if km.Len() != 0 {
		t.Errorf("Len() = %d, want 0", km.Len())
	}
	if len(report.Unknown) != 1 {
		t.Errorf("Unknown = %+v, want one entry", report.Unknown)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	reg := testRegistry(t, "a", "b", "c")
	user := Source{"a": "Z", "b": "Z", "c": "Z"}
	first := lookupName(Build(ModeNormal, nil, user, reg), "Z")
	for i := 0; i < 20; i++ {
		if got := lookupName(Build(ModeNormal, nil, user, reg), "Z"); got != first {
			t.Fatalf("Build() run %d bound Z to %q, earlier %q", i, got, first)
		}
	}
}

func TestBindingsAndKeysFor(t *testing.T) {
	reg := testRegistry(t, "next_tab", "close_tab")
	km := Build(ModeNormal, Source{"next_tab": []any{"J", "Ctrl+Tab"}, "close_tab": "D"}, nil, reg)

	bindings := km.Bindings()
	if len(bindings) != 3 {
		t.Fatalf("len(Bindings()) = %d, want 3", len(bindings))
	}
	if bindings[0].Action.Name != "close_tab" || bindings[0].Keys() != "D" {
		t.Errorf("Bindings()[0] = %s %s", bindings[0].Action.Name, bindings[0].Keys())
	}

	keys := km.KeysFor("next_tab")
	if len(keys) != 2 {
		t.Errorf("KeysFor(next_tab) = %v, want two keys", keys)
	}
}

func TestSpecs(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []string
	}{
		{"string", "D", []string{"D"}},
		{"strings", []string{"J", "K"}, []string{"J", "K"}},
		{"mixed list", []any{"J", 3, true, "K"}, []string{"J", "K"}},
		{"number", 7, nil},
		{"nil", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Specs(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Specs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestModes(t *testing.T) {
	if got := ModeInsert.Section(); got != "insert mode keys" {
		t.Errorf("Section() = %q", got)
	}
	if m, err := ParseMode("normal"); err != nil || m != ModeNormal {
		t.Errorf("ParseMode(normal) = %q, %v", m, err)
	}
	if _, err := ParseMode("visual"); err == nil {
		t.Error("ParseMode(visual) error = nil")
	}

	var nilMap *KeyMap
	if _, ok := nilMap.Lookup(key.Rune('a')); ok || nilMap.Len() != 0 {
		t.Error("nil KeyMap should be empty")
	}
}
