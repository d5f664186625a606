package keymap

import (
	"sort"

	"github.com/dshills/keyward/internal/input/action"
	"github.com/dshills/keyward/internal/input/key"
)

// Source maps action names to key specifications. A value is either a
// single specification string or a list of them.
type Source map[string]any

// Layer names used in reports.
const (
	LayerUser     = "user"
	LayerDefaults = "defaults"
)

// SkippedSpec is a key specification that could not be parsed.
type SkippedSpec struct {
	Layer  string
	Action string
	Spec   string
	Err    error
}

// UnknownAction is an action name that is not in the registry.
type UnknownAction struct {
	Layer  string
	Action string
}

// Report describes the outcome of building a KeyMap.
type Report struct {
	Mode    Mode
	Bound   int
	Skipped []SkippedSpec
	Unknown []UnknownAction
}

// Clean reports whether nothing was skipped.
func (r Report) Clean() bool {
	return len(r.Skipped) == 0 && len(r.Unknown) == 0
}

// Build merges the user and default sources into a KeyMap for mode.
// Either source may be nil.
func Build(mode Mode, defaults, user Source, reg *action.Registry) *KeyMap {
	km, _ := BuildWithReport(mode, defaults, user, reg)
	return km
}

// BuildWithReport is Build, also returning what had to be skipped.
func BuildWithReport(mode Mode, defaults, user Source, reg *action.Registry) (*KeyMap, Report) {
	km := Empty(mode)
	report := Report{Mode: mode}

	b := builder{reg: reg, report: &report}
	b.apply(km.bindings, LayerUser, user, true)
	b.apply(km.bindings, LayerDefaults, defaults, false)

	report.Bound = len(km.bindings)
	return km, report
}

type builder struct {
	reg    *action.Registry
	report *Report
}

// apply adds the bindings of one layer. With overwrite set, keys already
// present are replaced; otherwise they are kept.
func (b *builder) apply(dst map[key.Code]*action.Action, layer string, src Source, overwrite bool) {
	names := make([]string, 0, len(src))
	for name := range src {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		var a *action.Action
		if b.reg != nil {
			a, _ = b.reg.Lookup(name)
		}
		if a == nil {
			b.report.Unknown = append(b.report.Unknown, UnknownAction{Layer: layer, Action: name})
			continue
		}

		for _, spec := range Specs(src[name]) {
			code, err := key.Parse(spec)
			if err != nil {
				b.report.Skipped = append(b.report.Skipped, SkippedSpec{
					Layer:  layer,
					Action: name,
					Spec:   spec,
					Err:    err,
				})
				continue
			}
			if _, exists := dst[code]; exists && !overwrite {
				continue
			}
			dst[code] = a
		}
	}
}

// Specs flattens a source value into key specifications.
// Values that are neither strings nor lists are ignored, as are non-string
// list members.
func Specs(v any) []string {
	switch val := v.(type) {
	case string:
		return []string{val}
	case []string:
		return val
	case []any:
		specs := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				specs = append(specs, s)
			}
		}
		return specs
	}
	return nil
}
