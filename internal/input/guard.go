package input

import (
	"sync"

	"github.com/dshills/keyward/internal/input/action"
)

// filterGuard re-enables filtering when released.
type filterGuard struct {
	once    sync.Once
	release func()
}

// Release ends the guard's hold. Further calls do nothing.
func (g *filterGuard) Release() {
	g.once.Do(g.release)
}

// DisableFiltering suspends key filtering until the returned guard is
// released. Guards nest: filtering resumes once every outstanding guard
// has been released.
func (d *Dispatcher) DisableFiltering() action.Guard {
	d.disabled.Add(1)
	return &filterGuard{release: func() {
		d.disabled.Add(-1)
	}}
}

// WithFilteringDisabled runs fn with filtering suspended. Filtering is
// restored when fn returns or panics.
func (d *Dispatcher) WithFilteringDisabled(fn func()) {
	g := d.DisableFiltering()
	defer g.Release()
	fn()
}

// Disabled reports whether filtering is currently suspended.
func (d *Dispatcher) Disabled() bool {
	return d.disabled.Load() > 0
}
