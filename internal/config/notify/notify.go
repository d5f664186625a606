// Package notify delivers configuration change notifications.
//
// Changes are reported per top-level section ("general", "normal mode keys",
// "quickmarks"). Observers subscribe to everything or to one section.
package notify

import (
	"reflect"
	"sort"
	"sync"
)

// ChangeType represents the type of configuration change.
type ChangeType int

const (
	// ChangeSet indicates a section was added or modified.
	ChangeSet ChangeType = iota

	// ChangeDelete indicates a section was removed.
	ChangeDelete

	// ChangeReload indicates the configuration was reloaded with no
	// section-level difference.
	ChangeReload
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeSet:
		return "set"
	case ChangeDelete:
		return "delete"
	case ChangeReload:
		return "reload"
	default:
		return "unknown"
	}
}

// Change represents a configuration change event.
type Change struct {
	// Section is the top-level table that changed. Empty for reloads.
	Section string

	Type ChangeType

	// Source identifies where the change came from, usually a file path.
	Source string
}

// Observer is called when configuration changes occur.
type Observer func(change Change)

// Subscription represents an active observer subscription.
type Subscription struct {
	id       uint64
	notifier *Notifier
}

// Unsubscribe removes this subscription. It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s != nil && s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

type entry struct {
	section string // empty matches every change
	fn      Observer
}

// Notifier manages configuration change subscriptions.
// Observers run synchronously on the goroutine calling Notify.
type Notifier struct {
	mu        sync.RWMutex
	observers map[uint64]entry
	nextID    uint64
	closed    bool
}

// New creates a new Notifier.
func New() *Notifier {
	return &Notifier{observers: make(map[uint64]entry)}
}

// Subscribe registers an observer for all changes.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	return n.add("", observer)
}

// SubscribeSection registers an observer for one section. It also receives
// reload events, which carry no section.
func (n *Notifier) SubscribeSection(section string, observer Observer) *Subscription {
	return n.add(section, observer)
}

func (n *Notifier) add(section string, observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.observers[id] = entry{section: section, fn: observer}
	return &Subscription{id: id, notifier: n}
}

// Notify sends a change notification to all matching observers, in
// subscription order.
func (n *Notifier) Notify(change Change) {
	n.mu.RLock()
	if n.closed {
		n.mu.RUnlock()
		return
	}
	ids := make([]uint64, 0, len(n.observers))
	for id, e := range n.observers {
		if e.section == "" || change.Section == "" || e.section == change.Section {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	observers := make([]Observer, len(ids))
	for i, id := range ids {
		observers[i] = n.observers[id].fn
	}
	n.mu.RUnlock()

	// Call observers outside the lock
	for _, obs := range observers {
		obs(change)
	}
}

// NotifyAll sends each change in order.
func (n *Notifier) NotifyAll(changes []Change) {
	for _, c := range changes {
		n.Notify(c)
	}
}

// Close stops delivery. It is safe to call Close multiple times.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	n.observers = make(map[uint64]entry)
}

func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.observers, id)
}

// Diff compares two configuration documents section by section and returns
// the changes in section order. When nothing differs it returns a single
// reload change so observers still learn the file was read again.
func Diff(before, after map[string]any, source string) []Change {
	var changes []Change
	for _, section := range sortedKeys(after) {
		old, existed := before[section]
		if !existed || !reflect.DeepEqual(old, after[section]) {
			changes = append(changes, Change{Section: section, Type: ChangeSet, Source: source})
		}
	}
	for _, section := range sortedKeys(before) {
		if _, ok := after[section]; !ok {
			changes = append(changes, Change{Section: section, Type: ChangeDelete, Source: source})
		}
	}
	if len(changes) == 0 {
		changes = append(changes, Change{Type: ChangeReload, Source: source})
	}
	return changes
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
