package notify

import (
	"reflect"
	"testing"
)

func TestChangeType_String(t *testing.T) {
	tests := []struct {
		ct   ChangeType
		want string
	}{
		{ChangeSet, "set"},
		{ChangeDelete, "delete"},
		{ChangeReload, "reload"},
		{ChangeType(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.ct.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.ct, got, tt.want)
		}
	}
}

func TestNotifier_Subscribe(t *testing.T) {
	n := New()
	defer n.Close()

	var received []Change
	sub := n.Subscribe(func(change Change) {
		received = append(received, change)
	})

	n.Notify(Change{Section: "general", Type: ChangeSet})
	sub.Unsubscribe()
	sub.Unsubscribe()
	n.Notify(Change{Section: "quickmarks", Type: ChangeSet})

	if len(received) != 1 || received[0].Section != "general" {
		t.Errorf("received = %v, want only the general change", received)
	}
}

func TestNotifier_SubscribeSection(t *testing.T) {
	n := New()
	defer n.Close()

	var keys, marks int
	n.SubscribeSection("normal mode keys", func(Change) { keys++ })
	n.SubscribeSection("quickmarks", func(Change) { marks++ })

	n.Notify(Change{Section: "normal mode keys", Type: ChangeSet})
	n.Notify(Change{Section: "general", Type: ChangeSet})
	n.Notify(Change{Type: ChangeReload})

	if keys != 2 {
		t.Errorf("key observer calls = %d, want 2", keys)
	}
	if marks != 1 {
		t.Errorf("quickmark observer calls = %d, want 1", marks)
	}
}

func TestNotifier_Order(t *testing.T) {
	n := New()
	var order []int
	for i := 0; i < 5; i++ {
		n.Subscribe(func(Change) { order = append(order, i) })
	}
	n.Notify(Change{Type: ChangeReload})

	if !reflect.DeepEqual(order, []int{0, 1, 2, 3, 4}) {
		t.Errorf("order = %v", order)
	}
}

func TestNotifier_Close(t *testing.T) {
	n := New()
	called := false
	n.Subscribe(func(Change) { called = true })
	n.Close()
	n.Close()
	n.Notify(Change{Type: ChangeReload})

	if called {
		t.Error("observer called after Close")
	}
}

func TestDiff(t *testing.T) {
	before := map[string]any{
		"general":          map[string]any{"log_level": "info"},
		"normal mode keys": map[string]any{"close_tab": "D"},
		"quickmarks":       map[string]any{"g": "https://github.com"},
	}
	after := map[string]any{
		"general":          map[string]any{"log_level": "info"},
		"normal mode keys": map[string]any{"close_tab": "X"},
		"insert mode keys": map[string]any{"exit_text_input": "Esc"},
	}

	got := Diff(before, after, "user.toml")
	want := []Change{
		{Section: "insert mode keys", Type: ChangeSet, Source: "user.toml"},
		{Section: "normal mode keys", Type: ChangeSet, Source: "user.toml"},
		{Section: "quickmarks", Type: ChangeDelete, Source: "user.toml"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Diff() = %v, want %v", got, want)
	}

	same := Diff(after, after, "user.toml")
	if len(same) != 1 || same[0].Type != ChangeReload {
		t.Errorf("Diff(same) = %v, want one reload", same)
	}
}
