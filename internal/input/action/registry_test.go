package action

import (
	"errors"
	"reflect"
	"testing"
)

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	if err := r.RegisterFunc("close_tab", "Close the current tab", func(*Context) bool { return true }); err != nil {
		t.Fatalf("RegisterFunc() error = %v", err)
	}

	a, ok := r.Lookup("close_tab")
	if !ok {
		t.Fatal("Lookup(close_tab) not found")
	}
	if a.Name != "close_tab" || a.Description != "Close the current tab" {
		t.Errorf("Lookup() = %+v", a)
	}
	if !a.Invoke(&Context{}) {
		t.Error("Invoke() = false, want true")
	}
	if _, ok := r.Lookup("missing"); ok {
		t.Error("Lookup(missing) found an action")
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	fn := func(*Context) bool { return false }
	if err := r.RegisterFunc("quit", "", fn); err != nil {
		t.Fatalf("RegisterFunc() error = %v", err)
	}
	err := r.RegisterFunc("quit", "", fn)
	if !errors.Is(err, ErrDuplicateAction) {
		t.Errorf("second RegisterFunc() error = %v, want ErrDuplicateAction", err)
	}
}

func TestRegistryRejectsInvalid(t *testing.T) {
	r := NewRegistry()
	tests := []*Action{
		nil,
		New("", "no name", func(*Context) bool { return true }),
		New("nobody", "no body", nil),
	}
	for _, a := range tests {
		if err := r.Register(a); !errors.Is(err, ErrInvalidAction) {
			t.Errorf("Register(%v) error = %v, want ErrInvalidAction", a, err)
		}
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
}

func TestRegistryNames(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"next_tab", "close_tab", "quickmark"} {
		if err := r.RegisterFunc(name, "", func(*Context) bool { return true }); err != nil {
			t.Fatal(err)
		}
	}
	want := []string{"close_tab", "next_tab", "quickmark"}
	if got := r.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	if !r.Has("next_tab") {
		t.Error("Has(next_tab) = false")
	}
}

func TestNilActionInvoke(t *testing.T) {
	var a *Action
	if a.Invoke(nil) {
		t.Error("nil Action.Invoke() = true")
	}
	if a.String() != "<nil>" {
		t.Errorf("String() = %q", a.String())
	}
}
