// Package host describes the windowing environment the key dispatcher
// runs in.
//
// The dispatcher never inspects concrete widgets. It reads transient
// input state (quickmark entry, tab choosing, link following, text input
// focus) through the Window and Tab interfaces, and classifies the focused
// widget through the optional capability interfaces below. Hosts implement
// only the capabilities their widgets have.
package host

import "github.com/dshills/keyward/internal/input/key"

// Window is the main application window.
type Window interface {
	// QuickmarkPending reports whether the next key selects a quickmark.
	QuickmarkPending() bool

	// Quickmark consumes the key that selects a quickmark.
	Quickmark(code key.Code)

	// ChooseTabPending reports whether the next key selects a tab.
	ChooseTabPending() bool

	// ChooseTab consumes the key that selects a tab.
	ChooseTab(code key.Code)

	// CurrentTab returns the active tab, or nil when no tab is open.
	CurrentTab() Tab
}

// Tab is a single page within the main window.
type Tab interface {
	// ForcePassthrough reports whether every key goes to the page.
	ForcePassthrough() bool

	// FollowLinkPending reports whether link hints are being shown.
	FollowLinkPending() bool

	// FollowLink offers a key to the link hint overlay and reports
	// whether it was used.
	FollowLink(code key.Code) bool

	// TextInputFocused reports whether a text field inside the page has
	// keyboard focus.
	TextInputFocused() bool
}

// Widget is any focusable element of the user interface.
type Widget interface {
	// Parent returns the containing widget, or nil at the top level.
	Parent() Widget
}

// PassthroughWidget is implemented by widgets that want every key
// delivered to them unfiltered.
type PassthroughWidget interface {
	Widget
	PassthroughKeys() bool
}

// Dialog is implemented by modal dialogs. Widgets inside a dialog always
// receive their keys.
type Dialog interface {
	Widget
	IsDialog() bool
}

// HelperDialog is a transient prompt that handles its own navigation keys.
type HelperDialog interface {
	HandleKey(code key.Code)
}

// HelperEntry is the text entry of a HelperDialog.
type HelperEntry interface {
	Widget
	HelperDialog() HelperDialog
}

// View is the content view of a tab.
type View interface {
	// FocusView moves keyboard focus into the view.
	FocusView()
}

// TabContainer is the widget holding the tabs of the main window.
// Focus arriving at the container is handed to the current view.
type TabContainer interface {
	CurrentView() View
}

// WantsPassthrough reports whether keys must reach w unfiltered: when no
// widget has focus, when w opts in, or when any ancestor of w is a dialog.
func WantsPassthrough(w Widget) bool {
	if w == nil {
		return true
	}
	if pw, ok := w.(PassthroughWidget); ok && pw.PassthroughKeys() {
		return true
	}
	for p := w.Parent(); p != nil; p = p.Parent() {
		if d, ok := p.(Dialog); ok && d.IsDialog() {
			return true
		}
	}
	return false
}
