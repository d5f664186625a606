// Package browser is a terminal browser shell built on tview that hosts the
// key dispatcher.
//
// Window implements host.Window: it owns the tabs, quickmark and tab
// choosing state, the address bar, an ask dialog and the help page. Tab
// implements host.Tab with link hints, an in-page text field and a
// passthrough switch. Every key press reaching the application goes through
// the dispatcher first; focus-in on the tab container goes through it as
// well so it can be handed to the current page view.
//
// Pages are placeholders. Nothing is fetched over the network; the shell
// exists to drive keyboard handling.
package browser
