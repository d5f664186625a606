// Package key encodes keyboard input into compact integer identifiers.
//
// A Code packs a base key and a set of modifiers into one comparable value
// that can be used as a map key:
//
//   - Key: a named (non-character) key such as Enter, Left or F5
//   - Modifier: Ctrl, Alt, Shift and Meta
//   - Code: base key plus modifiers, as produced for every key press
//
// Letters always use their upper-case form as the base; the case that was
// typed is carried by the Shift bit, so typing "g" and "G" yields distinct
// codes. Key specifications ignore letter case: "G" names the bare key and
// "Shift+G" the shifted one.
//
// # Key Specifications
//
// Bindings are written as key specifications:
//
//   - Simple keys: "a", "G", "/", "Enter", "Esc", "F5"
//   - With modifiers: "Ctrl+S", "Alt+Left", "Ctrl+Shift+P"
//   - Vim-style: "<C-s>", "<A-f>", "<S-Tab>", "<CR>"
//
// Events coming from the terminal are converted with FromTcell.
package key
