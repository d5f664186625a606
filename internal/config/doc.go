// Package config loads keyward's configuration.
//
// Configuration comes from three documents, lowest priority first:
//
//  1. Built-in defaults, embedded from defaults.toml
//  2. The user document, TOML or YAML (~/.config/keyward/config.toml)
//  3. Environment variables prefixed with KEYWARD_
//
// Settings such as the log level are read from the merged view. Key tables
// are not merged: KeySource hands both the default and the user table for a
// mode to the keymap builder, which applies its own precedence rules.
//
// # Document layout
//
//	[general]
//	log_level = "info"
//	home_page = "about:home"
//	watch = true
//
//	["normal mode keys"]
//	close_tab = "D"
//	next_tab = ["Shift+J", "Ctrl+N"]
//
//	["insert mode keys"]
//	exit_text_input = "Esc"
//
//	[quickmarks]
//	g = "https://github.com"
//
//	[actions]
//	close_all = "while keys.tab_count() > 1 do keys.run('close_tab') end return true"
//
// Reload re-reads the user document and reports which sections changed
// through the notifier returned by Notifier.
package config
