package app

import (
	"github.com/dshills/keyward/internal/config"
	"github.com/dshills/keyward/internal/input/action"
	"github.com/dshills/keyward/internal/input/keymap"
)

// buildKeyMaps builds the normal and insert maps from cfg, logging every
// binding that had to be skipped.
func buildKeyMaps(cfg *config.Config, reg *action.Registry, logger *Logger) (normal, insert *keymap.KeyMap) {
	maps := make(map[keymap.Mode]*keymap.KeyMap, 2)
	for _, mode := range keymap.Modes() {
		defaults, user := cfg.KeySource(mode)
		km, report := keymap.BuildWithReport(mode, defaults, user, reg)
		logReport(logger, report)
		maps[mode] = km
	}
	return maps[keymap.ModeNormal], maps[keymap.ModeInsert]
}

func logReport(logger *Logger, r keymap.Report) {
	for _, s := range r.Skipped {
		logger.Warn("invalid key binding",
			"mode", r.Mode, "layer", s.Layer, "action", s.Action, "key", s.Spec, "error", s.Err)
	}
	for _, u := range r.Unknown {
		logger.Warn("unknown action in key bindings",
			"mode", r.Mode, "layer", u.Layer, "action", u.Action)
	}
	logger.Debug("key map built", "mode", r.Mode, "bindings", r.Bound)
}
