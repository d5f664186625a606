package app

import (
	"context"
	"time"

	"github.com/dshills/keyward/internal/browser"
	"github.com/dshills/keyward/internal/config"
	"github.com/dshills/keyward/internal/config/notify"
	"github.com/dshills/keyward/internal/config/watcher"
	"github.com/dshills/keyward/internal/input/keymap"
)

// reloadTimeout bounds a configuration reload started by the watcher.
const reloadTimeout = 5 * time.Second

// subscribe registers the observers that apply configuration changes.
func (app *Application) subscribe() {
	n := app.config.Notifier()
	log := app.logger.WithComponent("config")

	for _, mode := range keymap.Modes() {
		app.subs = append(app.subs, n.SubscribeSection(mode.Section(), func(c notify.Change) {
			app.rebuildKeyMaps(c)
		}))
	}
	app.subs = append(app.subs, n.SubscribeSection(config.SectionQuickmarks, func(c notify.Change) {
		if c.Type == notify.ChangeReload {
			return
		}
		marks := app.config.Quickmarks()
		app.queue(func() {
			app.browser.Window().SetQuickmarks(marks)
		})
		log.Info("quickmarks updated", "count", len(marks))
	}))
	app.subs = append(app.subs, n.SubscribeSection(config.SectionTheme, func(c notify.Change) {
		if c.Type == notify.ChangeReload {
			return
		}
		theme, err := browser.ParseTheme(app.config.Theme())
		if err != nil {
			log.Warn("theme entries skipped", "error", err)
		}
		app.queue(func() {
			app.browser.Window().SetTheme(theme)
		})
	}))
	app.subs = append(app.subs, n.SubscribeSection(config.SectionActions, func(c notify.Change) {
		if c.Type == notify.ChangeReload {
			return
		}
		log.Warn("script actions changed; restart to apply them")
	}))
	app.subs = append(app.subs, n.SubscribeSection(config.SectionGeneral, func(c notify.Change) {
		if c.Type == notify.ChangeReload {
			return
		}
		settings, err := app.config.Settings()
		if err != nil {
			log.Warn("invalid settings", "error", err)
		}
		if level, ok := ParseLogLevel(settings.LogLevel); ok && app.opts.LogLevel == "" {
			app.logger.SetLevel(level)
		}
		log.Info("general settings changed")
	}))
}

// rebuildKeyMaps rebuilds both maps after a key section change. The
// dispatcher swaps them atomically, so this may run on any goroutine.
func (app *Application) rebuildKeyMaps(c notify.Change) {
	if c.Type == notify.ChangeReload {
		return
	}
	normal, insert := buildKeyMaps(app.config, app.registry, app.logger.WithComponent("keymap"))
	app.dispatcher.SetKeyMaps(normal, insert)
	app.logger.Info("key bindings reloaded", "section", c.Section,
		"normal", normal.Len(), "insert", insert.Len())
}

// reloadConfig re-reads the user document. On error the running
// configuration is kept.
func (app *Application) reloadConfig() {
	ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
	defer cancel()

	changes, err := app.config.Reload(ctx)
	if err != nil {
		app.logger.Error("config reload failed; keeping previous configuration", "error", err)
		return
	}
	app.logger.Debug("config reloaded", "changes", len(changes))
}

// startWatcher reloads the configuration whenever the user document
// changes.
func (app *Application) startWatcher() error {
	path := app.config.UserPath()
	if path == "" {
		return nil
	}
	log := app.logger.WithComponent("watcher")

	w, err := watcher.New(watcher.WithErrorHandler(func(err error) {
		log.Error("watch error", "error", err)
	}))
	if err != nil {
		return err
	}
	if err := w.Watch(path); err != nil {
		_ = w.Stop()
		return err
	}
	w.OnChange(func(ev watcher.Event) {
		log.Debug("config file changed", "path", ev.Path, "op", ev.Op)
		app.reloadConfig()
	})
	w.Start()

	app.watcher = w
	log.Info("watching config", "path", path)
	return nil
}
