// Package app wires the browser together: configuration, the action
// registry, script actions, key maps, the dispatcher, and the window.
package app

import (
	"context"
	"io"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keyward/internal/browser"
	"github.com/dshills/keyward/internal/config"
	"github.com/dshills/keyward/internal/config/notify"
	"github.com/dshills/keyward/internal/config/watcher"
	"github.com/dshills/keyward/internal/input"
	"github.com/dshills/keyward/internal/input/action"
	"github.com/dshills/keyward/internal/script"
)

// Application owns every component and their lifecycles.
type Application struct {
	mu sync.Mutex

	opts     Options
	logger   *Logger
	logFile  io.Closer
	config   *config.Config
	settings config.Settings

	registry   *action.Registry
	scripts    *script.Engine
	metrics    *input.Metrics
	dispatcher *input.Dispatcher
	browser    *browser.Browser
	watcher    *watcher.Watcher
	subs       []*notify.Subscription

	// queue runs fn on the UI goroutine.
	queue func(fn func())

	running  atomic.Bool
	shutdown atomic.Bool
}

// Options configures the application.
type Options struct {
	// ConfigPath is the user configuration file. Empty selects the
	// default location.
	ConfigPath string

	// LogLevel overrides the configured log level when set.
	LogLevel string

	// LogFile overrides the configured log file when set.
	LogFile string

	// Screen replaces the terminal, for example with a simulation screen.
	Screen tcell.Screen

	// NoWatch disables reloading the configuration when it changes.
	NoWatch bool
}

// New creates the application. The configuration is loaded and every
// component is built, but nothing is drawn until Run.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts:   opts,
		logger: NullLogger,
	}
	if err := app.bootstrap(); err != nil {
		app.Shutdown()
		return nil, err
	}
	return app, nil
}

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Configuration
	cfgOpts := []config.Option{}
	if app.opts.ConfigPath != "" {
		cfgOpts = append(cfgOpts, config.WithUserPath(app.opts.ConfigPath))
	}
	app.config = config.New(cfgOpts...)
	if err := app.config.Load(context.Background()); err != nil {
		return &InitError{Component: "config", Err: err}
	}
	settings, settingsErr := app.config.Settings()
	app.settings = settings

	// 2. Logging
	if err := app.setupLogging(); err != nil {
		return err
	}
	if settingsErr != nil {
		app.logger.Warn("using default settings", "error", settingsErr)
	}
	app.logger.Info("configuration loaded", "path", app.config.UserPath())

	// 3. Actions: built-ins first, then scripts, which may not shadow them.
	app.registry = action.NewRegistry()
	if err := browser.RegisterActions(app.registry); err != nil {
		return &InitError{Component: "actions", Err: err}
	}
	app.scripts = script.NewEngine(app.registry,
		script.WithLogger(app.logger.WithComponent("script")))
	names, errs := app.scripts.Register(app.config.Actions())
	for _, err := range errs {
		app.logger.Error("script action skipped", "error", err)
	}
	if len(names) > 0 {
		app.logger.Info("script actions registered", "count", len(names))
	}

	// 4. Key maps and dispatcher
	normal, insert := buildKeyMaps(app.config, app.registry, app.logger.WithComponent("keymap"))
	app.metrics = input.NewMetrics()
	app.dispatcher = input.New(normal, insert,
		input.WithLogger(app.logger.WithComponent("dispatcher")),
		input.WithMetrics(app.metrics))

	// 5. Window
	theme, err := browser.ParseTheme(app.config.Theme())
	if err != nil {
		app.logger.Warn("theme entries skipped", "error", err)
	}
	app.browser = browser.New(app.dispatcher,
		browser.WithTheme(theme),
		browser.WithHomePage(app.settings.HomePage),
		browser.WithQuickmarks(app.config.Quickmarks()),
		browser.WithLogger(app.logger.WithComponent("browser")))
	if app.opts.Screen != nil {
		app.browser.SetScreen(app.opts.Screen)
	}
	app.queue = app.browser.QueueUpdate

	// 6. Reloading
	app.subscribe()
	if app.settings.Watch && !app.opts.NoWatch {
		if err := app.startWatcher(); err != nil {
			app.logger.Warn("config watching disabled", "error", err)
		}
	}
	return nil
}

// setupLogging creates the logger from the settings and option overrides.
// Without a log file nothing is logged, since the terminal belongs to the
// user interface.
func (app *Application) setupLogging() error {
	levelName := app.settings.LogLevel
	if app.opts.LogLevel != "" {
		levelName = app.opts.LogLevel
	}
	path := app.settings.LogFile
	if app.opts.LogFile != "" {
		path = app.opts.LogFile
	}
	if path == "" {
		return nil
	}

	f, err := OpenLogFile(path)
	if err != nil {
		return err
	}
	app.logFile = f

	level, ok := ParseLogLevel(levelName)
	app.logger = NewLogger(LoggerConfig{Level: level, Output: f, Prefix: "keyward"})
	if !ok {
		app.logger.Warn("unknown log level, using info", "level", levelName)
	}
	return nil
}

// Logger returns the application logger.
func (app *Application) Logger() *Logger {
	return app.logger
}

// Dispatcher returns the key dispatcher.
func (app *Application) Dispatcher() *input.Dispatcher {
	return app.dispatcher
}

// Browser returns the browser.
func (app *Application) Browser() *browser.Browser {
	return app.browser
}

// IsRunning reports whether Run is active.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Run shows the browser and blocks until it quits.
func (app *Application) Run() error {
	if app.shutdown.Load() {
		return ErrShutdown
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	app.logger.Info("starting")
	return app.browser.Run()
}

// Shutdown stops the browser and releases every component. It is safe
// to call more than once.
func (app *Application) Shutdown() {
	if !app.shutdown.CompareAndSwap(false, true) {
		return
	}

	app.mu.Lock()
	defer app.mu.Unlock()

	if app.watcher != nil {
		if err := app.watcher.Stop(); err != nil {
			app.logger.Error("stopping config watcher", "error", err)
		}
	}
	for _, sub := range app.subs {
		sub.Unsubscribe()
	}
	app.subs = nil
	if app.config != nil {
		app.config.Close()
	}
	if app.browser != nil && app.running.Load() {
		app.browser.Stop()
	}
	if app.scripts != nil {
		app.scripts.Close()
	}
	if app.metrics != nil {
		app.logMetrics()
	}
	app.logger.Info("stopped")

	if app.logFile != nil {
		_ = app.logFile.Close()
		app.logger = NullLogger
	}
}

func (app *Application) logMetrics() {
	snap := app.metrics.Snapshot()
	app.logger.Info("dispatch metrics",
		"events", snap.EventsTotal,
		"consumed", snap.ConsumedTotal,
		"actions", snap.ActionsTotal,
		"panics", snap.Panics,
		"peak_latency", snap.PeakLatency,
		"uptime", snap.Uptime)
}
