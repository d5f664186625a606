package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dshills/keyward/internal/config/loader"
	"github.com/dshills/keyward/internal/config/notify"
	"github.com/dshills/keyward/internal/input/keymap"
)

//go:embed defaults.toml
var defaultsTOML []byte

// Section names in the configuration document.
const (
	SectionGeneral    = "general"
	SectionQuickmarks = "quickmarks"
	SectionActions    = "actions"
	SectionTheme      = "theme"
)

// DefaultEnvPrefix is the prefix of environment variable overrides.
const DefaultEnvPrefix = "KEYWARD_"

// Settings are the general settings of the application.
type Settings struct {
	LogLevel string
	LogFile  string
	HomePage string
	Watch    bool
}

// Config holds the loaded configuration documents.
type Config struct {
	mu sync.RWMutex

	fs        loader.FileSystem
	userPath  string
	envPrefix string
	notifier  *notify.Notifier

	defaults map[string]any
	user     map[string]any
	merged   map[string]any
	loaded   bool
}

// Option configures a Config instance.
type Option func(*Config)

// WithUserPath sets the user document path. The extension selects the
// format. An empty path disables the user document.
func WithUserPath(path string) Option {
	return func(c *Config) {
		c.userPath = path
	}
}

// WithFileSystem replaces the file system used to read the user document.
func WithFileSystem(fsys loader.FileSystem) Option {
	return func(c *Config) {
		c.fs = fsys
	}
}

// WithEnvPrefix sets the environment variable prefix. An empty prefix
// disables environment overrides.
func WithEnvPrefix(prefix string) Option {
	return func(c *Config) {
		c.envPrefix = prefix
	}
}

// New creates a new Config. Call Load before reading values.
func New(opts ...Option) *Config {
	c := &Config{
		fs:        loader.DefaultFS(),
		userPath:  DefaultUserPath(),
		envPrefix: DefaultEnvPrefix,
		notifier:  notify.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DefaultUserPath returns the default user document location. A YAML
// document is used when it exists and the TOML one does not.
func DefaultUserPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	dir = filepath.Join(dir, "keyward")

	tomlPath := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(tomlPath); err == nil {
		return tomlPath
	}
	for _, name := range []string{"config.yaml", "config.yml"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return tomlPath
}

// Load reads the defaults, the user document, and the environment.
// A missing user document is not an error.
func (c *Config) Load(_ context.Context) error {
	defaults, err := loader.ParseTOML("defaults.toml", defaultsTOML)
	if err != nil {
		return fmt.Errorf("loading defaults: %w", err)
	}

	user, err := c.readUser()
	if err != nil {
		return err
	}

	merged, err := c.merge(defaults, user)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.defaults = defaults
	c.user = user
	c.merged = merged
	c.loaded = true
	c.mu.Unlock()
	return nil
}

// Reload re-reads the user document and notifies observers of the
// sections that changed. On error the previous configuration is kept.
func (c *Config) Reload(_ context.Context) ([]notify.Change, error) {
	user, err := c.readUser()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if !c.loaded {
		c.mu.Unlock()
		return nil, ErrNotLoaded
	}
	merged, err := c.merge(c.defaults, user)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	before := c.user
	c.user = user
	c.merged = merged
	c.mu.Unlock()

	changes := notify.Diff(before, user, c.userPath)
	c.notifier.NotifyAll(changes)
	return changes, nil
}

// Close stops change notifications.
func (c *Config) Close() {
	c.notifier.Close()
}

// Notifier returns the change notifier used by Reload.
func (c *Config) Notifier() *notify.Notifier {
	return c.notifier
}

// UserPath returns the user document path.
func (c *Config) UserPath() string {
	return c.userPath
}

// KeySource returns the default and user key tables for mode.
// Either may be nil when the document has no such table.
func (c *Config) KeySource(mode keymap.Mode) (defaults, user keymap.Source) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return table(c.defaults, mode.Section()), table(c.user, mode.Section())
}

// Settings decodes the general section. Missing or mistyped values fall
// back to the defaults; mistyped ones are reported in the error.
func (c *Config) Settings() (Settings, error) {
	s := Settings{LogLevel: "info", HomePage: "about:home", Watch: true}
	var errs []string

	str := func(name string, dst *string) {
		v, err := c.GetString(SectionGeneral + "." + name)
		switch {
		case err == nil:
			*dst = v
		case err != ErrSettingNotFound:
			errs = append(errs, err.Error())
		}
	}
	str("log_level", &s.LogLevel)
	str("log_file", &s.LogFile)
	str("home_page", &s.HomePage)

	if v, err := c.GetBool(SectionGeneral + ".watch"); err == nil {
		s.Watch = v
	} else if err != ErrSettingNotFound {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return s, fmt.Errorf("invalid settings: %s", strings.Join(errs, "; "))
	}
	return s, nil
}

// Quickmarks returns the merged quickmark table. Marks must be a single
// character and URLs non-empty strings; other entries are dropped.
func (c *Config) Quickmarks() map[string]string {
	out := make(map[string]string)
	for name, v := range c.section(SectionQuickmarks) {
		url, ok := v.(string)
		if !ok || url == "" || len([]rune(name)) != 1 {
			continue
		}
		out[name] = url
	}
	return out
}

// Theme returns the merged theme table. Entries that are not strings are
// dropped.
func (c *Config) Theme() map[string]string {
	out := make(map[string]string)
	for name, v := range c.section(SectionTheme) {
		if s, ok := v.(string); ok {
			out[name] = s
		}
	}
	return out
}

// Actions returns the script action sources by name.
func (c *Config) Actions() map[string]string {
	out := make(map[string]string)
	for name, v := range c.section(SectionActions) {
		if src, ok := v.(string); ok && strings.TrimSpace(src) != "" {
			out[name] = src
		}
	}
	return out
}

// ActionNames returns the script action names in sorted order.
func (c *Config) ActionNames() []string {
	actions := c.Actions()
	names := make([]string, 0, len(actions))
	for name := range actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the value at the given path from the merged configuration.
func (c *Config) Get(path string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return getPath(c.merged, path)
}

// GetString returns a string value at the given path.
func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", ErrSettingNotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

// GetBool returns a boolean value at the given path.
func (c *Config) GetBool(path string) (bool, error) {
	v, ok := c.Get(path)
	if !ok {
		return false, ErrSettingNotFound
	}
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
	}
	return b, nil
}

func (c *Config) readUser() (map[string]any, error) {
	if c.userPath == "" {
		return nil, nil
	}
	l, err := loader.ForPath(c.fs, c.userPath)
	if err != nil {
		return nil, err
	}
	return l.Load()
}

func (c *Config) merge(defaults, user map[string]any) (map[string]any, error) {
	merged := loader.DeepMerge(loader.Clone(defaults), loader.Clone(user))
	if c.envPrefix == "" {
		return merged, nil
	}
	env, err := loader.NewEnvLoader(c.envPrefix).Load()
	if err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}
	return loader.DeepMerge(merged, env), nil
}

func (c *Config) section(name string) map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	m, _ := c.merged[name].(map[string]any)
	return m
}

func table(doc map[string]any, name string) keymap.Source {
	m, ok := doc[name].(map[string]any)
	if !ok {
		return nil
	}
	return keymap.Source(m)
}

// getPath retrieves a value from a nested map using a dot-separated path.
func getPath(m map[string]any, path string) (any, bool) {
	if path == "" {
		return nil, false
	}

	current := any(m)
	for _, part := range strings.Split(path, ".") {
		cm, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		if current, ok = cm[part]; !ok {
			return nil, false
		}
	}
	return current, true
}
