package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"

	"github.com/jackzampolin/docket/internal/composer"
	"github.com/jackzampolin/docket/internal/home"
	"github.com/jackzampolin/docket/internal/qr"
)

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	v *viper.Viper

	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
}

// NewManager creates a new config manager and loads initial config.
// homeDir is searched for config.yaml when cfgFile is empty.
func NewManager(cfgFile, homeDir string) (*Manager, error) {
	cm := &Manager{
		v:         viper.New(),
		callbacks: make([]func(*Config), 0),
	}

	if err := cm.initViper(cfgFile, homeDir); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

// initViper sets up viper with defaults and config file.
func (cm *Manager) initViper(cfgFile, homeDir string) error {
	v := cm.v
	defaults := DefaultConfig()
	v.SetDefault("server.host", defaults.Server.Host)
	v.SetDefault("server.port", defaults.Server.Port)
	v.SetDefault("document.page_size", defaults.Document.PageSize)
	v.SetDefault("document.orientation", defaults.Document.Orientation)
	v.SetDefault("document.margins.left", defaults.Document.Margins.Left)
	v.SetDefault("document.margins.top", defaults.Document.Margins.Top)
	v.SetDefault("document.margins.right", defaults.Document.Margins.Right)
	v.SetDefault("document.margins.bottom", defaults.Document.Margins.Bottom)
	v.SetDefault("document.font.family", defaults.Document.Font.Family)
	v.SetDefault("document.font.regular", "")
	v.SetDefault("document.font.bold", "")
	v.SetDefault("document.font.italic", "")
	v.SetDefault("document.author", "")
	v.SetDefault("document.title", defaults.Document.Title)
	v.SetDefault("document.subtitle", "")
	v.SetDefault("predefined.path", "")
	v.SetDefault("predefined.sheet_title", defaults.Predefined.SheetTitle)
	v.SetDefault("qr.size", defaults.QR.Size)
	v.SetDefault("qr.level", defaults.QR.Level)
	v.SetDefault("qr.foreground", defaults.QR.Foreground)
	v.SetDefault("qr.background", defaults.QR.Background)
	v.SetDefault("sessions.idle_timeout", defaults.Sessions.IdleTimeout)
	v.SetDefault("sessions.sweep_interval", defaults.Sessions.SweepInterval)

	// Environment variables with DOCKET_ prefix, e.g. DOCKET_SERVER_PORT
	v.SetEnvPrefix("DOCKET")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if homeDir != "" {
			v.AddConfigPath(homeDir)
		} else {
			v.AddConfigPath("$HOME/" + home.DefaultDirName)
		}
	}

	// Try to read config file (not required)
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// load parses the current viper state into a Config struct.
func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := cm.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Get returns the current configuration (thread-safe).
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// ConfigFile returns the file the configuration was read from, if any.
func (cm *Manager) ConfigFile() string {
	return cm.v.ConfigFileUsed()
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig enables hot-reloading of configuration.
// A reload that fails validation is logged and keeps the previous configuration;
// an empty file is treated as a write in progress and skipped.
func (cm *Manager) WatchConfig(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	cm.v.OnConfigChange(func(e fsnotify.Event) {
		if info, err := os.Stat(e.Name); err == nil && info.Size() == 0 {
			logger.Debug("configuration file is empty, waiting for next write", "file", e.Name)
			return
		}
		cfg, err := cm.load()
		if err != nil {
			logger.Warn("ignoring invalid configuration", "file", e.Name, "error", err)
			return
		}

	cm.mu.Lock()
		cm.config = cfg
		callbacks := make([]func(*Config), len(cm.callbacks))
		copy(callbacks, cm.callbacks)
		cm.mu.Unlock()

		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	cm.v.WatchConfig()
}

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	return envPattern.ReplaceAllStringFunc(value, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}

var (
	envPattern     = regexp.MustCompile(`\$\{([^}]+)\}`)
	envKeyReplacer = strings.NewReplacer(".", "_")
)

// Validate checks the fields that would otherwise fail later at render time.
func (c *Config) Validate() error {
	if _, err := c.Style(""); err != nil {
		return err
	}
	if _, err := c.QROptions(); err != nil {
		return err
	}
	if _, err := c.IdleTimeout(); err != nil {
		return err
	}
	if _, err := c.SweepInterval(); err != nil {
		return err
	}
	return nil
}

// Style builds the composer style. Relative font paths resolve against fontsDir.
func (c *Config) Style(fontsDir string) (composer.Style, error) {
	s := composer.DefaultStyle()
	d := c.Document
	s.PageSize = d.PageSize
	s.Orientation = d.Orientation
	s.Margins = composer.Margins{
		Left:   d.Margins.Left,
		Top:    d.Margins.Top,
		Right:  d.Margins.Right,
		Bottom: d.Margins.Bottom,
	}
	if d.Font.Family != "" {
		s.FontFamily = d.Font.Family
	}
	s.Fonts = composer.FontFiles{
		Regular: home.Resolve(fontsDir, ResolveEnvVars(d.Font.Regular)),
		Bold:    home.Resolve(fontsDir, ResolveEnvVars(d.Font.Bold)),
		Italic:  home.Resolve(fontsDir, ResolveEnvVars(d.Font.Italic)),
	}
	s.Author = d.Author
	if err := s.Validate(); err != nil {
		return composer.Style{}, fmt.Errorf("document: %w", err)
	}
	return s, nil
}

// QROptions builds QR options, parsing the theme colors.
func (c *Config) QROptions() (qr.Options, error) {
	level, err := qr.ParseLevel(c.QR.Level)
	if err != nil {
		return qr.Options{}, fmt.Errorf("qr: %w", err)
	}
	fg, err := composer.ParseHex(c.QR.Foreground)
	if err != nil {
		return qr.Options{}, fmt.Errorf("qr.foreground: %w", err)
	}
	bg, err := composer.ParseHex(c.QR.Background)
	if err != nil {
		return qr.Options{}, fmt.Errorf("qr.background: %w", err)
	}
	opts := qr.Options{Size: c.QR.Size, Level: level, Foreground: fg, Background: bg}
	if err := opts.Validate(); err != nil {
		return qr.Options{}, fmt.Errorf("qr: %w", err)
	}
	return opts, nil
}

// IdleTimeout is how long an untouched session lives.
func (c *Config) IdleTimeout() (time.Duration, error) {
	return parseDuration("sessions.idle_timeout", c.Sessions.IdleTimeout)
}

// SweepInterval is how often idle sessions are collected.
func (c *Config) SweepInterval() (time.Duration, error) {
	return parseDuration("sessions.sweep_interval", c.Sessions.SweepInterval)
}

func parseDuration(key, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}

// PredefinedPath returns the configured list path, defaulting to the home file.
func (c *Config) PredefinedPath(dir *home.Dir) string {
	if c.Predefined.Path == "" {
		return dir.PredefinedPath()
	}
	return home.Resolve(dir.Path(), ResolveEnvVars(c.Predefined.Path))
}

// Addr returns host:port for the HTTP listener.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, c.Server.Port)
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# Docket configuration
# Environment variables override any key: DOCKET_SERVER_PORT, DOCKET_QR_LEVEL, ...
# Set document.font.regular to a TrueType file (e.g. DejaVuSans.ttf in the
# fonts directory) to render text beyond Latin-1, such as emoji icons.

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
