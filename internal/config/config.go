// Package config provides configuration management for tabtile with Viper integration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config represents the complete configuration for tabtile.
type Config struct {
	Host      HostConfig      `mapstructure:"host" yaml:"host"`
	Arrange   ArrangeConfig   `mapstructure:"arrange" yaml:"arrange"`
	Reference ReferenceConfig `mapstructure:"reference" yaml:"reference"`
	Journal   JournalConfig   `mapstructure:"journal" yaml:"journal"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
}

// HostConfig holds browser attachment configuration.
type HostConfig struct {
	// DebugURL is the DevTools endpoint of a browser started with
	// --remote-debugging-port, e.g. http://127.0.0.1:9222.
	DebugURL       string        `mapstructure:"debug_url" yaml:"debug_url"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" yaml:"connect_timeout"`
}

// ArrangeConfig holds split-geometry thresholds.
type ArrangeConfig struct {
	MinWidth  int `mapstructure:"min_width" yaml:"min_width"`
	MinHeight int `mapstructure:"min_height" yaml:"min_height"`
}

// ReferenceConfig holds reference window limits and geometry.
type ReferenceConfig struct {
	MaxWindows int     `mapstructure:"max_windows" yaml:"max_windows"`
	WidthRatio float64 `mapstructure:"width_ratio" yaml:"width_ratio"`
}

// JournalConfig holds the arrangement journal settings.
type JournalConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
	// MaxEntries bounds the journal; older entries are pruned past it.
	MaxEntries int `mapstructure:"max_entries" yaml:"max_entries"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	mu        sync.RWMutex
	callbacks []func(*Config)
	watching  bool
}

// NewManager creates a new configuration manager.
func NewManager() (*Manager, error) {
	v := viper.New()

	// Supports yaml, json, toml automatically
	v.SetConfigName("config")

	configDir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}
	v.AddConfigPath(configDir)
	v.AddConfigPath(".") // Current directory for development

	v.SetEnvPrefix("TABTILE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Manager{
		viper:     v,
		callbacks: make([]func(*Config), 0),
	}, nil
}

// Load loads the configuration from file and environment variables.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to ensure directories: %w", err)
	}

	m.setDefaults()

	// A missing config file is fine, everything has a default.
	if err := m.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Journal.Path == "" {
		journalPath, err := GetJournalFile()
		if err != nil {
			return fmt.Errorf("failed to get journal path: %w", err)
		}
		config.Journal.Path = journalPath
	}

	normalize(config)

	m.config = config
	return nil
}

// Get returns the current configuration (thread-safe).
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Return a copy to prevent external modification
	configCopy := *m.config
	return &configCopy
}

// Watch starts watching the config file for changes and reloads automatically.
func (m *Manager) Watch() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.watching {
		return nil
	}

	m.viper.WatchConfig()
	m.viper.OnConfigChange(func(_ fsnotify.Event) {
		if err := m.reload(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to reload config: %v\n", err)
			return
		}

		m.mu.RLock()
		config := m.config
		callbacks := make([]func(*Config), len(m.callbacks))
		copy(callbacks, m.callbacks)
		m.mu.RUnlock()

		for _, callback := range callbacks {
			callback(config)
		}
	})

	m.watching = true
	return nil
}

// OnConfigChange registers a callback function to be called when config changes.
func (m *Manager) OnConfigChange(callback func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.callbacks = append(m.callbacks, callback)
}

func (m *Manager) reload() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	normalize(config)

	m.config = config
	return nil
}

// normalize clamps out-of-range values back to their defaults instead of
// refusing to start.
func normalize(c *Config) {
	if c.Arrange.MinWidth <= 0 {
		c.Arrange.MinWidth = defaultMinWidth
	}
	if c.Arrange.MinHeight <= 0 {
		c.Arrange.MinHeight = defaultMinHeight
	}
	if c.Reference.MaxWindows <= 0 {
		c.Reference.MaxWindows = defaultMaxReferenceWindows
	}
	if c.Reference.WidthRatio <= 0 || c.Reference.WidthRatio > 0.5 {
		c.Reference.WidthRatio = defaultReferenceWidthRatio
	}
	if c.Journal.MaxEntries <= 0 {
		c.Journal.MaxEntries = defaultJournalMaxEntries
	}
	if c.Host.ConnectTimeout <= 0 {
		c.Host.ConnectTimeout = defaultConnectTimeout
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		c.Logging.Format = "console"
	}
}
