package config

import "time"

const (
	defaultDebugURL       = "http://127.0.0.1:9222"
	defaultConnectTimeout = 10 * time.Second

	defaultMinWidth  = 400
	defaultMinHeight = 300

	defaultMaxReferenceWindows = 3
	defaultReferenceWidthRatio = 0.2

	defaultJournalMaxEntries = 1000
)

// DefaultConfig returns the built-in configuration without touching disk.
// The journal path stays empty and is resolved lazily by callers.
func DefaultConfig() *Config {
	return &Config{
		Host: HostConfig{
			DebugURL:       defaultDebugURL,
			ConnectTimeout: defaultConnectTimeout,
		},
		Arrange: ArrangeConfig{
			MinWidth:  defaultMinWidth,
			MinHeight: defaultMinHeight,
		},
		Reference: ReferenceConfig{
			MaxWindows: defaultMaxReferenceWindows,
			WidthRatio: defaultReferenceWidthRatio,
		},
		Journal: JournalConfig{
			Enabled:    true,
			MaxEntries: defaultJournalMaxEntries,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// setDefaults registers every default with viper so a bare install works
// without a config file.
func (m *Manager) setDefaults() {
	m.viper.SetDefault("host.debug_url", defaultDebugURL)
	m.viper.SetDefault("host.connect_timeout", defaultConnectTimeout)

	m.viper.SetDefault("arrange.min_width", defaultMinWidth)
	m.viper.SetDefault("arrange.min_height", defaultMinHeight)

	m.viper.SetDefault("reference.max_windows", defaultMaxReferenceWindows)
	m.viper.SetDefault("reference.width_ratio", defaultReferenceWidthRatio)

	m.viper.SetDefault("journal.enabled", true)
	m.viper.SetDefault("journal.path", "")
	m.viper.SetDefault("journal.max_entries", defaultJournalMaxEntries)

	m.viper.SetDefault("logging.level", "info")
	m.viper.SetDefault("logging.format", "console")
}
