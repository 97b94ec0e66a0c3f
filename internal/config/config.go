// Package config defines service configuration structures and loading hooks.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DatasetPath is the transfer dataset loaded at startup.
	DatasetPath string `koanf:"dataset_path"`

	// DatasetDelimiter overrides the field delimiter for delimited text
	// files. Empty picks it from the extension.
	DatasetDelimiter string `koanf:"dataset_delimiter"`

	// DatasetSheet selects the workbook sheet for xlsx datasets. Empty
	// reads the first sheet.
	DatasetSheet string `koanf:"dataset_sheet"`

	// Season is the season shown when a request names none. Zero follows
	// the latest season in the dataset.
	Season int `koanf:"season"`

	// WatchDataset reloads the dataset when the file changes.
	WatchDataset bool `koanf:"watch_dataset"`

	// ReloadDebounceMS is how long file events must settle before a reload.
	ReloadDebounceMS int `koanf:"reload_debounce_ms"`

	// CacheSize bounds the in-memory report cache. Zero or less disables it.
	CacheSize int `koanf:"cache_size"`

	// RedisAddr enables the shared Redis report cache when set.
	RedisAddr string `koanf:"redis_addr"`

	// RedisTTLSeconds is the lifetime of reports stored in Redis.
	RedisTTLSeconds int `koanf:"redis_ttl_seconds"`

	// RedisPassword authenticates against the Redis server.
	RedisPassword string `koanf:"redis_password"`

	// RedisDB selects the Redis logical database.
	RedisDB int `koanf:"redis_db"`

	// RedisPrefix namespaces report keys. Replicas that should share
	// reports must use the same prefix.
	RedisPrefix string `koanf:"redis_prefix"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":8080",
		DatasetPath:      "data/transfer_portal.csv",
		Season:           2023,
		WatchDataset:     false,
		ReloadDebounceMS: 500,
		CacheSize:        256,
		RedisTTLSeconds:  600,
		RedisPrefix:      "portal:report:",
	}
}

// Delimiter returns the configured delimiter rune, or zero for automatic.
func (c *Config) Delimiter() rune {
	for _, r := range c.DatasetDelimiter {
		return r
	}
	return 0
}
