package config

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// Default values.
const (
	DefaultStoreFile  = "~/.tasks/store.json"
	DefaultStorageKey = "tasks@list"
	DefaultLogDir     = "~/.tasks/logs"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
)

// Config holds the full configuration for tasks.
type Config struct {
	// Storage
	StoreFile  string `toml:"store_file"`
	StorageKey string `toml:"storage_key"`

	// WriteQueue serializes background writes and coalesces superseded
	// values. When false every save is written independently.
	WriteQueue bool `toml:"write_queue"`

	// Logging
	LogDir        string `toml:"log_dir"`
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Files that were read, in load order (computed)
	Files []string `toml:"-"`
	// Sources maps each key to the level that set it (computed)
	Sources map[string]ConfigSource `toml:"-"`
}

// Source returns where the value of key came from.
func (c *Config) Source(key string) ConfigSource {
	if s, ok := c.Sources[key]; ok {
		return s
	}
	return SourceDefault
}

// configFields returns the list of configurable keys for source tracking.
func configFields() []string {
	return []string{
		"store_file",
		"storage_key",
		"write_queue",
		"log_dir",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}
