package config

import (
	"os"
	"strings"
)

// loadFromEnv overrides config from TASKS_* environment variables.
func loadFromEnv(cfg *Config) {
	str := func(name, field string, target *string) {
		if v := os.Getenv(name); v != "" {
			*target = v
			cfg.Sources[field] = SourceEnv
		}
	}
	boolean := func(name, field string, target *bool) {
		if v := os.Getenv(name); v != "" {
			*target = boolFromString(v)
			cfg.Sources[field] = SourceEnv
		}
	}

	str("TASKS_STORE", "store_file", &cfg.StoreFile)
	str("TASKS_KEY", "storage_key", &cfg.StorageKey)
	boolean("TASKS_WRITE_QUEUE", "write_queue", &cfg.WriteQueue)
	str("TASKS_LOG_DIR", "log_dir", &cfg.LogDir)
	str("TASKS_LOG_LEVEL", "log_level", &cfg.LogLevel)
	str("TASKS_LOG_FORMAT", "log_format", &cfg.LogFormat)
	boolean("TASKS_LOG_TIMESTAMPS", "log_timestamps", &cfg.LogTimestamps)
	boolean("TASKS_LOG_CALLER", "log_caller", &cfg.LogCaller)
}

func boolFromString(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
