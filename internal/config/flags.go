package config

import "flag"

// flagFields maps flag names to the config keys they set.
var flagFields = map[string]string{
	"store":       "store_file",
	"key":         "storage_key",
	"write-queue": "write_queue",
	"log-dir":     "log_dir",
	"log-level":   "log_level",
	"log-format":  "log_format",
}

// parseFlags defines the global flags on fs and parses args.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	if fs == nil {
		fs = flag.NewFlagSet("tasks", flag.ContinueOnError)
	}

	fs.StringVar(&cfg.StoreFile, "store", cfg.StoreFile, "Path to the task store file")
	fs.StringVar(&cfg.StorageKey, "key", cfg.StorageKey, "Storage key holding the task list")
	fs.BoolVar(&cfg.WriteQueue, "write-queue", cfg.WriteQueue, "Serialize and coalesce background writes")
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Log directory")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug|info|warn|error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text|json|logfmt)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if field, ok := flagFields[f.Name]; ok {
			cfg.Sources[field] = SourceFlag
		}
	})
	return nil
}
