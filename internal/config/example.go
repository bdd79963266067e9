package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# tasks configuration file
# Values can be overridden by TASKS_* environment variables or CLI flags

# File holding the key-value store (supports ~ expansion)
store_file = "~/.tasks/store.json"

# Key the task list is stored under
storage_key = "tasks@list"

# Serialize background writes, keeping only the newest pending value
write_queue = true

# Log directory for per-run log files
log_dir = "~/.tasks/logs"

# debug | info | warn | error
log_level = "info"

# text | json | logfmt
log_format = "text"

log_timestamps = true
log_caller = false
`
}
