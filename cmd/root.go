// Package cmd implements the CLI command structure for tasks.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/nibzard/tasks-go/internal/config"
	"github.com/nibzard/tasks-go/internal/logging"
	"github.com/nibzard/tasks-go/internal/store"
	"github.com/nibzard/tasks-go/internal/todo"
	"github.com/nibzard/tasks-go/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// shutdownTimeout bounds the final flush of pending writes on exit.
const shutdownTimeout = 5 * time.Second

// Run executes the tasks CLI.
func Run(ctx context.Context, args []string) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("tasks", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand(os.Stdout)
	}

	// No subcommand opens the interactive screen
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "ls":
		return lsCommand(ctx, cfg, os.Stdout, remainingArgs)
	case "add":
		return addCommand(ctx, cfg, os.Stdout, remainingArgs)
	case "done":
		return doneCommand(ctx, cfg, os.Stdout, remainingArgs)
	case "edit":
		return editCommand(ctx, cfg, os.Stdout, remainingArgs)
	case "rm":
		return rmCommand(ctx, cfg, os.Stdout, remainingArgs)
	case "doctor":
		return doctorCommand(ctx, cfg, os.Stdout, remainingArgs)
	case "tail":
		return tailCommand(ctx, cfg, os.Stdout, remainingArgs)
	case "config":
		return configCommand(cfg, os.Stdout, remainingArgs)
	case "version":
		return versionCommand(os.Stdout)
	case "help":
		printUsage(fs, os.Stdout)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// tuiCommand launches the interactive screen.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}

	sess, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer sess.Close()

	sess.diagnose(ctx)
	saver := sess.newSaver()
	runErr := ui.Run(ctx, ui.Options{
		Source: sess.store,
		Key:    cfg.StorageKey,
		Saver:  saver,
		Logger: sess.logger,
	})

	// ctx may already be cancelled by an interrupt; pending writes still land.
	flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := saver.Close(flushCtx); err != nil {
		sess.logger.Error("flush pending writes", "err", err)
		if runErr == nil {
			runErr = fmt.Errorf("saving tasks: %w", err)
		}
	}
	sess.logger.Info("session ended", "err", runErr)
	return runErr
}

// lsCommand prints the list with the 1-based indices other commands take.
func lsCommand(ctx context.Context, cfg *config.Config, w io.Writer, args []string) error {
	fs := flag.NewFlagSet("tasks ls", flag.ContinueOnError)
	pending := fs.Bool("pending", false, "Only show tasks that are not done")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	sess, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer sess.Close()

	list, err := sess.load(ctx)
	if err != nil {
		return err
	}
	printTaskList(w, list.Tasks(), *pending)
	return nil
}

// addCommand appends a task built from the remaining arguments.
func addCommand(ctx context.Context, cfg *config.Config, w io.Writer, args []string) error {
	text := strings.Join(args, " ")
	if text == "" {
		return todo.ErrEmptyText
	}

	return mutate(ctx, cfg, func(list *todo.List) error {
		if !list.Add(text) {
			return todo.ErrEmptyText
		}
		fmt.Fprintf(w, "Added task %d: %s\n", list.Len(), text)
		return nil
	})
}

// doneCommand toggles the completion flag of a task.
func doneCommand(ctx context.Context, cfg *config.Config, w io.Writer, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: tasks done <index>")
	}
	i, err := parseIndex(args[0])
	if err != nil {
		return err
	}

	return mutate(ctx, cfg, func(list *todo.List) error {
		if err := list.Check(i); err != nil {
			return fmt.Errorf("task %d: %w", i+1, err)
		}
		list.ToggleDone(i)
		task, _ := list.Task(i)
		if task.Done {
			fmt.Fprintf(w, "Completed task %d: %s\n", i+1, task.Text)
		} else {
			fmt.Fprintf(w, "Reopened task %d: %s\n", i+1, task.Text)
		}
		return nil
	})
}

// editCommand replaces the text of a task through the same begin/commit
// cycle the interactive editor uses.
func editCommand(ctx context.Context, cfg *config.Config, w io.Writer, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: tasks edit <index> <text>")
	}
	i, err := parseIndex(args[0])
	if err != nil {
		return err
	}
	text := strings.Join(args[1:], " ")
	if text == "" {
		return todo.ErrEmptyText
	}

	return mutate(ctx, cfg, func(list *todo.List) error {
		if err := list.CheckEdit(i); err != nil {
			return fmt.Errorf("task %d: %w", i+1, err)
		}
		list.BeginOrCommitEdit(i)
		list.SetScratch(text)
		list.BeginOrCommitEdit(i)
		fmt.Fprintf(w, "Updated task %d: %s\n", i+1, text)
		return nil
	})
}

// rmCommand deletes a task.
func rmCommand(ctx context.Context, cfg *config.Config, w io.Writer, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: tasks rm <index>")
	}
	i, err := parseIndex(args[0])
	if err != nil {
		return err
	}

	return mutate(ctx, cfg, func(list *todo.List) error {
		if err := list.Check(i); err != nil {
			return fmt.Errorf("task %d: %w", i+1, err)
		}
		task, _ := list.Task(i)
		list.Remove(i)
		fmt.Fprintf(w, "Removed task %d: %s\n", i+1, task.Text)
		return nil
	})
}

// mutate loads the list, applies fn and writes the result back.
func mutate(ctx context.Context, cfg *config.Config, fn func(*todo.List) error) error {
	sess, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer sess.Close()

	list, err := sess.load(ctx)
	if err != nil {
		return err
	}
	if err := fn(list); err != nil {
		sess.logger.Warn("command rejected", "err", err)
		return err
	}
	return sess.save(ctx, list)
}

// doctorCommand checks config, the store file and the stored payload.
func doctorCommand(ctx context.Context, cfg *config.Config, w io.Writer, args []string) error {
	fs := flag.NewFlagSet("tasks doctor", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "Verbose output")
	schemaPath := fs.String("schema", "", "Validate against this JSON Schema file instead of the built-in one")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	fmt.Fprintln(w, "Tasks Doctor")
	fmt.Fprintln(w, "============")
	fmt.Fprintln(w)

	allOK := true

	fmt.Fprintln(w, "Config:")
	if len(cfg.Files) == 0 {
		fmt.Fprintln(w, "  ⚠️  No config file found (using defaults)")
	}
	for _, f := range cfg.Files {
		fmt.Fprintf(w, "  ✅ %s\n", f)
	}
	if *verbose {
		printConfig(w, cfg)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Store file: %s\n", cfg.StoreFile)
	info, err := os.Stat(cfg.StoreFile)
	switch {
	case err != nil && os.IsNotExist(err):
		fmt.Fprintln(w, "  ⚠️  Not found (will be created on first change)")
	case err != nil:
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	case info.IsDir():
		fmt.Fprintln(w, "  ❌ Error: path is a directory")
		allOK = false
	default:
		fmt.Fprintln(w, "  ✅ OK")
		if !checkStoredList(ctx, w, cfg, *schemaPath, *verbose) {
			allOK = false
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Log directory: %s\n", cfg.LogDir)
	if _, err := os.Stat(cfg.LogDir); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(w, "  ⚠️  Not found (will be created on run)")
		} else {
			fmt.Fprintf(w, "  ❌ Error: %v\n", err)
			allOK = false
		}
	} else {
		fmt.Fprintln(w, "  ✅ OK")
	}
	fmt.Fprintln(w)

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed. An unreadable store file is moved aside on the next change.")
	return fmt.Errorf("doctor checks failed")
}

// checkStoredList validates the value under the storage key.
func checkStoredList(ctx context.Context, w io.Writer, cfg *config.Config, schemaPath string, verbose bool) bool {
	st := store.NewFileStore(cfg.StoreFile)
	value, ok, err := st.Get(ctx, cfg.StorageKey)
	if err != nil {
		fmt.Fprintf(w, "  ❌ Read error: %v\n", err)
		return false
	}
	fmt.Fprintf(w, "Key: %s\n", cfg.StorageKey)
	if !ok {
		fmt.Fprintln(w, "  ⚠️  Not set (no tasks saved yet)")
		return true
	}

	result := todo.ValidateWith(value, todo.ValidationOptions{SchemaPath: schemaPath})
	for _, warn := range result.Warnings {
		fmt.Fprintf(w, "  ⚠️  %s\n", warn)
	}
	if !result.Valid {
		fmt.Fprintln(w, "  ❌ Validation failed:")
		for _, e := range result.Errors {
			fmt.Fprintf(w, "     - %v\n", e)
		}
		return false
	}
	fmt.Fprintln(w, "  ✅ Valid")

	if verbose {
		tasks, err := todo.Decode(value)
		if err == nil {
			fmt.Fprintf(w, "  Tasks: %d\n", len(tasks))
		}
		if keys, err := st.Keys(); err == nil && len(keys) > 1 {
			fmt.Fprintf(w, "  Other keys: %s\n", strings.Join(otherKeys(keys, cfg.StorageKey), ", "))
		}
	}
	return true
}

func otherKeys(keys []string, skip string) []string {
	var out []string
	for _, k := range keys {
		if k != skip {
			out = append(out, k)
		}
	}
	return out
}

// tailCommand tails the latest log file.
func tailCommand(ctx context.Context, cfg *config.Config, w io.Writer, args []string) error {
	fs := flag.NewFlagSet("tasks tail", flag.ContinueOnError)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logPath, err := logging.FindLatestLog(cfg.LogDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(w, "No log files found.")
		return nil
	}

	fmt.Fprintf(w, "Tailing: %s\n", logPath)
	if *follow {
		fmt.Fprintln(w, "(Ctrl+C to stop)")
	}
	fmt.Fprintln(w)

	return logging.TailLog(ctx, w, logPath, *n, *follow)
}

// configCommand prints the effective configuration or an example file.
func configCommand(cfg *config.Config, w io.Writer, args []string) error {
	action := "show"
	if len(args) > 0 {
		action = args[0]
	}
	switch action {
	case "show":
		printConfig(w, cfg)
		return nil
	case "example":
		fmt.Fprint(w, config.ExampleConfig())
		return nil
	default:
		return fmt.Errorf("unknown config action: %s (expected show|example)", action)
	}
}

func printConfig(w io.Writer, cfg *config.Config) {
	rows := []struct {
		key   string
		value any
	}{
		{"store_file", cfg.StoreFile},
		{"storage_key", cfg.StorageKey},
		{"write_queue", cfg.WriteQueue},
		{"log_dir", cfg.LogDir},
		{"log_level", cfg.LogLevel},
		{"log_format", cfg.LogFormat},
		{"log_timestamps", cfg.LogTimestamps},
		{"log_caller", cfg.LogCaller},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "  %-15s %-30v (%s)\n", r.key, r.value, cfg.Source(r.key))
	}
}

// versionCommand prints version information.
func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "tasks version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Tasks - a single-screen terminal to-do list")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tasks [options] [command]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui                         Open the task screen (default command)")
	fmt.Fprintln(w, "  ls [-pending]               List tasks with their indices")
	fmt.Fprintln(w, "  add <text>                  Add a task")
	fmt.Fprintln(w, "  done <index>                Toggle a task done/not done")
	fmt.Fprintln(w, "  edit <index> <text>         Replace the text of a task")
	fmt.Fprintln(w, "  rm <index>                  Remove a task")
	fmt.Fprintln(w, "  doctor [-v] [-schema FILE]  Check config and stored tasks")
	fmt.Fprintln(w, "  tail [-f] [-n N]            Show the latest log file")
	fmt.Fprintln(w, "  config [show|example]       Print effective config or an example file")
	fmt.Fprintln(w, "  version                     Show version information")
	fmt.Fprintln(w, "  help                        Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}

// printTaskList prints tasks with 1-based indices.
func printTaskList(w io.Writer, tasks []todo.Task, pendingOnly bool) {
	shown := 0
	for i, t := range tasks {
		if pendingOnly && t.Done {
			continue
		}
		mark := " "
		if t.Done {
			mark = "x"
		}
		fmt.Fprintf(w, "%3d. [%s] %s\n", i+1, mark, t.Text)
		shown++
	}
	if shown == 0 {
		fmt.Fprintln(w, "No tasks found.")
	}
}

// parseIndex converts a 1-based index argument to a list index.
func parseIndex(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid task index %q", arg)
	}
	if n < 1 {
		return 0, fmt.Errorf("task %d: %w", n, todo.ErrIndexOutOfRange)
	}
	return n - 1, nil
}

// IsUsageError reports whether err came from a rejected task operation
// rather than from I/O.
func IsUsageError(err error) bool {
	return errors.Is(err, todo.ErrEmptyText) ||
		errors.Is(err, todo.ErrIndexOutOfRange) ||
		errors.Is(err, todo.ErrEditInProgress)
}
