package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasks-go/internal/config"
	"github.com/nibzard/tasks-go/internal/logging"
	"github.com/nibzard/tasks-go/internal/store"
	"github.com/nibzard/tasks-go/internal/todo"
)

// session is the per-invocation wiring of store, run log and logger.
type session struct {
	cfg    *config.Config
	store  *store.FileStore
	runLog *logging.RunLogger
	logger *log.Logger
}

func openSession(cfg *config.Config) (*session, error) {
	runLog, err := logging.NewRunLogger(cfg.LogDir)
	if err != nil {
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	logger := runLog.Logger(loggerOptions(cfg))
	fs := store.NewFileStore(cfg.StoreFile, store.WithLogger(logger))
	logger.Info("session started",
		"store", fs.Path(),
		"key", cfg.StorageKey,
		"write_queue", cfg.WriteQueue,
		"config_files", cfg.Files)

	return &session{
		cfg:    cfg,
		store:  fs,
		runLog: runLog,
		logger: logger,
	}, nil
}

func loggerOptions(cfg *config.Config) logging.Options {
	opts := logging.DefaultOptions()
	opts.Level = logging.ParseLevel(cfg.LogLevel)
	opts.Formatter = logging.ParseFormatter(cfg.LogFormat)
	opts.ReportTimestamp = cfg.LogTimestamps
	opts.ReportCaller = cfg.LogCaller
	return opts
}

// newSaver returns the background writer selected by write_queue.
func (s *session) newSaver() store.Saver {
	if s.cfg.WriteQueue {
		return store.NewWriter(s.store, s.cfg.StorageKey, store.WithLogger(s.logger))
	}
	return store.NewAsync(s.store, s.cfg.StorageKey, store.WithLogger(s.logger))
}

// diagnose logs schema problems in the stored value without failing.
func (s *session) diagnose(ctx context.Context) {
	value, ok, err := s.store.Get(ctx, s.cfg.StorageKey)
	if err != nil || !ok {
		return
	}
	result := todo.Validate(value)
	for _, e := range result.Errors {
		s.logger.Warn("stored tasks do not match schema", "key", s.cfg.StorageKey, "err", e)
	}
	for _, w := range result.Warnings {
		s.logger.Debug(w)
	}
}

// load reads the list for a CLI command. Unlike the interactive screen,
// commands refuse to run on unreadable data so they never overwrite it.
func (s *session) load(ctx context.Context) (*todo.List, error) {
	s.diagnose(ctx)
	list, err := todo.LoadFrom(ctx, s.store, s.cfg.StorageKey)
	if err != nil {
		s.logger.Error("load tasks", "err", err)
		return nil, fmt.Errorf("loading tasks (run 'tasks doctor'): %w", err)
	}
	s.logger.Debug("tasks loaded", "count", list.Len())
	return list, nil
}

// save writes list through a saver and waits for it to land.
func (s *session) save(ctx context.Context, list *todo.List) error {
	value, err := list.Encode()
	if err != nil {
		return err
	}
	saver := s.newSaver()
	if err := saver.Save(value); err != nil {
		return fmt.Errorf("saving tasks: %w", err)
	}
	if err := saver.Close(ctx); err != nil {
		s.logger.Error("write tasks", "err", err)
		return fmt.Errorf("saving tasks: %w", err)
	}
	s.logger.Info("tasks saved", "count", list.Len())
	return nil
}

func (s *session) Close() error {
	return s.runLog.Close()
}
