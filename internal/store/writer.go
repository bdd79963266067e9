package store

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// Saver persists successive values of one key without blocking the caller.
type Saver interface {
	// Save schedules value to be written. It only fails once the saver is closed.
	Save(value string) error
	// Flush waits until every value saved before the call has been written
	// and returns the last write error, if any.
	Flush(ctx context.Context) error
	// Close flushes and releases the saver.
	Close(ctx context.Context) error
}

// Stats counts saver activity.
type Stats struct {
	Saved     int // values passed to Save
	Written   int // Set calls that succeeded
	Failed    int // Set calls that failed
	Coalesced int // values replaced before being written
}

// Option configures a Writer or Async saver.
type Option func(*options)

type options struct {
	logger *log.Logger
}

// WithLogger sets the logger used to report write failures.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Writer is a serialized write queue for one key. At most one write is in
// flight; values saved meanwhile collapse into the newest one.
type Writer struct {
	store  Store
	key    string
	logger *log.Logger

	mu       sync.Mutex
	pending  string
	queued   bool   // pending has not been picked up for writing
	seq      uint64 // sequence number of the newest saved value
	written  uint64 // sequence number of the newest completed write
	lastErr  error
	closed   bool
	stats    Stats
	progress chan struct{} // closed and replaced after every write

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

// NewWriter starts a Writer that persists values of key into s.
func NewWriter(s Store, key string, opts ...Option) *Writer {
	o := buildOptions(opts)
	w := &Writer{
		store:    s,
		key:      key,
		logger:   o.logger,
		progress: make(chan struct{}),
		wake:     make(chan struct{}, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go w.run()
	return w
}

// Save implements Saver.
func (w *Writer) Save(value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if w.queued {
		w.stats.Coalesced++
	}
	w.pending = value
	w.queued = true
	w.seq++
	w.stats.Saved++

	select {
	case w.wake <- struct{}{}:
	default:
	}
	return nil
}

// Flush implements Saver.
func (w *Writer) Flush(ctx context.Context) error {
	w.mu.Lock()
	target := w.seq
	for w.written < target {
		ch := w.progress
		w.mu.Unlock()
		select {
		case <-ch:
		case <-w.done:
		case <-ctx.Done():
			return ctx.Err()
		}
		w.mu.Lock()
		if w.written < target && isClosed(w.done) {
			break
		}
	}
	err := w.lastErr
	w.mu.Unlock()
	return err
}

// Close implements Saver.
func (w *Writer) Close(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.stop)
	select {
	case <-w.done:
	case <-ctx.Done():
		return ctx.Err()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

// Stats returns a snapshot of the writer counters.
func (w *Writer) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *Writer) run() {
	defer close(w.done)
	for {
		select {
		case <-w.wake:
			w.drain()
		case <-w.stop:
			w.drain()
			return
		}
	}
}

// drain writes until the newest saved value is on disk.
func (w *Writer) drain() {
	ctx := context.Background()
	for {
		w.mu.Lock()
		if w.written == w.seq {
			w.mu.Unlock()
			return
		}
		value, seq := w.pending, w.seq
		w.queued = false
		w.mu.Unlock()

		err := w.store.Set(ctx, w.key, value)

		w.mu.Lock()
		w.written = seq
		w.lastErr = err
		if err != nil {
			w.stats.Failed++
			w.logger.Warn("persist tasks", "key", w.key, "err", err)
		} else {
			w.stats.Written++
			w.logger.Debug("persisted tasks", "key", w.key, "bytes", len(value))
		}
		close(w.progress)
		w.progress = make(chan struct{})
		w.mu.Unlock()
	}
}

func isClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

// Async writes every saved value in its own goroutine. Nothing orders the
// writes; the last one to complete wins.
type Async struct {
	store  Store
	key    string
	logger *log.Logger

	wg      sync.WaitGroup
	mu      sync.Mutex
	closed  bool
	lastErr error
	stats   Stats
}

// NewAsync returns an Async saver for key in s.
func NewAsync(s Store, key string, opts ...Option) *Async {
	o := buildOptions(opts)
	return &Async{store: s, key: key, logger: o.logger}
}

// Save implements Saver.
func (a *Async) Save(value string) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return ErrClosed
	}
	a.stats.Saved++
	a.wg.Add(1)
	a.mu.Unlock()

	go func() {
		defer a.wg.Done()
		err := a.store.Set(context.Background(), a.key, value)
		a.mu.Lock()
		defer a.mu.Unlock()
		a.lastErr = err
		if err != nil {
			a.stats.Failed++
			a.logger.Warn("persist tasks", "key", a.key, "err", err)
			return
		}
		a.stats.Written++
	}()
	return nil
}

// Flush implements Saver.
func (a *Async) Flush(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

// Close implements Saver.
func (a *Async) Close(ctx context.Context) error {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()
	return a.Flush(ctx)
}

// Stats returns a snapshot of the saver counters.
func (a *Async) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}
