package autosave

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/bep/debounce"

	"planner/internal/planner/models"
)

const (
	DefaultDelay   = time.Second
	DefaultTimeout = 10 * time.Second
)

// Saver writes a whole document to persistent storage.
type Saver interface {
	Save(ctx context.Context, doc *models.DrawingData) error
}

type SaverFunc func(ctx context.Context, doc *models.DrawingData) error

func (f SaverFunc) Save(ctx context.Context, doc *models.DrawingData) error {
	return f(ctx, doc)
}

// Autosaver writes the latest scheduled document once edits have been quiet
// for the configured delay. Starting a save cancels the one still in flight,
// so an older document can never land after a newer one.
type Autosaver struct {
	saver    Saver
	debounce func(func())
	timeout  time.Duration
	onError  func(error)
	logger   *slog.Logger

	mu      sync.Mutex
	pending *models.DrawingData
	cancel  context.CancelFunc
	done    chan struct{}
	seq     uint64
	lastErr error
	closed  bool
}

type Option func(*Autosaver)

// WithTimeout bounds a single save call.
func WithTimeout(d time.Duration) Option {
	return func(a *Autosaver) { a.timeout = d }
}

// WithErrorHandler is called with every failed save. Superseded saves are
// not reported.
func WithErrorHandler(fn func(error)) Option {
	return func(a *Autosaver) { a.onError = fn }
}

func WithLogger(logger *slog.Logger) Option {
	return func(a *Autosaver) { a.logger = logger }
}

func New(saver Saver, delay time.Duration, opts ...Option) *Autosaver {
	if delay <= 0 {
		delay = DefaultDelay
	}
	a := &Autosaver{
		saver:    saver,
		debounce: debounce.New(delay),
		timeout:  DefaultTimeout,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Schedule queues doc for saving, replacing any document still waiting.
func (a *Autosaver) Schedule(doc *models.DrawingData) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.pending = doc
	a.mu.Unlock()

	a.debounce(a.fire)
}

func (a *Autosaver) fire() {
	a.mu.Lock()
	doc := a.pending
	a.pending = nil
	if doc == nil {
		a.mu.Unlock()
		return
	}
	if a.cancel != nil {
		a.cancel()
	}
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	a.cancel = cancel
	a.seq++
	seq := a.seq
	done := make(chan struct{})
	a.done = done
	a.mu.Unlock()

	defer close(done)
	a.save(ctx, cancel, seq, doc)
}

func (a *Autosaver) save(ctx context.Context, cancel context.CancelFunc, seq uint64, doc *models.DrawingData) {
	err := a.saver.Save(ctx, doc)
	cancel()

	a.mu.Lock()
	latest := a.seq == seq
	if latest {
		a.cancel = nil
		a.lastErr = err
	}
	a.mu.Unlock()

	switch {
	case err == nil:
		a.logger.Debug("document saved", "seq", seq)
	case !latest && errors.Is(err, context.Canceled):
		a.logger.Debug("save superseded", "seq", seq)
	default:
		a.logger.Warn("save failed", "seq", seq, "error", err)
		if a.onError != nil {
			a.onError(err)
		}
	}
}

// Flush saves any waiting document immediately and waits for the latest
// save to finish or ctx to expire.
func (a *Autosaver) Flush(ctx context.Context) error {
	a.fire()

	a.mu.Lock()
	done := a.done
	a.mu.Unlock()
	if done == nil {
		return a.LastError()
	}

	select {
	case <-done:
		return a.LastError()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting documents and flushes the last one.
func (a *Autosaver) Close(ctx context.Context) error {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()
	return a.Flush(ctx)
}

// LastError returns the result of the most recent save that was not
// superseded.
func (a *Autosaver) LastError() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}
