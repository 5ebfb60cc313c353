// Package autosave runs a save function on a fixed interval in the background.
package autosave

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultInterval is used when New is given a non-positive interval.
const DefaultInterval = 30 * time.Second

// SaveFunc persists the current state.
type SaveFunc func() error

// Autosaver calls save every interval until stopped.
type Autosaver struct {
	interval time.Duration
	save     SaveFunc
	log      *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New returns a stopped Autosaver. A nil logger disables logging.
func New(interval time.Duration, save SaveFunc, log *zap.Logger) *Autosaver {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Autosaver{interval: interval, save: save, log: log.Named("autosave")}
}

// Start launches the background loop. Calling Start while running is a no-op.
// The loop also ends when ctx is cancelled, after which Start may be called
// again.
func (a *Autosaver) Start(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.done = make(chan struct{})

	go a.loop(ctx, a.done)
	a.log.Debug("started", zap.Duration("interval", a.interval))
}

// Running reports whether the loop has been started and not stopped.
func (a *Autosaver) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cancel != nil
}

// Stop ends the loop, waits for it to exit, and then saves once more
// synchronously. The final save runs even if the loop was never started.
func (a *Autosaver) Stop() error {
	a.mu.Lock()
	cancel, done := a.cancel, a.done
	a.cancel, a.done = nil, nil
	a.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}

	if err := a.save(); err != nil {
		a.log.Error("final save failed", zap.Error(err))
		return err
	}
	a.log.Debug("final save done")
	return nil
}

func (a *Autosaver) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer a.release(done)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := a.save(); err != nil {
				a.log.Error("periodic save failed", zap.Error(err))
				continue
			}
			a.log.Debug("periodic save done")
		}
	}
}

// release clears the running state when the loop ends on its own, so a later
// Start launches a new loop. Stop has already cleared it otherwise.
func (a *Autosaver) release(done chan struct{}) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.done == done {
		a.cancel()
		a.cancel, a.done = nil, nil
	}
}
