package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// IntervalTrigger submits a named job every interval. A tick that finds the
// previous run still queued or running is skipped.
type IntervalTrigger struct {
	name      string
	interval  time.Duration
	immediate bool
	scheduler *Scheduler
	logger    *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewIntervalTrigger creates a trigger. With immediate set the first run is
// submitted on Start instead of after the first interval.
func NewIntervalTrigger(name string, interval time.Duration, immediate bool, scheduler *Scheduler, logger *zap.Logger) *IntervalTrigger {
	return &IntervalTrigger{
		name:      name,
		interval:  interval,
		immediate: immediate,
		scheduler: scheduler,
		logger:    logger,
	}
}

// Start starts the ticker loop
func (t *IntervalTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.isRunning {
		return nil
	}
	if t.interval <= 0 {
		return errors.New("trigger interval must be positive")
	}
	t.isRunning = true

	ctx, t.cancel = context.WithCancel(ctx)
	t.wg.Add(1)
	go t.loop(ctx)

	t.logger.Info("Interval trigger started",
		zap.String("job", t.name),
		zap.Duration("interval", t.interval),
	)
	return nil
}

// Stop stops the ticker loop
func (t *IntervalTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.mu.Unlock()

	t.cancel()
	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *IntervalTrigger) loop(ctx context.Context) {
	defer t.wg.Done()

	if t.immediate {
		t.fire()
	}

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.fire()
		}
	}
}

func (t *IntervalTrigger) fire() {
	_, err := t.scheduler.Submit(t.name)
	switch {
	case err == nil:
	case errors.Is(err, ErrJobAlreadyQueued):
		t.logger.Debug("Previous run still in flight, skipping tick", zap.String("job", t.name))
	default:
		t.logger.Warn("Failed to submit job", zap.String("job", t.name), zap.Error(err))
	}
}
