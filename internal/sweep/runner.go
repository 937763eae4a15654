package sweep

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

var ErrInvalidInterval = errors.New("sweep: invalid runner interval")

// Locker serializes sweeps across scheduler instances. TryLock must fail
// fast when another holder is active instead of blocking.
type Locker interface {
	TryLock() error
	Unlock() error
}

// noopLocker is used when no cross-instance exclusion is configured.
type noopLocker struct{}

func (noopLocker) TryLock() error { return nil }
func (noopLocker) Unlock() error  { return nil }

// Runner invokes the sweeper on a fixed cadence. A tick that cannot acquire
// the lock is skipped entirely; the next tick re-evaluates from scratch, so
// nothing is lost beyond delay.
type Runner struct {
	mu       sync.Mutex
	sweeper  *Sweeper
	interval time.Duration
	locker   Locker
	logger   *log.Logger
	stopCh   chan struct{}
	doneCh   chan struct{}
	started  bool
	stopped  bool
}

func NewRunner(sweeper *Sweeper, interval time.Duration, locker Locker, logger *log.Logger) (*Runner, error) {
	if sweeper == nil {
		return nil, errors.New("sweep: nil sweeper")
	}
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	if locker == nil {
		locker = noopLocker{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		sweeper:  sweeper,
		interval: interval,
		locker:   locker,
		logger:   logger,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return
	}
	r.started = true
	go r.loop(ctx)
}

func (r *Runner) Stop() {
	r.mu.Lock()
	if !r.started || r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	close(r.stopCh)
	r.mu.Unlock()
	<-r.doneCh
}

func (r *Runner) loop(ctx context.Context) {
	defer close(r.doneCh)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.tick(ctx)
		case <-ctx.Done():
			return
		case <-r.stopCh:
			return
		}
	}
}

func (r *Runner) tick(ctx context.Context) {
	if err := r.locker.TryLock(); err != nil {
		r.logger.Printf("sweep: tick skipped, lock held elsewhere: %v", err)
		return
	}
	defer func() {
		if err := r.locker.Unlock(); err != nil {
			r.logger.Printf("sweep: release lock: %v", err)
		}
	}()

	report, err := r.sweeper.Run(ctx, time.Now().UTC())
	if err != nil {
		r.logger.Printf("sweep: run failed: %v", err)
		return
	}
	r.logger.Printf("sweep: evaluated=%d notified=%d skipped_no_target=%d skipped_interval=%d send_failed=%d",
		report.Evaluated, report.Notified, report.SkippedNoTarget, report.SkippedInterval, report.SendFailed)
}
