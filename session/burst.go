package session

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultInterval is the delay between two captures in continuous mode.
const DefaultInterval = 2 * time.Second

// Burst drives the continuous capture mode: while active, it invokes the
// capture function at a fixed interval.
type Burst struct {
	mu       sync.Mutex
	interval time.Duration
	capture  func(context.Context) error
	logger   logrus.FieldLogger

	cancel context.CancelFunc
	done   chan struct{}
}

// NewBurst creates an inactive burst. A non positive interval falls back to DefaultInterval.
func NewBurst(interval time.Duration, capture func(context.Context) error, logger logrus.FieldLogger) *Burst {
	if logger == nil {
		logger = nopLogger()
	}
	b := &Burst{capture: capture, logger: logger}
	b.SetInterval(interval)
	return b
}

// SetInterval changes the capture interval. It takes effect on the next start.
func (b *Burst) SetInterval(d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if d <= 0 {
		d = DefaultInterval
	}
	b.interval = d
}

// Interval returns the capture interval.
func (b *Burst) Interval() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.interval
}

// Active reports whether the continuous capture is running.
func (b *Burst) Active() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.cancel != nil
}

// Toggle switches the continuous capture on or off and returns the new state.
func (b *Burst) Toggle(ctx context.Context) bool {
	if b.Active() {
		b.Stop()
		return false
	}
	b.Start(ctx)
	return true
}

// Start launches the capture loop. Starting an active burst is a no-op.
// The loop also ends when ctx is cancelled.
func (b *Burst) Start(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	b.done = make(chan struct{})

	go b.run(ctx, b.interval, b.done)
	b.logger.WithField("interval", b.interval).Info("continuous capture started")
}

// Stop ends the capture loop and waits for it to exit.
func (b *Burst) Stop() {
	b.mu.Lock()
	cancel, done := b.cancel, b.done
	b.cancel, b.done = nil, nil
	b.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	b.logger.Info("continuous capture stopped")
}

func (b *Burst) run(ctx context.Context, interval time.Duration, done chan struct{}) {
	defer func() {
		b.mu.Lock()
		if b.done == done {
			b.cancel()
			b.cancel, b.done = nil, nil
		}
		b.mu.Unlock()
		close(done)
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := b.capture(ctx); err != nil {
				b.logger.WithError(err).Warn("continuous capture failed")
			}
		}
	}
}
