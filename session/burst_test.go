package session

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func TestBurstToggle(t *testing.T) {
	var count atomic.Int32
	b := NewBurst(5*time.Millisecond, func(context.Context) error {
		count.Add(1)
		return nil
	}, nil)

	assert.False(t, b.Active())
	assert.True(t, b.Toggle(context.Background()))
	assert.True(t, b.Active())

	assert.Eventually(t, func() bool { return count.Load() >= 3 }, time.Second, time.Millisecond)

	assert.False(t, b.Toggle(context.Background()))
	assert.False(t, b.Active())

	stopped := count.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, count.Load())
}

func TestBurstStartIsIdempotent(t *testing.T) {
	b := NewBurst(time.Hour, func(context.Context) error { return nil }, nil)

	b.Start(context.Background())
	b.Start(context.Background())
	assert.True(t, b.Active())

	b.Stop()
	b.Stop()
	assert.False(t, b.Active())
}

func TestBurstContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	b := NewBurst(time.Hour, func(context.Context) error { return nil }, nil)

	b.Start(ctx)
	cancel()
	assert.Eventually(t, func() bool { return !b.Active() }, time.Second, time.Millisecond)
}

func TestBurstLogsCaptureErrors(t *testing.T) {
	logger, hook := test.NewNullLogger()
	var count atomic.Int32
	b := NewBurst(2*time.Millisecond, func(context.Context) error {
		count.Add(1)
		return errors.New("camera gone")
	}, logger)

	b.Start(context.Background())
	assert.Eventually(t, func() bool { return count.Load() >= 2 }, time.Second, time.Millisecond)
	b.Stop()

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Message == "continuous capture failed" {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestBurstInterval(t *testing.T) {
	b := NewBurst(0, func(context.Context) error { return nil }, nil)
	assert.Equal(t, DefaultInterval, b.Interval())

	b.SetInterval(500 * time.Millisecond)
	assert.Equal(t, 500*time.Millisecond, b.Interval())

	b.SetInterval(-time.Second)
	assert.Equal(t, DefaultInterval, b.Interval())
}
