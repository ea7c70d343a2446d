package tasks_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/plus3/scenery/tasks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestPoolSpawnDoesNotBlock(t *testing.T) {
	pool := tasks.NewPool(zap.NewNop(), 1)
	release := make(chan struct{})

	start := time.Now()
	for range 5 {
		pool.Spawn("blocked", func(ctx context.Context) error {
			<-release
			return nil
		})
	}
	assert.Less(t, time.Since(start), time.Second)

	close(release)
	pool.Wait()
	assert.Equal(t, tasks.Stats{Spawned: 5, Completed: 5}, pool.Stats())
}

func TestPoolBoundsConcurrency(t *testing.T) {
	pool := tasks.NewPool(zap.NewNop(), 2)

	var running, peak atomic.Int64
	for range 8 {
		pool.Spawn("count", func(ctx context.Context) error {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			running.Add(-1)
			return nil
		})
	}
	pool.Wait()

	assert.LessOrEqual(t, peak.Load(), int64(2))
}

func TestPoolReportsFailuresLoudly(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	pool := tasks.NewPool(zap.New(core), 2)

	pool.Spawn("write scene", func(ctx context.Context) error {
		return errors.New("permission denied")
	})
	pool.Spawn("explode", func(ctx context.Context) error {
		panic("boom")
	})
	pool.Spawn("fine", func(ctx context.Context) error { return nil })
	pool.Wait()

	assert.Equal(t, tasks.Stats{Spawned: 3, Completed: 1, Failed: 1, Panicked: 1}, pool.Stats())

	failed := logs.FilterMessage("task failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, zapcore.ErrorLevel, failed[0].Level)
	assert.Equal(t, "write scene", failed[0].ContextMap()["task"])

	crashed := logs.FilterMessage("task crashed").All()
	require.Len(t, crashed, 1)
	assert.Equal(t, "boom", crashed[0].ContextMap()["panic"])
}

func TestPoolCloseCancelsContext(t *testing.T) {
	pool := tasks.NewPool(zap.NewNop(), 1)

	var sawCancel atomic.Bool
	started := make(chan struct{})
	pool.Spawn("wait for cancel", func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		sawCancel.Store(true)
		return nil
	})

	<-started
	pool.Close()
	assert.True(t, sawCancel.Load())
}
