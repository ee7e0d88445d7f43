package worker

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jzx17/gothreadpool/internal/testutils"
	"github.com/jzx17/gothreadpool/pkg/types"
)

func TestNewFixedThreadPool(t *testing.T) {
	tests := []struct {
		name        string
		config      *FixedThreadPoolConfig
		expectError bool
	}{
		{
			name:        "nil config should use default",
			config:      nil,
			expectError: false,
		},
		{
			name:        "valid config",
			config:      &FixedThreadPoolConfig{PoolSize: 5},
			expectError: false,
		},
		{
			name:        "zero pool size should error",
			config:      &FixedThreadPoolConfig{PoolSize: 0},
			expectError: true,
		},
		{
			name:        "negative pool size should error",
			config:      &FixedThreadPoolConfig{PoolSize: -1},
			expectError: true,
		},
		{
			name:        "pool size above maximum should error",
			config:      &FixedThreadPoolConfig{PoolSize: 16},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool, err := NewFixedThreadPool(tt.config)

			if tt.expectError {
				assert.Error(t, err)
				assert.ErrorIs(t, err, types.ErrInvalidSize)
				assert.Nil(t, pool)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, pool)
			defer pool.Close()

			if tt.config == nil {
				assert.Equal(t, 5, pool.Size()) // default pool size
			} else {
				assert.Equal(t, tt.config.PoolSize, pool.Size())
			}
			assert.True(t, pool.IsRunning())
		})
	}
}

func TestNew_AllValidSizes(t *testing.T) {
	for size := types.MinPoolSize; size <= types.MaxPoolSize; size++ {
		pool, err := New(size)
		require.NoError(t, err, "size %d", size)

		assert.Equal(t, size, pool.Size())
		assert.Len(t, pool.GetWorkerStats(), size)
		for i, ws := range pool.GetWorkerStats() {
			assert.Equal(t, i, ws.ID)
		}

		require.NoError(t, pool.Close())
	}
}

func TestNew_InvalidSizes(t *testing.T) {
	for _, size := range []int{-100, -1, 0, 16, 17, 100, 200, 1 << 20} {
		pool, err := New(size)
		assert.Nil(t, pool)

		var sizeErr *types.InvalidSizeError
		require.True(t, errors.As(err, &sizeErr), "size %d", size)
		assert.Equal(t, size, sizeErr.Size)
	}
}

func TestNew_InvalidSizeMessages(t *testing.T) {
	tests := []struct {
		name string
		size int
		want string
	}{
		{"zero", 0, "0 is not between 1 and 15"},
		{"two hundred", 200, "200 is not between 1 and 15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.size)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestFixedThreadPool_JobExecution(t *testing.T) {
	for _, n := range []int{0, 1, 10, 1000} {
		pool, err := New(4)
		require.NoError(t, err)

		var counter int64
		for i := 0; i < n; i++ {
			pool.Execute(func() {
				atomic.AddInt64(&counter, 1)
			})
		}

		// Close drains every job queued ahead of the Terminate messages
		require.NoError(t, pool.Close())

		assert.Equal(t, int64(n), atomic.LoadInt64(&counter), "n=%d", n)
		assert.Equal(t, int64(n), pool.Stats().Completed)
	}
}

func TestFixedThreadPool_Submit(t *testing.T) {
	pool, err := New(2)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	assert.NoError(t, pool.Submit(func() { wg.Done() }))
	wg.Wait()

	// nil job
	assert.ErrorIs(t, pool.Submit(nil), types.ErrNilJob)

	require.NoError(t, pool.Close())

	// Submit after close should fail
	assert.ErrorIs(t, pool.Submit(func() {}), types.ErrPoolClosed)
}

func TestFixedThreadPool_ExecutePanicsWhenClosed(t *testing.T) {
	pool, err := New(1)
	require.NoError(t, err)
	require.NoError(t, pool.Close())

	assert.PanicsWithError(t, "thread pool execute: thread pool is closed", func() {
		pool.Execute(func() {})
	})
}

func TestFixedThreadPool_ExecutePanicsOnNilJob(t *testing.T) {
	pool, err := New(1)
	require.NoError(t, err)
	defer pool.Close()

	assert.Panics(t, func() {
		pool.Execute(nil)
	})
}

func TestFixedThreadPool_CloseIsSynchronous(t *testing.T) {
	pool, err := New(3)
	require.NoError(t, err)

	for i := 0; i < 6; i++ {
		pool.Execute(func() {
			time.Sleep(10 * time.Millisecond)
		})
	}

	require.NoError(t, pool.Close())

	// Every worker goroutine has exited by the time Close returns
	assert.True(t, pool.IsStopped())
	assert.Equal(t, types.StateStopped, pool.State())
	for _, w := range pool.workers {
		select {
		case <-w.Done():
		default:
			t.Fatalf("worker %d still running after Close", w.ID())
		}
	}
	for _, ws := range pool.GetWorkerStats() {
		assert.True(t, ws.IsStopped())
	}

	stats := pool.Stats()
	assert.Equal(t, 0, stats.BusyWorkers)
	assert.Equal(t, 0, stats.QueueLength)
	assert.Equal(t, int64(6), stats.Completed)
}

func TestFixedThreadPool_CloseIdempotent(t *testing.T) {
	pool, err := New(2)
	require.NoError(t, err)

	assert.NoError(t, pool.Close())
	assert.NoError(t, pool.Close())
	assert.True(t, pool.IsStopped())
}

func TestFixedThreadPool_StateTransitions(t *testing.T) {
	pool, err := New(1)
	require.NoError(t, err)
	assert.Equal(t, types.StateRunning, pool.State())

	release := make(chan struct{})
	started := make(chan struct{})
	pool.Execute(func() {
		close(started)
		<-release
	})
	<-started

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		_ = pool.Close()
	}()

	assert.Eventually(t, func() bool {
		return pool.State() == types.StateDraining
	}, time.Second, time.Millisecond)

	// Draining refuses new work
	assert.ErrorIs(t, pool.Submit(func() {}), types.ErrPoolClosed)

	close(release)
	testutils.WaitClosed(t, closed, time.Second)
	assert.Equal(t, types.StateStopped, pool.State())
}

func TestFixedThreadPool_PanicDoesNotReduceCapacity(t *testing.T) {
	var faults int64
	pool, err := NewFixedThreadPool(&FixedThreadPoolConfig{
		PoolSize: 2,
		PanicHandler: func(err *types.JobPanicError) {
			atomic.AddInt64(&faults, 1)
		},
	})
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		pool.Execute(func() { panic("test panic") })
	}

	// Both workers must still be alive to run jobs concurrently
	var wg sync.WaitGroup
	barrier := make(chan struct{})
	var arrived int64
	for i := 0; i < 2; i++ {
		wg.Add(1)
		pool.Execute(func() {
			defer wg.Done()
			if atomic.AddInt64(&arrived, 1) == 2 {
				close(barrier)
			}
			<-barrier
		})
	}

	testutils.RunWithTimeout(t, 2*time.Second, wg.Wait)
	require.NoError(t, pool.Close())

	assert.Equal(t, int64(4), atomic.LoadInt64(&faults))
	stats := pool.Stats()
	assert.Equal(t, int64(4), stats.Faulted)
	assert.Equal(t, int64(2), stats.Completed)
}

func TestFixedThreadPool_LogsShutdown(t *testing.T) {
	logger, hook := testutils.NewTestLogger()
	pool, err := NewFixedThreadPool(&FixedThreadPoolConfig{
		PoolSize: 3,
		Logger:   logger,
	})
	require.NoError(t, err)
	require.NoError(t, pool.Close())

	msgs := testutils.Messages(hook)
	assert.Contains(t, msgs, "Asking workers to finish their work...")
	assert.Contains(t, msgs, "Shutting down worker 0...")
	assert.Contains(t, msgs, "Shutting down worker 1...")
	assert.Contains(t, msgs, "Shutting down worker 2...")
}

func TestFixedThreadPool_Stats(t *testing.T) {
	pool, err := New(3)
	require.NoError(t, err)
	defer pool.Close()

	stats := pool.Stats()
	assert.Equal(t, 3, stats.PoolSize)
	assert.Equal(t, 3, stats.IdleWorkers())

	release := make(chan struct{})
	var started sync.WaitGroup
	started.Add(3)
	for i := 0; i < 3; i++ {
		pool.Execute(func() {
			started.Done()
			<-release
		})
	}
	started.Wait()

	// Queued behind three busy workers
	pool.Execute(func() {})
	pool.Execute(func() {})

	assert.Eventually(t, func() bool {
		return pool.Stats().BusyWorkers == 3
	}, time.Second, time.Millisecond)
	assert.Equal(t, 2, pool.QueueLength())

	close(release)
	assert.Eventually(t, func() bool {
		s := pool.Stats()
		return s.Completed == 5 && s.QueueLength == 0
	}, time.Second, time.Millisecond)
}

// Benchmark tests
func BenchmarkFixedThreadPool_Submit(b *testing.B) {
	pool, err := New(10)
	require.NoError(b, err)
	defer pool.Close()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = pool.Submit(func() {})
		}
	})
}

func BenchmarkFixedThreadPool_JobExecution(b *testing.B) {
	pool, err := New(10)
	require.NoError(b, err)
	defer pool.Close()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			var wg sync.WaitGroup
			wg.Add(1)
			pool.Execute(func() {
				wg.Done()
			})
			wg.Wait()
		}
	})
}
