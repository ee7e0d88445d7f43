package worker

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jzx17/gothreadpool/pkg/types"
)

// FixedThreadPoolConfig defines configuration for the fixed thread pool
type FixedThreadPoolConfig struct {
	// PoolSize is the number of workers, between types.MinPoolSize and types.MaxPoolSize
	PoolSize int

	// Clock for time operations (optional, defaults to real clock)
	Clock types.Clock

	// Logger receives worker lifecycle lines (optional, defaults to discarding them)
	Logger logrus.FieldLogger

	// PanicHandler is called when a job panics (optional)
	PanicHandler types.PanicHandler
}

// DefaultFixedThreadPoolConfig returns default configuration
func DefaultFixedThreadPoolConfig() *FixedThreadPoolConfig {
	return &FixedThreadPoolConfig{
		PoolSize: 5,
		Clock:    types.NewRealClock(),
	}
}

// FixedThreadPool runs jobs on a fixed set of workers fed by an unbounded queue
type FixedThreadPool struct {
	config  *FixedThreadPoolConfig
	workers []*Worker
	queue   *workQueue
	logger  logrus.FieldLogger

	// statistics
	completed int64
	faulted   int64

	// state management
	state     int32 // types.PoolState
	closeOnce sync.Once
}

var _ types.ThreadPool = (*FixedThreadPool)(nil)

// New creates a running thread pool with size workers and default settings
func New(size int) (*FixedThreadPool, error) {
	config := DefaultFixedThreadPoolConfig()
	config.PoolSize = size
	return NewFixedThreadPool(config)
}

// NewFixedThreadPool validates config and starts its workers
func NewFixedThreadPool(config *FixedThreadPoolConfig) (*FixedThreadPool, error) {
	if config == nil {
		config = DefaultFixedThreadPoolConfig()
	}

	if err := types.ValidatePoolSize(config.PoolSize); err != nil {
		return nil, err
	}

	cfg := *config
	cfg.Clock = types.OrRealClock(cfg.Clock)
	if cfg.Logger == nil {
		cfg.Logger = discardLogger()
	}

	pool := &FixedThreadPool{
		config:  &cfg,
		workers: make([]*Worker, cfg.PoolSize),
		queue:   newWorkQueue(),
		logger:  cfg.Logger,
		state:   int32(types.StateRunning),
	}

	for i := 0; i < cfg.PoolSize; i++ {
		w := newWorker(i, pool.queue, cfg.Clock, cfg.Logger)
		w.SetCompletionCallback(pool.recordCompletion)
		if cfg.PanicHandler != nil {
			w.SetPanicHandler(cfg.PanicHandler)
		}
		pool.workers[i] = w
	}

	for _, w := range pool.workers {
		w.start()
	}

	pool.logger.Debugf("Thread pool started with %d workers", cfg.PoolSize)
	return pool, nil
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func (p *FixedThreadPool) recordCompletion(_ time.Duration, faulted bool) {
	if faulted {
		atomic.AddInt64(&p.faulted, 1)
		return
	}
	atomic.AddInt64(&p.completed, 1)
}

// Execute enqueues job. Submitting to a pool that has begun closing is a
// programming error and panics, as does a nil job.
func (p *FixedThreadPool) Execute(job types.Job) {
	if err := p.Submit(job); err != nil {
		panic(fmt.Errorf("thread pool execute: %w", err))
	}
}

// Submit enqueues job without blocking on capacity.
// It returns types.ErrPoolClosed once Close has started.
func (p *FixedThreadPool) Submit(job types.Job) error {
	if job == nil {
		return types.ErrNilJob
	}
	return p.queue.send(job)
}

// Close sends one Terminate per worker and waits for every worker to exit.
// Jobs queued before Close still run. Calling Close again is a no-op.
func (p *FixedThreadPool) Close() error {
	p.closeOnce.Do(func() {
		p.logger.Info("Asking workers to finish their work...")

		p.queue.terminate(len(p.workers))
		atomic.StoreInt32(&p.state, int32(types.StateDraining))

		for _, w := range p.workers {
			p.logger.WithField("worker_id", w.ID()).Infof("Shutting down worker %d...", w.ID())
			w.join()
		}

		atomic.StoreInt32(&p.state, int32(types.StateStopped))
		p.logger.Debug("Thread pool stopped")
	})

	return nil
}

// Size returns the number of workers
func (p *FixedThreadPool) Size() int {
	return p.config.PoolSize
}

// State returns the pool lifecycle state
func (p *FixedThreadPool) State() types.PoolState {
	return types.PoolState(atomic.LoadInt32(&p.state))
}

// IsRunning checks if the pool accepts jobs
func (p *FixedThreadPool) IsRunning() bool {
	return p.State() == types.StateRunning
}

// IsStopped checks if every worker has exited
func (p *FixedThreadPool) IsStopped() bool {
	return p.State() == types.StateStopped
}

// Stats gets basic pool statistics
func (p *FixedThreadPool) Stats() types.PoolStats {
	var busy int
	for _, w := range p.workers {
		if w.State() == WorkerStateWorking {
			busy++
		}
	}

	return types.PoolStats{
		PoolSize:    p.config.PoolSize,
		BusyWorkers: busy,
		QueueLength: p.queue.len(),
		Completed:   atomic.LoadInt64(&p.completed),
		Faulted:     atomic.LoadInt64(&p.faulted),
	}
}

// GetWorkerStats gets statistics of all Workers
func (p *FixedThreadPool) GetWorkerStats() []WorkerStats {
	stats := make([]WorkerStats, len(p.workers))
	for i, w := range p.workers {
		stats[i] = w.Stats()
	}
	return stats
}

// QueueLength gets the current number of queued messages
func (p *FixedThreadPool) QueueLength() int {
	return p.queue.len()
}
