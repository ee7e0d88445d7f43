// Package types defines core interfaces and types shared by the thread pool and its collaborators
package types

// Job is an opaque, single-invocation unit of work.
// Ownership passes to whichever worker dequeues it; it runs exactly once.
type Job func()

// PanicHandler receives faults raised while a worker executes a Job
type PanicHandler func(err *JobPanicError)

// ThreadPool defines the producer-facing interface of a worker pool
type ThreadPool interface {
	// Execute enqueues a job, panicking if the pool no longer accepts work
	Execute(job Job)

	// Submit enqueues a job, reporting instead of panicking when it cannot
	Submit(job Job) error

	// Close terminates every worker and blocks until all of them have exited
	Close() error

	// Size returns the fixed number of workers
	Size() int

	// State returns the lifecycle state of the pool
	State() PoolState

	// Stats returns pool statistics
	Stats() PoolStats
}

// PoolState defines the lifecycle state of a ThreadPool
type PoolState int32

const (
	// StateRunning workers are accepting and executing jobs
	StateRunning PoolState = iota
	// StateDraining Terminate messages are enqueued, workers are finishing queued jobs
	StateDraining
	// StateStopped every worker has exited
	StateStopped
)

// String returns the string representation of PoolState
func (ps PoolState) String() string {
	switch ps {
	case StateRunning:
		return "Running"
	case StateDraining:
		return "Draining"
	case StateStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// PoolStats defines basic statistics for thread pools
type PoolStats struct {
	// PoolSize is the number of workers
	PoolSize int

	// BusyWorkers is the number of workers currently executing a job
	BusyWorkers int

	// QueueLength is the number of messages waiting in the work queue
	QueueLength int

	// Completed is the number of jobs that returned normally
	Completed int64

	// Faulted is the number of jobs that panicked
	Faulted int64
}

// IdleWorkers returns the number of workers not executing a job
func (s PoolStats) IdleWorkers() int {
	return s.PoolSize - s.BusyWorkers
}
