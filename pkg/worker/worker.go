package worker

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jzx17/gothreadpool/pkg/types"
)

// WorkerState defines the state of a Worker
type WorkerState int32

const (
	// WorkerStateIdle represents idle worker state
	WorkerStateIdle WorkerState = iota
	// WorkerStateWorking represents working worker state
	WorkerStateWorking
	// WorkerStateStopped represents stopped worker state
	WorkerStateStopped
)

// String returns the string representation of WorkerState
func (ws WorkerState) String() string {
	switch ws {
	case WorkerStateIdle:
		return "idle"
	case WorkerStateWorking:
		return "working"
	case WorkerStateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Worker represents a single long-lived worker goroutine
type Worker struct {
	id    int
	state int32 // atomic state
	queue *workQueue
	done  chan struct{}

	// statistics
	totalProcessed int64
	totalFaulted   int64
	lastJobTime    int64 // Unix nanosecond timestamp

	// fault reporting
	panicHandler types.PanicHandler

	// pool callback for syncing statistics
	completionCallback func(time.Duration, bool)

	clock  types.Clock
	logger logrus.FieldLogger

	// synchronization
	mu sync.RWMutex
}

func newWorker(id int, queue *workQueue, clock types.Clock, logger logrus.FieldLogger) *Worker {
	return &Worker{
		id:     id,
		state:  int32(WorkerStateIdle),
		queue:  queue,
		done:   make(chan struct{}),
		clock:  types.OrRealClock(clock),
		logger: logger.WithField("worker_id", id),
	}
}

// ID returns the Worker ID
func (w *Worker) ID() int {
	return w.id
}

// State returns the current Worker state
func (w *Worker) State() WorkerState {
	return WorkerState(atomic.LoadInt32(&w.state))
}

// SetPanicHandler sets the handler invoked when a job panics
func (w *Worker) SetPanicHandler(handler types.PanicHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.panicHandler = handler
}

// SetCompletionCallback sets the job completion callback
func (w *Worker) SetCompletionCallback(callback func(time.Duration, bool)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.completionCallback = callback
}

// start launches the worker loop on its own goroutine
func (w *Worker) start() {
	go w.run()
}

// run dequeues one message at a time until it receives Terminate
func (w *Worker) run() {
	defer close(w.done)
	defer atomic.StoreInt32(&w.state, int32(WorkerStateStopped))

	for {
		msg := w.queue.receive()
		if msg.kind == messageTerminate {
			w.logger.Debug("Worker received terminate; exiting.")
			return
		}
		w.logger.Debugf("Worker %d got a job; executing.", w.id)
		w.processJob(msg.job)
	}
}

// processJob runs a single job and records its outcome
func (w *Worker) processJob(job types.Job) {
	atomic.StoreInt32(&w.state, int32(WorkerStateWorking))
	defer atomic.StoreInt32(&w.state, int32(WorkerStateIdle))

	startTime := w.clock.Now()
	atomic.StoreInt64(&w.lastJobTime, startTime.UnixNano())

	perr := w.executeJob(job)

	executionTime := w.clock.Since(startTime)

	faulted := perr != nil
	if faulted {
		atomic.AddInt64(&w.totalFaulted, 1)
		w.handlePanic(perr)
	} else {
		atomic.AddInt64(&w.totalProcessed, 1)
	}

	w.mu.RLock()
	callback := w.completionCallback
	w.mu.RUnlock()

	if callback != nil {
		callback(executionTime, faulted)
	}
}

// executeJob invokes the job, converting a panic into a JobPanicError
func (w *Worker) executeJob(job types.Job) (perr *types.JobPanicError) {
	defer func() {
		if r := recover(); r != nil {
			var buf [4096]byte
			n := runtime.Stack(buf[:], false)
			perr = &types.JobPanicError{
				WorkerID: w.id,
				Value:    r,
				Stack:    string(buf[:n]),
			}
		}
	}()

	job()
	return nil
}

func (w *Worker) handlePanic(perr *types.JobPanicError) {
	w.logger.WithField("stack_trace", perr.Stack).Errorf("Worker %d recovered from job fault: %v", w.id, perr.Value)

	w.mu.RLock()
	handler := w.panicHandler
	w.mu.RUnlock()

	if handler != nil {
		handler(perr)
	}
}

// join blocks until the worker goroutine has exited
func (w *Worker) join() {
	<-w.done
}

// Done returns a channel closed once the worker goroutine has exited
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// Stats gets Worker statistics
func (w *Worker) Stats() WorkerStats {
	var lastJob time.Time
	if ns := atomic.LoadInt64(&w.lastJobTime); ns != 0 {
		lastJob = time.Unix(0, ns)
	}
	return WorkerStats{
		ID:             w.id,
		State:          w.State(),
		TotalProcessed: atomic.LoadInt64(&w.totalProcessed),
		TotalFaulted:   atomic.LoadInt64(&w.totalFaulted),
		LastJobTime:    lastJob,
	}
}

// WorkerStats defines Worker statistics
type WorkerStats struct {
	ID             int
	State          WorkerState
	TotalProcessed int64
	TotalFaulted   int64
	LastJobTime    time.Time
}

// IsBusy checks if the Worker is executing a job
func (ws WorkerStats) IsBusy() bool {
	return ws.State == WorkerStateWorking
}

// IsStopped checks if the Worker has exited
func (ws WorkerStats) IsStopped() bool {
	return ws.State == WorkerStateStopped
}

// FaultRate gets the share of jobs that panicked
func (ws WorkerStats) FaultRate() float64 {
	total := ws.TotalProcessed + ws.TotalFaulted
	if total == 0 {
		return 0
	}
	return float64(ws.TotalFaulted) / float64(total)
}
