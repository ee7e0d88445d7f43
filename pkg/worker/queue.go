package worker

import (
	"sync"

	"github.com/jzx17/gothreadpool/pkg/types"
)

// messageKind tags the two message variants carried by the work queue
type messageKind int

const (
	messageJob messageKind = iota
	messageTerminate
)

// message is either a job to run or a Terminate signal for exactly one worker
type message struct {
	kind messageKind
	job  types.Job
}

// workQueue is an unbounded multi-producer, multi-consumer FIFO.
// The mutex is held only for a single enqueue or dequeue.
type workQueue struct {
	mu       sync.Mutex
	nonEmpty *sync.Cond
	items    []message
	closed   bool
}

func newWorkQueue() *workQueue {
	q := &workQueue{}
	q.nonEmpty = sync.NewCond(&q.mu)
	return q
}

// send enqueues a job; it never blocks on capacity
func (q *workQueue) send(job types.Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return types.ErrPoolClosed
	}
	q.items = append(q.items, message{kind: messageJob, job: job})
	q.nonEmpty.Signal()
	return nil
}

// terminate closes the queue to new jobs and enqueues n Terminate messages
// behind everything already queued. It reports false if the queue was already closed.
func (q *workQueue) terminate(n int) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.closed = true
	for i := 0; i < n; i++ {
		q.items = append(q.items, message{kind: messageTerminate})
	}
	q.nonEmpty.Broadcast()
	return true
}

// receive blocks until a message is available and dequeues it
func (q *workQueue) receive() message {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 {
		q.nonEmpty.Wait()
	}

	msg := q.items[0]
	q.items[0] = message{}
	q.items = q.items[1:]
	if len(q.items) == 0 {
		q.items = nil
	}
	return msg
}

// len returns the number of queued messages
func (q *workQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
