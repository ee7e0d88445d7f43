/*
Package worker provides a fixed-size thread pool that runs opaque jobs on a bounded set of long-lived worker goroutines, with deterministic shutdown.

# Overview

The pool accepts arbitrary closures from any number of producers and executes them concurrently:
- A fixed number of workers, chosen at construction (1 to 15)
- An unbounded FIFO work queue shared by all workers
- One Terminate message per worker on shutdown
- Synchronous Close that waits for every worker to exit

# Core Components

## FixedThreadPool

Owns the workers and the producing side of the work queue:
- Construction validates the size and starts every worker immediately
- Execute and Submit enqueue without blocking on capacity
- Close refuses new jobs, enqueues the Terminate messages and joins each worker in id order

## Worker

A single goroutine looping over the shared queue:
- Takes the queue lock only to dequeue one message
- Runs jobs outside the lock, so workers serialize dequeues but not execution
- Exits after its Terminate message

## Work queue

Carries either a job or a Terminate signal. Terminate messages are enqueued behind
everything already queued, so jobs accepted before Close always run.

# Lifecycle

	Running -> Draining -> Stopped

NewFixedThreadPool returns a Running pool or an *types.InvalidSizeError. Close moves the pool
to Draining, and to Stopped once the last worker has exited. Submit returns
types.ErrPoolClosed from Draining onwards; Execute panics instead.

# Faults

A panicking job does not take its worker down. The worker recovers, logs the fault and
reports a *types.JobPanicError to the configured PanicHandler, then keeps serving, so the
pool never loses capacity.

# Usage Examples

Basic usage:

	pool, err := worker.New(4)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	for conn := range conns {
		conn := conn
		pool.Execute(func() {
			handle(conn)
		})
	}

With configuration:

	pool, err := worker.NewFixedThreadPool(&worker.FixedThreadPoolConfig{
		PoolSize: 8,
		Logger:   logrus.StandardLogger(),
		PanicHandler: func(err *types.JobPanicError) {
			alert(err)
		},
	})

Retrieve statistics:

	stats := pool.Stats()
	fmt.Printf("Busy Workers: %d/%d\n", stats.BusyWorkers, stats.PoolSize)
	fmt.Printf("Completed: %d, Faulted: %d\n", stats.Completed, stats.Faulted)

# Concurrency Safety

Job execution is concurrent and unsynchronized across workers. State shared between jobs
must be synchronized by the caller.
*/
package worker
