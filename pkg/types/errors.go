// Package types defines error types
package types

import (
	"errors"
	"fmt"
)

const (
	// MinPoolSize is the smallest accepted number of workers
	MinPoolSize = 1
	// MaxPoolSize is the largest accepted number of workers
	MaxPoolSize = 15
)

// Predefined errors
var (
	// ErrInvalidSize indicates a pool size outside [MinPoolSize, MaxPoolSize]
	ErrInvalidSize = errors.New("invalid thread pool size")

	// ErrPoolClosed indicates the pool no longer accepts jobs
	ErrPoolClosed = errors.New("thread pool is closed")

	// ErrNilJob indicates a nil job was submitted
	ErrNilJob = errors.New("job cannot be nil")
)

// InvalidSizeError is returned when a pool is constructed with a bad size
type InvalidSizeError struct {
	// Size is the rejected value
	Size int
}

// Error implements the error interface
func (e *InvalidSizeError) Error() string {
	return fmt.Sprintf("bad value provided for a thread pool size: %d is not between %d and %d",
		e.Size, MinPoolSize, MaxPoolSize)
}

// Is reports whether target is ErrInvalidSize
func (e *InvalidSizeError) Is(target error) bool {
	return target == ErrInvalidSize
}

// ValidatePoolSize returns an *InvalidSizeError when size is out of range
func ValidatePoolSize(size int) error {
	if size < MinPoolSize || size > MaxPoolSize {
		return &InvalidSizeError{Size: size}
	}
	return nil
}

// JobPanicError represents a fault raised while a worker executed a job
type JobPanicError struct {
	// WorkerID is the worker that ran the job
	WorkerID int

	// Value is the recovered panic value
	Value interface{}

	// Stack is the goroutine stack at the time of the panic
	Stack string
}

// Error implements the error interface
func (e *JobPanicError) Error() string {
	return fmt.Sprintf("job panicked on worker %d: %v", e.WorkerID, e.Value)
}

// Unwrap returns the panic value when it is an error
func (e *JobPanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
