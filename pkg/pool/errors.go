package pool

import (
	"errors"
	"fmt"
)

var (
	// ErrPoolClosed is returned by Submit once Close has been called.
	ErrPoolClosed = errors.New("pool is closed")
	// ErrQueueFull is returned by Submit when a bounded queue is full and the
	// pool uses the Reject policy.
	ErrQueueFull = errors.New("job queue is full")
	// ErrNilJob is returned when Submit is given a nil job.
	ErrNilJob = errors.New("job must not be nil")
)

// PanicError describes a panic recovered from a job or a ForEach callback.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("job panicked: %v", e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
