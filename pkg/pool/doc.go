// Package pool provides a fixed-size worker pool with a FIFO job queue and a
// drain barrier.
//
// # Basic Usage
//
//	p := pool.New(pool.WithWorkers(4))
//	defer p.Close()
//
//	for i := range 100 {
//		if err := p.Submit(func() { process(i) }); err != nil {
//			return err
//		}
//	}
//	p.WaitIdle() // queue empty and no job running
//
// Jobs start in submission order but may finish in any order. WaitIdle is the
// only completion barrier; there are no per-job handles.
//
// # Failures
//
// A job that panics does not take its worker down. The panic is recovered,
// counted in Stats, and passed to the handler set with WithPanicHandler (by
// default it is logged). Submit after Close returns ErrPoolClosed.
//
// # Backpressure
//
// The queue is unbounded unless WithQueueCapacity is given. A bounded pool
// either blocks producers (Block) or rejects them with ErrQueueFull (Reject).
// A job that submits to its own full, blocking pool can deadlock.
//
// # Shutdown
//
// Close drops queued jobs, lets running jobs finish and waits for all workers.
// Neither Close nor WaitIdle may be called from inside a job.
//
// # Parallel Iteration
//
// ForRange and ForEach split a range into one chunk per worker and block until
// every element has been visited exactly once.
package pool
