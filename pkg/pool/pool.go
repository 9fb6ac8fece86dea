package pool

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nemanja-m/gopool/internal/shared/logging"
)

// Job is a unit of work. Results and errors must be reported by the job itself.
type Job func()

// Stats is a point-in-time snapshot of pool counters.
type Stats struct {
	Workers   int
	Queued    int
	Busy      int
	Submitted uint64
	Completed uint64
	Panicked  uint64
	Rejected  uint64
	Abandoned uint64
}

// Pool runs jobs on a fixed set of worker goroutines in submission order.
//
// The queue, the busy count and the running flag are guarded by mu. Workers
// wait on jobAvailable, WaitIdle callers on idle, and producers blocked by a
// full bounded queue on spaceAvailable.
type Pool struct {
	id            uuid.UUID
	name          string
	numWorkers    int
	queueCapacity int
	fullPolicy    FullPolicy
	panicHandler  func(*PanicError)
	logger        logging.Logger
	metrics       *Metrics

	mu             sync.Mutex
	jobAvailable   *sync.Cond
	idle           *sync.Cond
	spaceAvailable *sync.Cond
	queue          *jobQueue
	busy           int
	running        bool

	submitted uint64
	completed uint64
	panicked  uint64
	rejected  uint64
	abandoned uint64

	wg sync.WaitGroup
}

// New creates a pool and starts its workers. It returns once every worker
// goroutine has been launched.
func New(opts ...Option) *Pool {
	cfg := config{
		name:   "pool",
		logger: logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	numWorkers := cfg.numWorkers
	if numWorkers <= 0 {
		numWorkers = max(runtime.GOMAXPROCS(0), 1)
	}
	queueCapacity := max(cfg.queueCapacity, 0)

	p := &Pool{
		id:            uuid.New(),
		name:          cfg.name,
		numWorkers:    numWorkers,
		queueCapacity: queueCapacity,
		fullPolicy:    cfg.fullPolicy,
		panicHandler:  cfg.panicHandler,
		logger:        cfg.logger,
		metrics:       cfg.metrics,
		queue:         newJobQueue(min(max(queueCapacity, numWorkers), 1024)),
		running:       true,
	}
	p.jobAvailable = sync.NewCond(&p.mu)
	p.idle = sync.NewCond(&p.mu)
	p.spaceAvailable = sync.NewCond(&p.mu)
	if p.panicHandler == nil {
		p.panicHandler = p.logPanic
	}

	p.wg.Add(numWorkers)
	for i := range numWorkers {
		go p.worker(i)
	}

	p.logger.Info("Pool started",
		"pool", p.name,
		"pool_id", p.id.String(),
		"workers", numWorkers,
		"queue_capacity", queueCapacity,
		"full_policy", p.fullPolicy.String(),
	)
	return p
}

// Submit appends job to the tail of the queue and wakes one idle worker. It
// never waits for the job to run. With a bounded queue that is full, Submit
// blocks or returns ErrQueueFull depending on the FullPolicy.
func (p *Pool) Submit(job Job) error {
	if job == nil {
		return ErrNilJob
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for p.running && p.queueCapacity > 0 && p.queue.len() >= p.queueCapacity {
		if p.fullPolicy == Reject {
			p.rejected++
			p.metrics.rejected(p.name)
			return ErrQueueFull
		}
		p.spaceAvailable.Wait()
	}
	if !p.running {
		return ErrPoolClosed
	}

	p.enqueue(job)
	return nil
}

// trySubmit enqueues job only if that can be done without waiting. A full
// bounded queue yields ErrQueueFull whatever the FullPolicy, and is not
// counted as a rejection.
func (p *Pool) trySubmit(job Job) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return ErrPoolClosed
	}
	if p.queueCapacity > 0 && p.queue.len() >= p.queueCapacity {
		return ErrQueueFull
	}
	p.enqueue(job)
	return nil
}

// enqueue must be called with p.mu held.
func (p *Pool) enqueue(job Job) {
	p.queue.push(job)
	p.submitted++
	p.metrics.submitted(p.name, p.queue.len())
	p.jobAvailable.Signal()
}

// WaitIdle blocks until the queue is empty and no worker is executing a job.
// Any number of goroutines may wait at once; all are released together.
// Calling WaitIdle from inside a job deadlocks.
func (p *Pool) WaitIdle() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for p.queue.len() > 0 || p.busy > 0 {
		p.idle.Wait()
	}
}

// Close stops the pool. Jobs still queued are dropped without running; jobs
// already executing are allowed to finish. Close returns after every worker
// has exited and is safe to call more than once. Calling Close from inside a
// job deadlocks.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.running {
		p.running = false
		dropped := p.queue.clear()
		p.abandoned += uint64(dropped)
		p.metrics.abandoned(p.name, dropped)
		if dropped > 0 {
			p.logger.Warn("Dropping queued jobs on close", "pool", p.name, "jobs", dropped)
		}

		p.jobAvailable.Broadcast()
		p.spaceAvailable.Broadcast()
		if p.busy == 0 {
			p.idle.Broadcast()
		}
	}
	p.mu.Unlock()

	p.wg.Wait()
	p.logger.Info("Pool closed", "pool", p.name, "pool_id", p.id.String())
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for {
		p.mu.Lock()
		for p.running && p.queue.len() == 0 {
			p.jobAvailable.Wait()
		}
		if !p.running {
			p.mu.Unlock()
			p.logger.Debug("Worker stopped", "pool", p.name, "worker", id)
			return
		}

		job, _ := p.queue.pop()
		p.busy++
		p.metrics.started(p.name, p.queue.len(), p.busy)
		if p.queueCapacity > 0 {
			p.spaceAvailable.Signal()
		}
		p.mu.Unlock()

		p.run(job)
	}
}

// run executes one dequeued job. The busy count is released in a deferred
// call so it stays correct even if the job calls runtime.Goexit.
func (p *Pool) run(job Job) {
	start := time.Now()
	var panicked bool
	defer func() {
		p.mu.Lock()
		p.busy--
		p.completed++
		if panicked {
			p.panicked++
		}
		p.metrics.finished(p.name, p.busy, time.Since(start), panicked)
		if p.busy == 0 && p.queue.len() == 0 {
			p.idle.Broadcast()
		}
		p.mu.Unlock()
	}()
	panicked = p.execute(job)
}

// execute runs job and reports whether it panicked. A panicking job never
// takes its worker down.
func (p *Pool) execute(job Job) (panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			panicked = true
			p.handlePanic(&PanicError{Value: r, Stack: debug.Stack()})
		}
	}()
	job()
	return false
}

// handlePanic passes err to the panic handler. If the handler panics too, both
// panics are logged instead.
func (p *Pool) handlePanic(err *PanicError) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Panic handler panicked", "pool", p.name, "error", fmt.Sprint(r))
			p.logPanic(err)
		}
	}()
	p.panicHandler(err)
}

func (p *Pool) logPanic(err *PanicError) {
	p.logger.Error("Job panicked",
		"pool", p.name,
		"error", err.Error(),
		"stack", string(err.Stack),
	)
}

func (p *Pool) ID() uuid.UUID {
	return p.id
}

func (p *Pool) Name() string {
	return p.name
}

// Workers returns the fixed number of worker goroutines.
func (p *Pool) Workers() int {
	return p.numWorkers
}

// Closed reports whether Close has been called.
func (p *Pool) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.running
}

func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{
		Workers:   p.numWorkers,
		Queued:    p.queue.len(),
		Busy:      p.busy,
		Submitted: p.submitted,
		Completed: p.completed,
		Panicked:  p.panicked,
		Rejected:  p.rejected,
		Abandoned: p.abandoned,
	}
}
