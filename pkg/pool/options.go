package pool

import (
	"fmt"
	"strings"

	"github.com/nemanja-m/gopool/internal/shared/logging"
)

// FullPolicy decides what Submit does when a bounded queue is full.
type FullPolicy int

const (
	// Block makes Submit wait until a worker frees a slot.
	Block FullPolicy = iota
	// Reject makes Submit return ErrQueueFull immediately.
	Reject
)

func (p FullPolicy) String() string {
	switch p {
	case Block:
		return "block"
	case Reject:
		return "reject"
	default:
		return "unknown"
	}
}

// ParseFullPolicy accepts "block" or "reject".
func ParseFullPolicy(s string) (FullPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "block":
		return Block, nil
	case "reject":
		return Reject, nil
	default:
		return Block, fmt.Errorf("unknown full policy: %s", s)
	}
}

type config struct {
	name          string
	numWorkers    int
	queueCapacity int
	fullPolicy    FullPolicy
	panicHandler  func(*PanicError)
	logger        logging.Logger
	metrics       *Metrics
}

// Option configures a Pool.
type Option func(*config)

// WithWorkers sets the number of worker goroutines. Values <= 0 select
// runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(c *config) {
		c.numWorkers = n
	}
}

// WithQueueCapacity bounds the job queue. Values <= 0 leave it unbounded.
func WithQueueCapacity(n int) Option {
	return func(c *config) {
		c.queueCapacity = n
	}
}

func WithFullPolicy(p FullPolicy) Option {
	return func(c *config) {
		c.fullPolicy = p
	}
}

// WithPanicHandler receives every panic recovered from a job. The handler runs
// on the worker goroutine that recovered the panic.
func WithPanicHandler(h func(*PanicError)) Option {
	return func(c *config) {
		c.panicHandler = h
	}
}

func WithLogger(l logging.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(c *config) {
		c.metrics = m
	}
}

func WithName(name string) Option {
	return func(c *config) {
		if name != "" {
			c.name = name
		}
	}
}
