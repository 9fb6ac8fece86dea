package pool

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordsPoolActivity(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics("gopool", reg)
	require.NoError(t, err)

	p := New(
		WithWorkers(2),
		WithName("render"),
		WithMetrics(m),
		WithPanicHandler(func(*PanicError) {}),
	)

	for range 4 {
		require.NoError(t, p.Submit(func() {}))
	}
	require.NoError(t, p.Submit(func() { panic("boom") }))
	p.WaitIdle()
	p.Close()

	assert.Equal(t, 5.0, testutil.ToFloat64(m.jobsSubmitted.WithLabelValues("render")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.jobsCompleted.WithLabelValues("render")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobsPanicked.WithLabelValues("render")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.busyWorkers.WithLabelValues("render")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.queueDepth.WithLabelValues("render")))

	count, err := testutil.GatherAndCount(reg, "gopool_job_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetrics_RejectedAndAbandoned(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics("gopool", reg)
	require.NoError(t, err)

	p := New(WithWorkers(1), WithName("io"), WithMetrics(m), WithQueueCapacity(1), WithFullPolicy(Reject))

	started := make(chan struct{})
	release := make(chan struct{})
	require.NoError(t, p.Submit(blockingJob(started, release)))
	waitOrFail(t, started, "blocking job to start")

	require.NoError(t, p.Submit(func() {}))
	require.ErrorIs(t, p.Submit(func() {}), ErrQueueFull)

	closed := make(chan struct{})
	go func() {
		p.Close()
		close(closed)
	}()
	assert.Eventually(t, p.Closed, waitTimeout, time.Millisecond)
	close(release)
	waitOrFail(t, closed, "Close to return")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobsRejected.WithLabelValues("io")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobsAbandoned.WithLabelValues("io")))
}

func TestNewMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics("gopool", reg)
	require.NoError(t, err)

	_, err = NewMetrics("gopool", reg)
	require.Error(t, err)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.submitted("x", 1)
	m.rejected("x")
	m.started("x", 0, 1)
	m.finished("x", 0, 0, true)
	m.abandoned("x", 3)
}
