package queue_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/vastra/pkg/queue"
)

// Jobs round-trip through JSON, so test jobs record progress in
// package-level counters rather than struct fields.
var (
	receiptsSent atomic.Int32
	bounces      atomic.Int32
)

type sendReceiptJob struct {
	OrderID uint `json:"orderId"`
}

func (j *sendReceiptJob) Handle() error {
	receiptsSent.Add(1)
	return nil
}

type bouncingJob struct{}

func (j *bouncingJob) Handle() error {
	bounces.Add(1)
	return errors.New("smtp: connection refused")
}

var startOnce sync.Once

func startWorkers(t *testing.T) {
	t.Helper()
	startOnce.Do(func() {
		queue.Register("*queue_test.sendReceiptJob", func() queue.Job { return &sendReceiptJob{} })
		queue.Register("*queue_test.bouncingJob", func() queue.Job { return &bouncingJob{} })
		queue.StartWorkers(context.Background(), 2)
	})
}

func TestDispatchRunsRegisteredJob(t *testing.T) {
	startWorkers(t)

	before := receiptsSent.Load()
	require.NoError(t, queue.Dispatch(&sendReceiptJob{OrderID: 42}))

	require.Eventually(t, func() bool {
		return receiptsSent.Load() > before
	}, 3*time.Second, 20*time.Millisecond, "job never ran")
}

func TestFailingJobLandsInFailedList(t *testing.T) {
	startWorkers(t)

	queue.SetMaxRetry(1)
	defer queue.SetMaxRetry(3)

	require.NoError(t, queue.Dispatch(&bouncingJob{}))

	require.Eventually(t, func() bool {
		return len(queue.FailedJobs()) > 0
	}, 5*time.Second, 50*time.Millisecond, "failure was never recorded")
	assert.Positive(t, bounces.Load())
}

func TestDispatchIsSafeFromManyGoroutines(t *testing.T) {
	startWorkers(t)

	var wg sync.WaitGroup
	const n = 20
	before := receiptsSent.Load()

	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, queue.Dispatch(&sendReceiptJob{OrderID: uint(i)}))
		}(i)
	}
	wg.Wait()

	require.Eventually(t, func() bool {
		return receiptsSent.Load() >= before+n
	}, 5*time.Second, 20*time.Millisecond)
}
