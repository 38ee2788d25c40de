package state

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func runQueue(t *testing.T) *Queue {
	t.Helper()
	q := NewQueue()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- q.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		assert.ErrorIs(t, <-done, context.Canceled)
	})
	return q
}

func TestQueueRunsJobsInOrder(t *testing.T) {
	q := runQueue(t)

	var got []int
	for i := range 100 {
		q.Post(func() { got = append(got, i) })
	}
	require.NoError(t, q.Do(context.Background(), func() {}))

	want := make([]int, 100)
	for i := range want {
		want[i] = i
	}
	assert.Equal(t, want, got)
}

func TestQueueSerialisesConcurrentCallers(t *testing.T) {
	q := runQueue(t)

	counter := 0
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				assert.NoError(t, q.Do(context.Background(), func() { counter++ }))
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1000, counter)
}

func TestQueueDoHonoursContext(t *testing.T) {
	q := NewQueue()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	ran := false
	err := q.Do(ctx, func() { ran = true })
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	runCtx, stop := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- q.Run(runCtx) }()
	require.NoError(t, q.Do(context.Background(), func() {}))
	assert.True(t, ran, "abandoned jobs still run")
	stop()
	<-done
}
