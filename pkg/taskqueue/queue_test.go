package taskqueue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitAndConsume(t *testing.T) {
	q := NewGoChannelQueue()
	defer q.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	seen := make(map[string]string)
	done := make(chan struct{}, 3)

	err := q.Subscribe(ctx, "work", 2, func(ctx context.Context, task Task) error {
		mu.Lock()
		seen[task.ID] = string(task.Payload)
		mu.Unlock()
		done <- struct{}{}
		return nil
	})
	require.NoError(t, err)

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, q.Submit(ctx, "work", Task{ID: id, Payload: []byte("payload-" + id)}))
	}

	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for tasks")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "payload-a", seen["a"])
	assert.Equal(t, "payload-b", seen["b"])
	assert.Equal(t, "payload-c", seen["c"])
}

func TestCancelRunningTask(t *testing.T) {
	q := NewGoChannelQueue()
	defer q.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	started := make(chan struct{})
	stopped := make(chan struct{})

	err := q.Subscribe(ctx, "work", 1, func(ctx context.Context, task Task) error {
		close(started)
		<-ctx.Done()
		close(stopped)
		return ctx.Err()
	})
	require.NoError(t, err)

	require.NoError(t, q.Submit(ctx, "work", Task{ID: "long-task"}))

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("task never started")
	}

	assert.True(t, q.Cancel("long-task"))

	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("task did not observe cancellation")
	}
}

func TestCancelUnknownTask(t *testing.T) {
	q := NewGoChannelQueue()
	defer q.Close()

	assert.False(t, q.Cancel("nope"))
}
