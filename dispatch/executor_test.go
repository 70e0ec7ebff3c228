package dispatch

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startExecutor(t *testing.T, cfg ExecutorConfig) (*Executor, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	e := NewExecutor(cfg, nil)
	e.Start(ctx)
	select {
	case <-e.Ready():
	case <-time.After(time.Second):
		t.Fatal("executor never became ready")
	}
	t.Cleanup(func() {
		cancel()
		_ = e.Close()
	})
	return e, cancel
}

func TestExecutor_RunsOnOwner(t *testing.T) {
	e, _ := startExecutor(t, ExecutorConfig{})

	assert.False(t, e.IsOwner())

	result := make(chan bool, 1)
	require.True(t, e.Post(func() { result <- e.IsOwner() }))

	select {
	case owner := <-result:
		assert.True(t, owner)
	case <-time.After(time.Second):
		t.Fatal("task did not run")
	}
}

func TestExecutor_FIFO(t *testing.T) {
	e, _ := startExecutor(t, ExecutorConfig{})

	var mu sync.Mutex
	var got []int
	for i := 0; i < 100; i++ {
		i := i
		require.True(t, e.Post(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		}))
	}
	require.NoError(t, e.Close())

	require.Len(t, got, 100)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestExecutor_RejectsWhenFull(t *testing.T) {
	e := NewExecutor(ExecutorConfig{BufferSize: 2}, nil)

	assert.True(t, e.Post(func() {}))
	assert.True(t, e.Post(func() {}))
	assert.False(t, e.Post(func() {}))

	s := e.Stats()
	assert.Equal(t, uint64(2), s.Posted)
	assert.Equal(t, uint64(1), s.Rejected)
}

func TestExecutor_CloseDrainsAndRejects(t *testing.T) {
	e := NewExecutor(ExecutorConfig{}, nil)
	var ran atomic.Int32
	for i := 0; i < 10; i++ {
		e.Post(func() { ran.Add(1) })
	}
	e.Start(context.Background())

	require.NoError(t, e.Close())
	require.NoError(t, e.Close())
	assert.Equal(t, int32(10), ran.Load())
	assert.False(t, e.Post(func() {}))
	assert.False(t, e.Affinity().Bound())
}

func TestExecutor_CancelStopsRun(t *testing.T) {
	e, cancel := startExecutor(t, ExecutorConfig{})
	cancel()

	select {
	case <-e.Done():
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestExecutor_PanicRecovered(t *testing.T) {
	e, _ := startExecutor(t, ExecutorConfig{})

	e.Post(func() { panic("boom") })
	done := make(chan struct{})
	e.Post(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("executor stopped after panic")
	}
	assert.Equal(t, uint64(1), e.Stats().Panics)
}

func TestExecutor_CloseFromTask(t *testing.T) {
	e, _ := startExecutor(t, ExecutorConfig{})

	closed := make(chan error, 1)
	e.Post(func() { closed <- e.Close() })

	select {
	case err := <-closed:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Close deadlocked inside a task")
	}
}

func TestExecutor_RunOnce(t *testing.T) {
	e, _ := startExecutor(t, ExecutorConfig{})
	assert.Error(t, e.Run(context.Background()))
}

func TestExecutor_UnstartedIsOwnerEverywhere(t *testing.T) {
	e := NewExecutor(ExecutorConfig{}, nil)
	assert.True(t, e.IsOwner())
	assert.NoError(t, e.Close())
}

func TestExecutor_ReadyImpliesBound(t *testing.T) {
	e, _ := startExecutor(t, ExecutorConfig{})
	assert.True(t, e.Affinity().Bound())
	assert.False(t, e.IsOwner(), "test goroutine is not the owner")
}
