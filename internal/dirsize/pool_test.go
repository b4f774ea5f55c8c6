package dirsize

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIntPool() *pool[int] {
	return newPool(context.Background(), func(string, error) int { return -1 })
}

func constTask(v int) task[int] {
	return task[int]{path: "t", run: func(context.Context) int { return v }}
}

func TestPool_DrainsAllOutcomes(t *testing.T) {
	p := newIntPool()
	p.submit(constTask(1), constTask(2), constTask(3))

	sum := 0

	for {
		v, ok, err := p.next(context.Background())
		require.NoError(t, err)

		if !ok {
			break
		}

		sum += v
	}

	assert.Equal(t, 6, sum)
	assert.Zero(t, p.len())
}

func TestPool_EmptyReportsDone(t *testing.T) {
	p := newIntPool()

	_, ok, err := p.next(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok = p.tryNext()
	assert.False(t, ok)
}

func TestPool_TryNextDoesNotBlock(t *testing.T) {
	p := newIntPool()
	release := make(chan struct{})

	p.submit(task[int]{path: "slow", run: func(context.Context) int {
		<-release

		return 7
	}})

	_, ok := p.tryNext()
	assert.False(t, ok)
	assert.Equal(t, 1, p.len())

	close(release)

	v, ok, err := p.next(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 7, v)
}

func TestPool_NextHonorsContext(t *testing.T) {
	p := newIntPool()
	release := make(chan struct{})

	p.submit(task[int]{path: "stuck", run: func(context.Context) int {
		<-release

		return 0
	}})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, _, err := p.next(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	p.close()
	p.wait()
}

func TestPool_RecoversPanics(t *testing.T) {
	p := newPool(context.Background(), func(path string, err error) error {
		return err
	})

	p.submit(task[error]{path: "/boom", run: func(context.Context) error {
		panic("kaboom")
	}})

	err, ok, nextErr := p.next(context.Background())
	require.NoError(t, nextErr)
	require.True(t, ok)
	require.ErrorIs(t, err, ErrTaskPanicked)

	var taskErr *TaskError
	require.ErrorAs(t, err, &taskErr)
	assert.Equal(t, "/boom", taskErr.Path)
	assert.Equal(t, "kaboom", taskErr.Value)
}

func TestPool_ClosedDropsSubmissions(t *testing.T) {
	p := newIntPool()
	p.close()
	p.submit(constTask(1))

	assert.Zero(t, p.len())
	p.wait()
}

func TestPool_ConcurrentSubmitters(t *testing.T) {
	p := newIntPool()

	const (
		producers = 16
		perBatch  = 50
	)

	var wg sync.WaitGroup

	// Keep the pool non-empty until every producer is done.
	gate := make(chan struct{})
	p.submit(task[int]{path: "gate", run: func(context.Context) int {
		<-gate

		return 0
	}})

	for range producers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			batch := make([]task[int], perBatch)
			for i := range batch {
				batch[i] = constTask(1)
			}

			p.submit(batch...)
		}()
	}

	wg.Wait()
	close(gate)

	count := 0

	for {
		v, ok, err := p.next(context.Background())
		require.NoError(t, err)

		if !ok {
			break
		}

		count += v
	}

	assert.Equal(t, producers*perBatch, count)
}
