package batch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessor_Process(t *testing.T) {
	items := make([]int, 25)
	for i := range items {
		items[i] = i
	}

	t.Run("Sequential", func(t *testing.T) {
		p, err := NewProcessor[int](10)
		require.NoError(t, err)

		var offsets []int
		var processed int
		err = p.Process(context.Background(), items, func(_ context.Context, batch []int, offset int) error {
			offsets = append(offsets, offset)
			processed += len(batch)
			assert.Equal(t, offset, batch[0])
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 25, processed)
		assert.Equal(t, []int{0, 10, 20}, offsets)
	})

	t.Run("Concurrent", func(t *testing.T) {
		p, err := NewProcessor[int](3)
		require.NoError(t, err)

		out := make([]int, len(items))
		var inFlight, peak int32
		err = p.ProcessConcurrent(context.Background(), items, func(_ context.Context, batch []int, offset int) error {
			n := atomic.AddInt32(&inFlight, 1)
			defer atomic.AddInt32(&inFlight, -1)
			for {
				old := atomic.LoadInt32(&peak)
				if n <= old || atomic.CompareAndSwapInt32(&peak, old, n) {
					break
				}
			}
			for i, v := range batch {
				out[offset+i] = v * 2
			}
			return nil
		}, 2)
		require.NoError(t, err)
		for i, v := range out {
			assert.Equal(t, i*2, v)
		}
		assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
	})

	t.Run("SequentialStopsOnError", func(t *testing.T) {
		p, _ := NewProcessor[int](10)
		calls := 0
		err := p.Process(context.Background(), items, func(_ context.Context, _ []int, offset int) error {
			calls++
			if offset == 10 {
				return errors.New("fail")
			}
			return nil
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "batch 1 failed")
		assert.Equal(t, 2, calls)
	})

	t.Run("ConcurrentRunsEveryBatch", func(t *testing.T) {
		p, _ := NewProcessor[int](5)
		boom := errors.New("boom")
		var calls int32
		err := p.ProcessConcurrent(context.Background(), items, func(_ context.Context, _ []int, offset int) error {
			atomic.AddInt32(&calls, 1)
			if offset == 5 || offset == 15 {
				return boom
			}
			return nil
		}, 3)
		require.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "batch 1 failed")
		assert.Contains(t, err.Error(), "batch 3 failed")
		assert.Equal(t, int32(5), atomic.LoadInt32(&calls))
	})

	t.Run("Cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		p, _ := NewProcessor[int](5)
		err := p.Process(ctx, items, func(context.Context, []int, int) error { return nil })
		assert.ErrorIs(t, err, context.Canceled)
		err = p.ProcessConcurrent(ctx, items, func(context.Context, []int, int) error { return nil }, 2)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("EmptyItems", func(t *testing.T) {
		p := NewProcessorWithDefaults[int]()
		assert.ErrorIs(t, p.Process(context.Background(), nil, nil), ErrEmptyItems)
	})

	t.Run("NilCallback", func(t *testing.T) {
		p := NewProcessorWithDefaults[int]()
		assert.ErrorIs(t, p.ProcessConcurrent(context.Background(), items, nil, 2), ErrNilCallback)
	})

	t.Run("InvalidBatchSize", func(t *testing.T) {
		_, err := NewProcessor[int](0)
		assert.ErrorIs(t, err, ErrInvalidBatchSize)
		_, err = NewProcessor[int](2000)
		assert.ErrorIs(t, err, ErrInvalidBatchSize)
	})
}

func TestProcessor_ProgressCallback(t *testing.T) {
	items := make([]string, 7)
	var mu sync.Mutex
	var last ProgressSnapshot

	p, err := NewProcessor[string](2)
	require.NoError(t, err)
	p.WithProgressCallback(func(s ProgressSnapshot) {
		mu.Lock()
		defer mu.Unlock()
		if s.ProcessedItems > last.ProcessedItems {
			last = s
		}
	})

	require.NoError(t, p.ProcessConcurrent(context.Background(), items,
		func(context.Context, []string, int) error { return nil }, 4))

	assert.Equal(t, 7, last.ProcessedItems)
	assert.Equal(t, 4, last.TotalBatches)
	assert.Equal(t, 4, last.ProcessedBatches)
	assert.InDelta(t, 100.0, last.PercentComplete, 1e-9)
	assert.True(t, last.IsComplete())
}

func TestProgress(t *testing.T) {
	p := NewProgress(100, 10)

	s := p.Snapshot()
	assert.Zero(t, s.PercentComplete)
	assert.False(t, s.IsComplete())

	p.AddProcessed(10)
	s = p.Snapshot()
	assert.InDelta(t, 10.0, s.PercentComplete, 1e-9)
	assert.Equal(t, 1, s.ProcessedBatches)

	p.AddProcessed(90)
	assert.True(t, p.Snapshot().IsComplete())

	assert.Zero(t, NewProgress(0, 0).Snapshot().PercentComplete)
}

func TestProcessor_Batches(t *testing.T) {
	p, _ := NewProcessor[int](10)
	batches := p.Batches(25)
	require.Len(t, batches, 3)
	assert.Equal(t, [2]int{0, 10}, batches[0])
	assert.Equal(t, [2]int{10, 20}, batches[1])
	assert.Equal(t, [2]int{20, 25}, batches[2])
	assert.Equal(t, 10, p.BatchSize())
	assert.Empty(t, p.Batches(0))
}
