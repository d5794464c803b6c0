package bsale

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCollection serves ids 0..total-1 the way Bsale pages them.
func fakeCollection(total int, fail map[int]error, calls *atomic.Int32) PageFetcher[int] {
	return func(ctx context.Context, limit, offset int) (*Page[int], error) {
		calls.Add(1)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err, ok := fail[offset]; ok {
			return nil, err
		}

		page := &Page[int]{Count: total, Limit: limit, Offset: offset}
		for i := offset; i < total && i < offset+limit; i++ {
			page.Items = append(page.Items, i)
		}
		return page, nil
	}
}

func TestListAll(t *testing.T) {
	t.Parallel()

	tests := []struct {
		total     int
		wantCalls int32
	}{
		{total: 0, wantCalls: 1},
		{total: 1, wantCalls: 1},
		{total: 50, wantCalls: 1},
		{total: 51, wantCalls: 2},
		{total: 437, wantCalls: 9},
	}

	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.total), func(t *testing.T) {
			t.Parallel()

			var calls atomic.Int32
			items, err := ListAll(context.Background(), fakeCollection(tt.total, nil, &calls))
			require.NoError(t, err)

			require.Len(t, items, tt.total)
			for i, v := range items {
				require.Equal(t, i, v, "items are in offset order")
			}
			assert.Equal(t, tt.wantCalls, calls.Load())
		})
	}
}

func TestListAllError(t *testing.T) {
	t.Parallel()

	boom := NewNetworkError("Network request failed", errors.New("reset"))

	t.Run("first page", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		_, err := ListAll(context.Background(), fakeCollection(200, map[int]error{0: boom}, &calls))
		require.ErrorIs(t, err, boom)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("later page", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		items, err := ListAll(context.Background(), fakeCollection(500, map[int]error{150: boom}, &calls))
		assert.Nil(t, items)
		requireKind(t, err, KindNetwork)
	})
}

func TestListAllHonorsSmallerServerLimit(t *testing.T) {
	t.Parallel()

	var (
		mu      sync.Mutex
		offsets []int
	)
	fetch := func(_ context.Context, limit, offset int) (*Page[int], error) {
		mu.Lock()
		offsets = append(offsets, offset)
		mu.Unlock()
		// The server clamps the page size to 20.
		if limit > 20 {
			limit = 20
		}
		page := &Page[int]{Count: 45, Limit: limit, Offset: offset}
		for i := offset; i < 45 && i < offset+limit; i++ {
			page.Items = append(page.Items, i)
		}
		return page, nil
	}

	items, err := ListAll(context.Background(), PageFetcher[int](fetch))
	require.NoError(t, err)
	assert.Len(t, items, 45)
	assert.ElementsMatch(t, []int{0, 20, 40}, offsets)
}

func TestListAllRejectsImplausibleCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		count int
	}{
		{name: "huge", count: 1 << 62},
		{name: "just above cap", count: maxListAllCount + 1},
		{name: "negative", count: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var calls atomic.Int32
			fetch := func(_ context.Context, limit, offset int) (*Page[int], error) {
				calls.Add(1)
				return &Page[int]{Count: tt.count, Limit: MaxPageSize, Offset: offset, Items: make([]int, MaxPageSize)}, nil
			}

			var (
				items []int
				err   error
			)
			assert.NotPanics(t, func() {
				items, err = ListAll(context.Background(), PageFetcher[int](fetch))
			})
			assert.Nil(t, items)
			bErr := requireKind(t, err, KindBase)
			assert.Equal(t, "Invalid page count", bErr.Message)
			assert.Equal(t, int32(1), calls.Load(), "no page beyond the first is requested")
		})
	}
}
