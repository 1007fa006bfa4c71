package odoosync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testFromDate = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	testToDate   = time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)
)

// pagedIDs serves search calls out of a fixed id set, honoring offset and
// limit the way the real backend does.
func pagedIDs(all []int64) func(call recordedCall) (interface{}, error) {
	return func(call recordedCall) (interface{}, error) {
		offset := call.Kwargs["offset"].(int)
		limit := call.Kwargs["limit"].(int)
		if offset >= len(all) {
			return []interface{}{}, nil
		}
		end := min(offset+limit, len(all))
		return ids(all[offset:end]...), nil
	}
}

func TestFetchOrderIDs_DrainsAllPages(t *testing.T) {
	all := make([]int64, 250)
	for i := range all {
		all[i] = int64(i + 1)
	}
	fake := &fakeCaller{Handle: pagedIDs(all)}

	got, err := FetchOrderIDs(context.Background(), fake, []int64{3}, testFromDate, testToDate, 100, nil)
	require.NoError(t, err)
	assert.Equal(t, all, got)
	// 100 + 100 + 50; the short third page ends the scan.
	assert.Len(t, fake.Calls, 3)
}

func TestFetchOrderIDs_TotalEqualsPageSize(t *testing.T) {
	all := []int64{1, 2, 3}
	fake := &fakeCaller{Handle: pagedIDs(all)}

	got, err := FetchOrderIDs(context.Background(), fake, []int64{3}, testFromDate, testToDate, 3, nil)
	require.NoError(t, err)
	assert.Equal(t, all, got)
	// A full page forces one extra call that comes back empty.
	assert.Len(t, fake.Calls, 2)
}

func TestFetchOrderIDs_Empty(t *testing.T) {
	fake := &fakeCaller{Handle: pagedIDs(nil)}

	got, err := FetchOrderIDs(context.Background(), fake, []int64{3}, testFromDate, testToDate, 100, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Len(t, fake.Calls, 1)
}

func TestFetchOrderIDs_Domain(t *testing.T) {
	fake := &fakeCaller{Handle: pagedIDs(nil)}

	_, err := FetchOrderIDs(context.Background(), fake, []int64{3, 4}, testFromDate, testToDate, 100, nil)
	require.NoError(t, err)

	call := fake.Calls[0]
	assert.Equal(t, "pos.order", call.Model)
	assert.Equal(t, "search", call.Method)

	domain, ok := call.Args[0].([]interface{})
	require.True(t, ok)
	require.Len(t, domain, 4)
	assert.Equal(t, []interface{}{"config_id", "in", []int64{3, 4}}, domain[0])
	assert.Equal(t, []interface{}{"date_order", ">=", "2024-03-01 00:00:00"}, domain[1])
	assert.Equal(t, []interface{}{"date_order", "<=", "2024-03-31 23:59:59"}, domain[2])
	assert.Equal(t, []interface{}{"state", "=", "done"}, domain[3])
}

func TestFetchOrderIDs_ProgressMonotonicAndCapped(t *testing.T) {
	all := make([]int64, 350)
	for i := range all {
		all[i] = int64(i + 1)
	}
	fake := &fakeCaller{Handle: pagedIDs(all)}

	var fractions []float64
	_, err := FetchOrderIDs(context.Background(), fake, []int64{3}, testFromDate, testToDate, 100, func(f float64) {
		fractions = append(fractions, f)
	})
	require.NoError(t, err)
	require.NotEmpty(t, fractions)

	for i := 1; i < len(fractions); i++ {
		assert.GreaterOrEqual(t, fractions[i], fractions[i-1])
	}
	for _, f := range fractions[:len(fractions)-1] {
		assert.Less(t, f, 1.0)
	}
	assert.Equal(t, 1.0, fractions[len(fractions)-1])
}

func TestFetchOrderIDs_FailureKeepsEarlierPages(t *testing.T) {
	all := make([]int64, 200)
	for i := range all {
		all[i] = int64(i + 1)
	}
	paged := pagedIDs(all)
	fake := &fakeCaller{
		Handle: func(call recordedCall) (interface{}, error) {
			if call.Kwargs["offset"].(int) >= 100 {
				return nil, errors.New("backend busy")
			}
			return paged(call)
		},
	}

	got, err := FetchOrderIDs(context.Background(), fake, []int64{3}, testFromDate, testToDate, 100, nil)
	assert.Len(t, got, 100)

	var rec *RecoverableError
	require.ErrorAs(t, err, &rec)
}

func TestFetchOrderIDs_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fake := &fakeCaller{Handle: pagedIDs([]int64{1})}

	_, err := FetchOrderIDs(ctx, fake, []int64{3}, testFromDate, testToDate, 100, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, fake.Calls)
}

func TestFetchOrders_BatchesSequentially(t *testing.T) {
	fake := &fakeCaller{
		Handle: func(call recordedCall) (interface{}, error) {
			batch := call.Args[0].([]int64)
			records := make([]interface{}, 0, len(batch))
			for _, id := range batch {
				records = append(records, orderRecord(id, []interface{}{int64(7), "Anita"}, []interface{}{int64(3), "CBE Main"}, 100, "2024-03-01 10:15:00", "Order"))
			}
			return records, nil
		},
	}

	orderIDs := []int64{1, 2, 3, 4, 5}
	orders, err := FetchOrders(context.Background(), fake, orderIDs, 2, nil)
	require.NoError(t, err)
	require.Len(t, orders, 5)
	assert.Len(t, fake.Calls, 3)

	for i, o := range orders {
		assert.Equal(t, orderIDs[i], o.ID)
	}
	for _, call := range fake.Calls {
		assert.Equal(t, "pos.order", call.Model)
		assert.Equal(t, "read", call.Method)
		assert.Equal(t, orderFields, call.Kwargs["fields"])
	}
}

func TestFetchOrders_GroupFailureKeepsEarlierGroups(t *testing.T) {
	callCount := 0
	fake := &fakeCaller{
		Handle: func(call recordedCall) (interface{}, error) {
			callCount++
			if callCount == 2 {
				return nil, errors.New("backend busy")
			}
			batch := call.Args[0].([]int64)
			records := make([]interface{}, 0, len(batch))
			for _, id := range batch {
				records = append(records, orderRecord(id, false, false, 10, "2024-03-01 10:15:00", "Order"))
			}
			return records, nil
		},
	}

	orders, err := FetchOrders(context.Background(), fake, []int64{1, 2, 3, 4}, 2, nil)
	assert.Len(t, orders, 2)

	var rec *RecoverableError
	require.ErrorAs(t, err, &rec)
}

func TestFetchOrders_EmptyInput(t *testing.T) {
	fake := &fakeCaller{Handle: pagedIDs(nil)}

	var fractions []float64
	orders, err := FetchOrders(context.Background(), fake, nil, 100, func(f float64) {
		fractions = append(fractions, f)
	})
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Empty(t, fake.Calls)
	assert.Equal(t, []float64{1.0}, fractions)
}
