package odoosync

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/prashantisarees/pos_reports_backend/config"
	"github.com/prashantisarees/pos_reports_backend/models"
)

var orderFields = []string{"partner_id", "amount_total", "date_order", "pos_reference", "config_id", "lines"}

// scanProgressCap keeps the id-scan estimate below 1.0 until the phase
// actually completes; the scan cannot know the final total in advance.
const scanProgressCap = 0.95

// FetchOrderIDs scans the ids of every finalized order placed on the given
// terminals within [fromDate, toDate]. Pages advance by the number of ids
// returned and the scan stops on an empty or short page, so arbitrarily
// large result sets are drained with no duplicates or gaps. Partial or
// cancelled orders are excluded at the source.
//
// The context is checked between pages; on an RPC failure the ids fetched in
// earlier pages are returned together with a recoverable error.
func FetchOrderIDs(ctx context.Context, rpc Caller, terminalIDs []int64, fromDate, toDate time.Time, pageSize int, progress func(float64)) ([]int64, error) {
	if progress == nil {
		progress = func(float64) {}
	}
	domain := []interface{}{
		[]interface{}{"config_id", "in", terminalIDs},
		[]interface{}{"date_order", ">=", fromDate.Format(models.OrderDateLayout)},
		[]interface{}{"date_order", "<=", toDate.Format(models.OrderDateLayout)},
		[]interface{}{"state", "=", "done"},
	}

	var ids []int64
	offset := 0
	for {
		if err := ctx.Err(); err != nil {
			return ids, err
		}
		reply, err := rpc.ExecuteKw(ctx, "pos.order", "search",
			[]interface{}{domain},
			map[string]interface{}{"offset": offset, "limit": pageSize})
		if err != nil {
			config.LogError(config.GetLogger(), "odoosync", "FetchOrderIDs", "scanning order ids", offset, err)
			return ids, recoverable("scanning order ids", "the POS backend may be busy; retry the report", err)
		}
		page := asIDList(reply)
		if len(page) == 0 {
			break
		}
		ids = append(ids, page...)
		offset += len(page)
		progress(math.Min(float64(offset)/float64(offset+pageSize), scanProgressCap))
		if len(page) < pageSize {
			break
		}
	}
	progress(1.0)
	return ids, nil
}

// FetchOrders bulk-reads full order records in groups of batchSize, issued
// sequentially to respect the backend's per-call payload limit. Each group's
// outcome is independent: a failing group returns the groups accumulated so
// far together with a recoverable error, never discarding earlier reads.
func FetchOrders(ctx context.Context, rpc Caller, orderIDs []int64, batchSize int, progress func(float64)) ([]models.Order, error) {
	if progress == nil {
		progress = func(float64) {}
	}
	var orders []models.Order
	if len(orderIDs) == 0 {
		progress(1.0)
		return orders, nil
	}
	for start := 0; start < len(orderIDs); start += batchSize {
		if err := ctx.Err(); err != nil {
			return orders, err
		}
		end := min(start+batchSize, len(orderIDs))
		reply, err := rpc.ExecuteKw(ctx, "pos.order", "read",
			[]interface{}{orderIDs[start:end]},
			map[string]interface{}{"fields": orderFields})
		if err != nil {
			config.LogError(config.GetLogger(), "odoosync", "FetchOrders",
				fmt.Sprintf("reading orders %d-%d", start, end), len(orders), err)
			return orders, recoverable("reading order details", "the POS backend may be busy; retry the report", err)
		}
		for _, rec := range asRecordList(reply) {
			orders = append(orders, decodeOrder(rec))
		}
		progress(float64(end) / float64(len(orderIDs)))
	}
	progress(1.0)
	return orders, nil
}
