package odoosync

import (
	"context"
	"fmt"
	"time"

	"github.com/prashantisarees/pos_reports_backend/config"
	"github.com/prashantisarees/pos_reports_backend/models"
	"github.com/prashantisarees/pos_reports_backend/models/reports"
	"github.com/prashantisarees/pos_reports_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ReportRequest selects one report run. TerminalIDs optionally narrows the
// run to a subset of the branch's resolved terminals; empty means all.
type ReportRequest struct {
	Branch      string
	FromDate    time.Time
	ToDate      time.Time
	TerminalIDs []int64
}

// RunTotals are the overall figures of one run, shown alongside the
// workbook. TotalRevenue sums every fetched order, so it can exceed the
// customer-summary total whenever walk-in orders exist.
type RunTotals struct {
	OrderCount         int             `json:"orderCount"`
	TotalRevenue       decimal.Decimal `json:"totalRevenue"`
	CustomerOrderCount int             `json:"customerOrderCount"`
	UniqueCustomers    int             `json:"uniqueCustomers"`
	AverageOrderValue  decimal.Decimal `json:"averageOrderValue"`
}

// ReportResult carries everything one run produces: the raw orders and
// joined entities for the preview, both aggregate tables for on-screen
// charts, and the rendered workbook bytes. All of it is discarded after the
// response; nothing is cached across runs.
type ReportResult struct {
	Branch            string
	FromDate          time.Time
	ToDate            time.Time
	Terminals         []models.Terminal
	Orders            []models.Order
	Customers         map[int64]models.Customer
	TerminalsByID     map[int64]models.Terminal
	CustomerSummaries []models.CustomerSummary
	DailySummaries    []models.DailySummary
	Totals            RunTotals
	Workbook          []byte
	Filename          string
}

// ProgressFunc observes a fetch phase as a monotonically increasing
// fraction. phase is "scan" or "read".
type ProgressFunc func(phase string, fraction float64)

// Service wires one RPC session to the pipeline's batching parameters.
type Service struct {
	rpc            Caller
	orderBatchSize int
	readBatchSize  int
}

func NewService(rpc Caller, cfg *config.OdooConfig) *Service {
	return &Service{
		rpc:            rpc,
		orderBatchSize: cfg.OrderBatchSize,
		readBatchSize:  cfg.ReadBatchSize,
	}
}

// Terminals resolves the branch's terminal set for pickers.
func (s *Service) Terminals(ctx context.Context, branchName string) ([]models.Terminal, error) {
	return FetchTerminals(ctx, s.rpc, branchName)
}

// GenerateReport runs the full pipeline: resolve terminals, scan and read
// orders, join related entities, aggregate, render. Fetch failures are
// recoverable and the caller may retry the whole invocation; a render
// failure is fatal for this invocation only.
func (s *Service) GenerateReport(ctx context.Context, req ReportRequest, progress ProgressFunc) (*ReportResult, error) {
	if progress == nil {
		progress = func(string, float64) {}
	}
	logger := config.GetLogger()
	started := time.Now()

	terminals, err := FetchTerminals(ctx, s.rpc, req.Branch)
	if err != nil {
		return nil, err
	}
	selected := selectTerminals(terminals, req.TerminalIDs)
	if len(selected) == 0 {
		return nil, recoverable("resolving terminals", "no terminals matched — check the branch spelling", utils.ErrorNoTerminals)
	}

	terminalIDs := make([]int64, len(selected))
	for i, t := range selected {
		terminalIDs[i] = t.ID
	}

	orderIDs, err := FetchOrderIDs(ctx, s.rpc, terminalIDs, req.FromDate, req.ToDate, s.orderBatchSize,
		func(f float64) { progress("scan", f) })
	if err != nil {
		return nil, err
	}
	if len(orderIDs) == 0 {
		return nil, recoverable("scanning order ids", "no orders found — try expanding the date range", utils.ErrorNoOrders)
	}

	orders, err := FetchOrders(ctx, s.rpc, orderIDs, s.readBatchSize,
		func(f float64) { progress("read", f) })
	if err != nil {
		return nil, err
	}

	customers, terminalsByID, err := FetchRelated(ctx, s.rpc, orders, s.readBatchSize)
	if err != nil {
		return nil, err
	}

	customerSummaries := models.SummarizeByCustomer(orders, customers)
	dailySummaries := models.SummarizeByDay(orders)

	f, err := reports.BuildOrderWorkbook(orders, customers, terminalsByID, req.FromDate, req.ToDate, req.Branch)
	if err != nil {
		return nil, fmt.Errorf("building report workbook: %w", err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing report workbook: %w", err)
	}

	result := &ReportResult{
		Branch:            req.Branch,
		FromDate:          req.FromDate,
		ToDate:            req.ToDate,
		Terminals:         selected,
		Orders:            orders,
		Customers:         customers,
		TerminalsByID:     terminalsByID,
		CustomerSummaries: customerSummaries,
		DailySummaries:    dailySummaries,
		Totals:            computeTotals(orders, customerSummaries),
		Workbook:          buf.Bytes(),
		Filename:          reports.ReportFilename(req.Branch, req.FromDate, req.ToDate),
	}

	logger.WithFields(logrus.Fields{
		"branch":    req.Branch,
		"orders":    len(orders),
		"terminals": len(selected),
		"duration":  time.Since(started).String(),
	}).Info("report generated")
	return result, nil
}

func selectTerminals(terminals []models.Terminal, wanted []int64) []models.Terminal {
	if len(wanted) == 0 {
		return terminals
	}
	wantedSet := make(map[int64]bool, len(wanted))
	for _, id := range wanted {
		wantedSet[id] = true
	}
	var selected []models.Terminal
	for _, t := range terminals {
		if wantedSet[t.ID] {
			selected = append(selected, t)
		}
	}
	return selected
}

func computeTotals(orders []models.Order, summaries []models.CustomerSummary) RunTotals {
	totals := RunTotals{
		OrderCount:      len(orders),
		UniqueCustomers: len(summaries),
	}
	for _, o := range orders {
		totals.TotalRevenue = totals.TotalRevenue.Add(o.Amount)
		if o.CustomerID != nil {
			totals.CustomerOrderCount++
		}
	}
	if totals.OrderCount > 0 {
		totals.AverageOrderValue = totals.TotalRevenue.Div(decimal.NewFromInt(int64(totals.OrderCount)))
	}
	return totals
}

// PresetRange resolves a quick date preset into a concrete range anchored at
// now, mirroring the presets the report pickers offer.
func PresetRange(preset string, now time.Time) (time.Time, time.Time, error) {
	switch preset {
	case "today":
		return utils.StartOfDay(now), utils.EndOfDay(now), nil
	case "yesterday":
		y := now.AddDate(0, 0, -1)
		return utils.StartOfDay(y), utils.EndOfDay(y), nil
	case "last7days":
		from, to := utils.GetLastDaysRange(now, 7)
		return from, to, nil
	case "last30days":
		from, to := utils.GetLastDaysRange(now, 30)
		return from, to, nil
	case "thisMonth":
		from, to := utils.GetThisMonthRange(now)
		return from, to, nil
	case "lastMonth":
		from, to := utils.GetPreviousMonthRange(now)
		return from, to, nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("unknown date preset %q", preset)
	}
}
