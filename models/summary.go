package models

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// CustomerSummary is the per-customer fold of one report run. Summaries are
// derived data, recomputed every run and only created for customers that
// actually appear, so OrderCount is always at least 1.
type CustomerSummary struct {
	CustomerID  int64
	Name        string
	Mobile      string
	Email       string
	OrderCount  int
	TotalAmount decimal.Decimal
}

func (s CustomerSummary) AverageAmount() decimal.Decimal {
	if s.OrderCount == 0 {
		return decimal.Zero
	}
	return s.TotalAmount.Div(decimal.NewFromInt(int64(s.OrderCount)))
}

// GetCellValues returns the summary as a spreadsheet row.
func (s CustomerSummary) GetCellValues() []interface{} {
	return []interface{}{
		s.CustomerID,
		s.Name,
		s.Mobile,
		s.Email,
		s.OrderCount,
		s.TotalAmount.InexactFloat64(),
		s.AverageAmount().InexactFloat64(),
	}
}

// DailySummary is one calendar day of the sales analysis table. Date carries
// no time component.
type DailySummary struct {
	Date        time.Time
	OrderCount  int
	TotalAmount decimal.Decimal
}

func (s DailySummary) AverageOrderValue() decimal.Decimal {
	if s.OrderCount == 0 {
		return decimal.Zero
	}
	return s.TotalAmount.Div(decimal.NewFromInt(int64(s.OrderCount)))
}

// SummarizeByCustomer folds orders into per-customer summaries. Walk-in
// orders (nil CustomerID) are excluded entirely; they still count in the raw
// detail and in overall run totals. Output order is first-appearance
// insertion order, not sorted. Customers referenced but missing from the map
// yield summaries with empty contact fields.
func SummarizeByCustomer(orders []Order, customers map[int64]Customer) []CustomerSummary {
	index := make(map[int64]int)
	var out []CustomerSummary
	for _, o := range orders {
		if o.CustomerID == nil {
			continue
		}
		id := *o.CustomerID
		i, ok := index[id]
		if !ok {
			c := customers[id]
			out = append(out, CustomerSummary{
				CustomerID: id,
				Name:       c.Name,
				Mobile:     c.Mobile,
				Email:      c.Email,
			})
			i = len(out) - 1
			index[id] = i
		}
		out[i].OrderCount++
		out[i].TotalAmount = out[i].TotalAmount.Add(o.Amount)
	}
	return out
}

// SummarizeByDay folds orders into per-day summaries, sorted ascending by
// date. Orders whose date_order does not parse are silently skipped, so the
// daily totals may diverge slightly from the fetch totals; the detail sheet
// keeps those orders.
func SummarizeByDay(orders []Order) []DailySummary {
	index := make(map[time.Time]int)
	var out []DailySummary
	for _, o := range orders {
		t, err := o.OrderTime()
		if err != nil {
			continue
		}
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
		i, ok := index[day]
		if !ok {
			out = append(out, DailySummary{Date: day})
			i = len(out) - 1
			index[day] = i
		}
		out[i].OrderCount++
		out[i].TotalAmount = out[i].TotalAmount.Add(o.Amount)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
