package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderDateLayout is the backend's naive UTC timestamp format. Order dates
// keep this string form end to end; parsing happens only where a real
// time.Time is needed.
const OrderDateLayout = "2006-01-02 15:04:05"

// Order is one completed point-of-sale order. CustomerID is nil for walk-in
// orders and TerminalID is nil when the record carries no register, both
// mapped from the backend's false stand-in.
type Order struct {
	ID         int64
	CustomerID *int64
	TerminalID *int64
	Amount     decimal.Decimal
	DateOrder  string
	Reference  string
	Lines      []int64
}

// OrderTime parses the raw order timestamp.
func (o Order) OrderTime() (time.Time, error) {
	return time.Parse(OrderDateLayout, o.DateOrder)
}
