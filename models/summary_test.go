package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func int64Ptr(v int64) *int64 { return &v }

func testOrders() []Order {
	return []Order{
		{ID: 1, CustomerID: int64Ptr(7), Amount: decimal.NewFromInt(100), DateOrder: "2024-03-01 10:15:00", Reference: "Order 0001"},
		{ID: 2, CustomerID: int64Ptr(7), Amount: decimal.NewFromInt(150), DateOrder: "2024-03-01 16:40:00", Reference: "Order 0002"},
		{ID: 3, CustomerID: nil, Amount: decimal.NewFromInt(50), DateOrder: "2024-03-02 11:05:00", Reference: "Order 0003"},
	}
}

func TestSummarizeByCustomer_ExcludesWalkIns(t *testing.T) {
	customers := map[int64]Customer{
		7: {ID: 7, Name: "Anita", Mobile: "+919876543210", Email: "anita@example.com"},
	}
	summaries := SummarizeByCustomer(testOrders(), customers)
	if len(summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(summaries))
	}
	s := summaries[0]
	if s.CustomerID != 7 || s.Name != "Anita" {
		t.Fatalf("unexpected summary identity: %+v", s)
	}
	if s.OrderCount != 2 {
		t.Fatalf("expected 2 orders, got %d", s.OrderCount)
	}
	if !s.TotalAmount.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("expected total 250, got %s", s.TotalAmount)
	}
	if !s.AverageAmount().Equal(decimal.NewFromInt(125)) {
		t.Fatalf("expected average 125, got %s", s.AverageAmount())
	}
}

func TestSummarizeByCustomer_FirstAppearanceOrder(t *testing.T) {
	orders := []Order{
		{ID: 1, CustomerID: int64Ptr(9), Amount: decimal.NewFromInt(10), DateOrder: "2024-03-01 10:00:00"},
		{ID: 2, CustomerID: int64Ptr(4), Amount: decimal.NewFromInt(20), DateOrder: "2024-03-01 11:00:00"},
		{ID: 3, CustomerID: int64Ptr(9), Amount: decimal.NewFromInt(30), DateOrder: "2024-03-01 12:00:00"},
	}
	summaries := SummarizeByCustomer(orders, map[int64]Customer{})
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].CustomerID != 9 || summaries[1].CustomerID != 4 {
		t.Fatalf("expected order [9 4], got [%d %d]", summaries[0].CustomerID, summaries[1].CustomerID)
	}
}

func TestSummarizeByCustomer_MissingCustomerRecord(t *testing.T) {
	orders := []Order{
		{ID: 1, CustomerID: int64Ptr(42), Amount: decimal.NewFromInt(10), DateOrder: "2024-03-01 10:00:00"},
	}
	summaries := SummarizeByCustomer(orders, map[int64]Customer{})
	if len(summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(summaries))
	}
	if summaries[0].Name != "" || summaries[0].Mobile != "" || summaries[0].Email != "" {
		t.Fatalf("expected empty contact fields, got %+v", summaries[0])
	}
}

func TestSummarizeByDay(t *testing.T) {
	days := SummarizeByDay(testOrders())
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	if days[0].Date != time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("expected first day 2024-03-01, got %v", days[0].Date)
	}
	if days[0].OrderCount != 2 || !days[0].TotalAmount.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("unexpected first day: %+v", days[0])
	}
	if days[1].OrderCount != 1 || !days[1].TotalAmount.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("unexpected second day: %+v", days[1])
	}
	if !days[0].AverageOrderValue().Equal(decimal.NewFromInt(125)) {
		t.Fatalf("expected first day average 125, got %s", days[0].AverageOrderValue())
	}
}

func TestSummarizeByDay_SortedAndSkipsUnparsable(t *testing.T) {
	orders := []Order{
		{ID: 1, Amount: decimal.NewFromInt(10), DateOrder: "2024-03-05 10:00:00"},
		{ID: 2, Amount: decimal.NewFromInt(20), DateOrder: "garbage"},
		{ID: 3, Amount: decimal.NewFromInt(30), DateOrder: "2024-03-01 09:00:00"},
	}
	days := SummarizeByDay(orders)
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	if !days[0].Date.Before(days[1].Date) {
		t.Fatalf("expected ascending dates, got %v then %v", days[0].Date, days[1].Date)
	}
	if !days[0].TotalAmount.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("expected 2024-03-01 total 30, got %s", days[0].TotalAmount)
	}
}

func TestSummarize_EmptyInput(t *testing.T) {
	if got := SummarizeByCustomer(nil, nil); len(got) != 0 {
		t.Fatalf("expected no customer summaries, got %v", got)
	}
	if got := SummarizeByDay(nil); len(got) != 0 {
		t.Fatalf("expected no daily summaries, got %v", got)
	}
}

func TestOrderTime(t *testing.T) {
	o := Order{DateOrder: "2024-03-01 10:15:00"}
	tm, err := o.OrderTime()
	if err != nil {
		t.Fatalf("OrderTime error: %v", err)
	}
	if tm != time.Date(2024, 3, 1, 10, 15, 0, 0, time.UTC) {
		t.Fatalf("unexpected time %v", tm)
	}
	if _, err := (Order{DateOrder: "01/03/2024"}).OrderTime(); err == nil {
		t.Fatal("expected parse error")
	}
}
