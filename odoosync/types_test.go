package odoosync

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefID(t *testing.T) {
	cases := []struct {
		name     string
		in       interface{}
		expected int64
		ok       bool
	}{
		{"nil", nil, 0, false},
		{"false stand-in", false, 0, false},
		{"true is still absent", true, 0, false},
		{"bare int64", int64(5), 5, true},
		{"bare int", 5, 5, true},
		{"bare float64", float64(7), 7, true},
		{"id-label pair", []interface{}{int64(9), "CBE Main"}, 9, true},
		{"pair with float id", []interface{}{float64(9), "CBE Main"}, 9, true},
		{"empty list", []interface{}{}, 0, false},
		{"string", "9", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := RefID(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestRefID_Idempotent(t *testing.T) {
	id, ok := RefID([]interface{}{int64(42), "label"})
	require.True(t, ok)
	again, ok := RefID(id)
	require.True(t, ok)
	assert.Equal(t, id, again)
}

func TestDecodeOrder(t *testing.T) {
	rec := orderRecord(11, []interface{}{int64(7), "Anita"}, []interface{}{int64(3), "CBE Main"}, 149.50, "2024-03-01 10:15:00", "Order 0001")
	rec["lines"] = []interface{}{int64(101), int64(102)}

	o := decodeOrder(rec)
	assert.Equal(t, int64(11), o.ID)
	require.NotNil(t, o.CustomerID)
	assert.Equal(t, int64(7), *o.CustomerID)
	require.NotNil(t, o.TerminalID)
	assert.Equal(t, int64(3), *o.TerminalID)
	assert.Equal(t, "149.5", o.Amount.String())
	assert.Equal(t, "2024-03-01 10:15:00", o.DateOrder)
	assert.Equal(t, "Order 0001", o.Reference)
	assert.Equal(t, []int64{101, 102}, o.Lines)
}

func TestDecodeOrder_WalkIn(t *testing.T) {
	o := decodeOrder(orderRecord(12, false, false, 50, "2024-03-02 11:05:00", "Order 0003"))
	assert.Nil(t, o.CustomerID)
	assert.Nil(t, o.TerminalID)
}

func TestDecodeCustomer_FalseFields(t *testing.T) {
	c := decodeCustomer(map[string]interface{}{
		"id":     int64(7),
		"name":   "Anita",
		"mobile": false,
		"email":  false,
	})
	assert.Equal(t, int64(7), c.ID)
	assert.Equal(t, "Anita", c.Name)
	assert.Empty(t, c.Mobile)
	assert.Empty(t, c.Email)
}

func TestDecimalField(t *testing.T) {
	rec := map[string]interface{}{
		"float":    149.5,
		"int":      int64(10),
		"string":   "12.34",
		"negative": -25.0,
		"garbage":  "not a number",
	}
	assert.Equal(t, "149.5", decimalField(rec, "float").String())
	assert.Equal(t, "10", decimalField(rec, "int").String())
	assert.Equal(t, "12.34", decimalField(rec, "string").String())
	assert.Equal(t, "-25", decimalField(rec, "negative").String())
	assert.True(t, decimalField(rec, "garbage").IsZero())
	assert.True(t, decimalField(rec, "missing").IsZero())
}

func TestRecoverableError(t *testing.T) {
	cause := errors.New("connection reset")
	err := recoverable("scanning order ids", "retry the report", cause)

	var rec *RecoverableError
	require.ErrorAs(t, err, &rec)
	assert.Equal(t, "retry the report", rec.Hint)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "scanning order ids")
}

func TestAsIDList(t *testing.T) {
	got := asIDList([]interface{}{int64(1), float64(2), "skip", int64(3)})
	assert.Equal(t, []int64{1, 2, 3}, got)
	assert.Empty(t, asIDList("not a list"))
}
