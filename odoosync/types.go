package odoosync

import (
	"fmt"

	"github.com/prashantisarees/pos_reports_backend/models"
	"github.com/shopspring/decimal"
)

// RefID collapses the three wire shapes of an Odoo relational field into a
// nullable integer id: absent/false yields (0, false), a bare id yields the
// id, and an [id, label] pair yields its first element. Every join in the
// pipeline goes through this one function; call sites never branch on shape
// themselves. Applying RefID to an id it already produced is a no-op.
func RefID(value interface{}) (int64, bool) {
	switch ref := value.(type) {
	case nil:
		return 0, false
	case bool:
		// Odoo serializes an empty many2one as false.
		return 0, false
	case []interface{}:
		if len(ref) == 0 {
			return 0, false
		}
		return toInt64(ref[0])
	default:
		return toInt64(value)
	}
}

func toInt64(value interface{}) (int64, bool) {
	switch n := value.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}

// RecoverableError marks a failure the caller may retry by re-invoking the
// phase; the partial result returned alongside it is still usable. Hint is a
// human-actionable message for the presentation layer.
type RecoverableError struct {
	Op   string
	Hint string
	Err  error
}

func (e *RecoverableError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RecoverableError) Unwrap() error {
	return e.Err
}

func recoverable(op, hint string, err error) error {
	return &RecoverableError{Op: op, Hint: hint, Err: err}
}

func decodeOrder(rec map[string]interface{}) models.Order {
	o := models.Order{
		ID:        intField(rec, "id"),
		Amount:    decimalField(rec, "amount_total"),
		DateOrder: stringField(rec, "date_order"),
		Reference: stringField(rec, "pos_reference"),
	}
	if id, ok := RefID(rec["partner_id"]); ok {
		o.CustomerID = &id
	}
	if id, ok := RefID(rec["config_id"]); ok {
		o.TerminalID = &id
	}
	if lines, ok := rec["lines"].([]interface{}); ok {
		for _, line := range lines {
			if id, ok := toInt64(line); ok {
				o.Lines = append(o.Lines, id)
			}
		}
	}
	return o
}

func decodeCustomer(rec map[string]interface{}) models.Customer {
	return models.Customer{
		ID:     intField(rec, "id"),
		Name:   stringField(rec, "name"),
		Mobile: stringField(rec, "mobile"),
		Email:  stringField(rec, "email"),
	}
}

func decodeTerminal(rec map[string]interface{}) models.Terminal {
	return models.Terminal{
		ID:   intField(rec, "id"),
		Name: stringField(rec, "name"),
	}
}

func intField(rec map[string]interface{}, key string) int64 {
	n, _ := toInt64(rec[key])
	return n
}

// stringField tolerates false, the backend's stand-in for an empty value.
func stringField(rec map[string]interface{}, key string) string {
	s, _ := rec[key].(string)
	return s
}

// decimalField treats a missing or malformed amount as zero; negative
// amounts pass through untouched.
func decimalField(rec map[string]interface{}, key string) decimal.Decimal {
	switch n := rec[key].(type) {
	case float64:
		return decimal.NewFromFloat(n)
	case int64:
		return decimal.NewFromInt(n)
	case int:
		return decimal.NewFromInt(int64(n))
	case string:
		if d, err := decimal.NewFromString(n); err == nil {
			return d
		}
	}
	return decimal.Zero
}

func asRecordList(reply interface{}) []map[string]interface{} {
	items, ok := reply.([]interface{})
	if !ok {
		return nil
	}
	records := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		if rec, ok := item.(map[string]interface{}); ok {
			records = append(records, rec)
		}
	}
	return records
}

func asIDList(reply interface{}) []int64 {
	items, ok := reply.([]interface{})
	if !ok {
		return nil
	}
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		if id, ok := toInt64(item); ok {
			ids = append(ids, id)
		}
	}
	return ids
}
