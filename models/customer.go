package models

// Customer is a res.partner record referenced by at least one order.
// Mobile is stored in normalized form (see utils.FormatMobileNumber).
type Customer struct {
	ID     int64
	Name   string
	Mobile string
	Email  string
}
