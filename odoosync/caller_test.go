package odoosync

import (
	"context"
)

// recordedCall is one ExecuteKw invocation captured by the fake backend.
type recordedCall struct {
	Model  string
	Method string
	Args   []interface{}
	Kwargs map[string]interface{}
}

// fakeCaller scripts the RPC backend for tests. Each ExecuteKw call is
// recorded and dispatched to Handle.
type fakeCaller struct {
	Calls  []recordedCall
	Handle func(call recordedCall) (interface{}, error)
}

func (f *fakeCaller) ExecuteKw(ctx context.Context, model, method string, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	call := recordedCall{Model: model, Method: method, Args: args, Kwargs: kwargs}
	f.Calls = append(f.Calls, call)
	return f.Handle(call)
}

func ids(values ...int64) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func orderRecord(id int64, partnerID interface{}, configID interface{}, amount float64, dateOrder, reference string) map[string]interface{} {
	return map[string]interface{}{
		"id":            id,
		"partner_id":    partnerID,
		"config_id":     configID,
		"amount_total":  amount,
		"date_order":    dateOrder,
		"pos_reference": reference,
		"lines":         []interface{}{},
	}
}
