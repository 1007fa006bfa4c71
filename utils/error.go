package utils

import "errors"

var ErrorNoOrders = errors.New("no orders found in the selected date range")

var ErrorNoTerminals = errors.New("no terminals matched the selected branch")
