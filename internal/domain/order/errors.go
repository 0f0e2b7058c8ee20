package order

import "errors"

var (
	ErrOrderNotFound = errors.New("order not found")
)
