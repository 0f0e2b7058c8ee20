package order

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=order

import (
	"context"
)

// Gateway defines the order endpoints of the backend. All calls carry the
// current bearer token.
type Gateway interface {
	ListOrders(ctx context.Context) ([]*Order, error)
	CreateOrder(ctx context.Context, req *Request) (*Order, error)
	UpdateOrder(ctx context.Context, orderID string, req *Request) (*Order, error)
	DeleteOrder(ctx context.Context, orderID string) (map[string]any, error)
}
