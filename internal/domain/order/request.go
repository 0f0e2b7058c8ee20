package order

import "userhub-client/internal/domain/user"

// Request is the body of POST /v1/orders and PATCH /v1/orders/{id}.
// OrderNumber is omitted on an update when the client has no cached copy of
// the order.
type Request struct {
	OrderNumber   string        `json:"order_number,omitempty"`
	OrderPrice    float64       `json:"order_price"`
	OrderQuantity int           `json:"order_quantity"`
	TotalAmount   float64       `json:"total_amount"`
	OrderItems    []Item        `json:"order_items"`
	Address       *user.Address `json:"address,omitempty"`
}

// ListResponse is the body of GET /v1/orders.
type ListResponse struct {
	Orders []*Order `json:"orders"`
}
