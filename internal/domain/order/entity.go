package order

import (
	"encoding/json"

	"userhub-client/internal/domain/user"
	"userhub-client/pkg/utils"
)

// Status represents the status of an order
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// Item is one line of an order.
type Item struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Order is an order as listed by the backend. It only lives in the client's
// in-memory list, which is replaced on every list fetch.
type Order struct {
	ID            string          `json:"id"`
	OrderNumber   string          `json:"order_number"`
	OrderStatus   Status          `json:"order_status"`
	OrderPrice    float64         `json:"order_price"`
	OrderQuantity int             `json:"order_quantity"`
	TotalAmount   float64         `json:"total_amount"`
	OrderItems    []Item          `json:"order_items"`
	Address       *user.Address   `json:"address,omitempty"`
	CreatedBy     string          `json:"created_by,omitempty"`
	CreatedAt     utils.Timestamp `json:"created_at"`
	UpdatedAt     utils.Timestamp `json:"updated_at"`
}

// UnmarshalJSON accepts the id under either "id" or "order_id".
func (o *Order) UnmarshalJSON(data []byte) error {
	type alias Order
	aux := struct {
		*alias
		OrderID string `json:"order_id"`
	}{alias: (*alias)(o)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if o.ID == "" {
		o.ID = aux.OrderID
	}
	return nil
}

// FirstItem returns the first line item, or a zero Item for an empty order.
func (o *Order) FirstItem() Item {
	if len(o.OrderItems) == 0 {
		return Item{}
	}
	return o.OrderItems[0]
}
