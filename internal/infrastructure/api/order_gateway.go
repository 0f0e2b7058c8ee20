package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"userhub-client/internal/domain/order"
)

var (
	listOrdersEndpoint = endpoint{
		name: "list_orders", method: http.MethodGet, path: "/v1/orders",
		auth: true, fallback: "Failed to fetch orders",
	}
	createOrderEndpoint = endpoint{
		name: "create_order", method: http.MethodPost, path: "/v1/orders",
		auth: true, fallback: "Failed to create order",
	}
	updateOrderEndpoint = endpoint{
		name: "update_order", method: http.MethodPatch, path: "/v1/orders/{id}",
		auth: true, fallback: "Failed to update order",
	}
	deleteOrderEndpoint = endpoint{
		name: "delete_order", method: http.MethodDelete, path: "/v1/orders/{id}",
		auth: true, fallback: "Failed to delete order",
	}
)

type OrderGateway struct {
	client *Client
}

func NewOrderGateway(client *Client) *OrderGateway {
	return &OrderGateway{client: client}
}

var _ order.Gateway = (*OrderGateway)(nil)

func (g *OrderGateway) ListOrders(ctx context.Context) ([]*order.Order, error) {
	var resp order.ListResponse
	if err := g.client.do(ctx, listOrdersEndpoint, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Orders == nil {
		return []*order.Order{}, nil
	}
	return resp.Orders, nil
}

func (g *OrderGateway) CreateOrder(ctx context.Context, req *order.Request) (*order.Order, error) {
	var raw json.RawMessage
	if err := g.client.do(ctx, createOrderEndpoint, req, &raw); err != nil {
		return nil, err
	}
	return decodeOrder(raw)
}

// UpdateOrder sends a partial update; only the fields in req are changed.
func (g *OrderGateway) UpdateOrder(ctx context.Context, orderID string, req *order.Request) (*order.Order, error) {
	var raw json.RawMessage
	ep := updateOrderEndpoint.withID(url.PathEscape(orderID))
	if err := g.client.do(ctx, ep, req, &raw); err != nil {
		return nil, err
	}
	return decodeOrder(raw)
}

func (g *OrderGateway) DeleteOrder(ctx context.Context, orderID string) (map[string]any, error) {
	return g.client.ack(ctx, deleteOrderEndpoint.withID(url.PathEscape(orderID)), nil)
}

// decodeOrder reads an order that is either bare or wrapped as {"Order": ...}.
func decodeOrder(raw json.RawMessage) (*order.Order, error) {
	if len(raw) == 0 {
		return &order.Order{}, nil
	}

	var envelope struct {
		Order *order.Order `json:"Order"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Order != nil {
		return envelope.Order, nil
	}

	var bare order.Order
	if err := json.Unmarshal(raw, &bare); err != nil {
		return nil, fmt.Errorf("failed to decode order: %w", err)
	}
	return &bare, nil
}
