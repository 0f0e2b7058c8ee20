package client

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"userhub-client/internal/domain/order"
	"userhub-client/internal/domain/user"
	appErrors "userhub-client/pkg/errors"
)

func pendingOrder(id, number string) *order.Order {
	return &order.Order{
		ID:            id,
		OrderNumber:   number,
		OrderStatus:   order.StatusPending,
		OrderPrice:    12.5,
		OrderQuantity: 2,
		TotalAmount:   25,
		OrderItems:    []order.Item{{Name: "Pen", Price: 12.5, Quantity: 2}},
		Address: &user.Address{
			StreetAddress: "12 Main St", City: "Pune", State: "MH", PostalCode: "411001", Country: "India",
		},
	}
}

func TestService_SubmitOrderCreate(t *testing.T) {
	f := newFixture(t)
	f.signIn()
	f.svc.ShowOrderEditor(nil)

	var sent *order.Request
	f.orders.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *order.Request) (*order.Order, error) {
			sent = req
			return &order.Order{ID: "o9"}, nil
		})

	form := OrderForm{ProductName: "Pen", Price: 10, Quantity: 3, City: "Pune"}
	if err := f.svc.SubmitOrder(context.Background(), form); err != nil {
		t.Fatalf("SubmitOrder() error = %v", err)
	}

	if sent.TotalAmount != 30 {
		t.Errorf("total_amount = %v, want 30", sent.TotalAmount)
	}
	if want := strconv.FormatInt(f.now.UnixMilli(), 10); sent.OrderNumber != want {
		t.Errorf("order_number = %q, want %q", sent.OrderNumber, want)
	}
	if len(sent.OrderItems) != 1 || sent.OrderItems[0] != (order.Item{Name: "Pen", Price: 10, Quantity: 3}) {
		t.Errorf("order_items = %+v", sent.OrderItems)
	}
	if sent.Address == nil || sent.Address.City != "Pune" {
		t.Errorf("address = %+v, want always sent", sent.Address)
	}
	if n := f.notification(t); n.Message != "Order placed successfully!" {
		t.Errorf("notification = %q", n.Message)
	}
	if f.scheduler.delays[0] != time.Second {
		t.Errorf("delay = %v, want 1s", f.scheduler.delays[0])
	}

	f.orders.EXPECT().ListOrders(gomock.Any()).Return([]*order.Order{{ID: "o9"}}, nil)
	f.scheduler.flush()

	state := f.svc.Snapshot()
	if state.View != ViewOrdersList || state.ListStatus != ListLoaded || len(state.Orders) != 1 {
		t.Errorf("state = view %s status %s orders %d", state.View, state.ListStatus, len(state.Orders))
	}
}

func TestService_SubmitOrderUpdate(t *testing.T) {
	tests := []struct {
		name       string
		cached     []*order.Order
		editTarget *order.Order
		wantNumber string
	}{
		{
			name:       "order number from list",
			cached:     []*order.Order{pendingOrder("o1", "1700000000000")},
			editTarget: pendingOrder("o1", ""),
			wantNumber: "1700000000000",
		},
		{
			name:       "order missing from list",
			cached:     []*order.Order{},
			editTarget: pendingOrder("ghost", "1"),
			wantNumber: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.signIn()
			f.loadOrders(tt.cached...)
			f.svc.ShowOrderEditor(tt.editTarget)

			var sent *order.Request
			f.orders.EXPECT().UpdateOrder(gomock.Any(), tt.editTarget.ID, gomock.Any()).
				DoAndReturn(func(_ context.Context, _ string, req *order.Request) (*order.Order, error) {
					sent = req
					return &order.Order{ID: tt.editTarget.ID}, nil
				})

			form := OrderForm{ProductName: "Pen", Price: 0.1, Quantity: 3}
			if err := f.svc.SubmitOrder(context.Background(), form); err != nil {
				t.Fatalf("SubmitOrder() error = %v", err)
			}

			if sent.OrderNumber != tt.wantNumber {
				t.Errorf("order_number = %q, want %q", sent.OrderNumber, tt.wantNumber)
			}
			if sent.TotalAmount != 0.3 {
				t.Errorf("total_amount = %v, want 0.3", sent.TotalAmount)
			}
			if n := f.notification(t); n.Message != "Order updated successfully!" {
				t.Errorf("notification = %q", n.Message)
			}
			state := f.svc.Snapshot()
			if state.EditingOrderID != "" || state.Editor != (EditorFields{}) {
				t.Errorf("editor not reset: id %q fields %+v", state.EditingOrderID, state.Editor)
			}
		})
	}
}

func TestService_SubmitOrderFailureKeepsEditMode(t *testing.T) {
	f := newFixture(t)
	f.signIn()
	f.loadOrders(pendingOrder("o1", "100"))
	if err := f.svc.EditOrder("o1"); err != nil {
		t.Fatalf("EditOrder() error = %v", err)
	}

	f.orders.EXPECT().UpdateOrder(gomock.Any(), "o1", gomock.Any()).
		Return(nil, appErrors.NewAPIError(http.StatusNotFound, "Order not found", "Order not found"))

	if err := f.svc.SubmitOrder(context.Background(), OrderForm{Price: 1, Quantity: 1}); err == nil {
		t.Fatal("SubmitOrder() error = nil")
	}

	state := f.svc.Snapshot()
	if state.EditingOrderID != "o1" || state.View != ViewOrderEditor {
		t.Errorf("state = view %s id %q, want editor still in edit mode", state.View, state.EditingOrderID)
	}
	if state.Busy[FormOrder] {
		t.Error("order form still busy")
	}
	if n := f.notification(t); n.Message != "Order not found" {
		t.Errorf("notification = %q", n.Message)
	}
}

func TestService_ShowOrderEditorEditMode(t *testing.T) {
	f := newFixture(t)
	o := pendingOrder("o1", "100")

	f.svc.ShowOrderEditor(o)
	state := f.svc.Snapshot()
	if state.EditingOrderID != "o1" {
		t.Fatalf("EditingOrderID = %q, want o1", state.EditingOrderID)
	}
	want := EditorFields{
		ProductName: "Pen", Price: "12.5", Quantity: "2",
		StreetAddress: "12 Main St", City: "Pune", State: "MH", PostalCode: "411001", Country: "India",
	}
	if state.Editor != want {
		t.Errorf("Editor = %+v, want %+v", state.Editor, want)
	}

	// An order without address or items leaves no stale fields behind.
	f.svc.ShowOrderEditor(&order.Order{ID: "o2", OrderPrice: 3, OrderQuantity: 1})
	state = f.svc.Snapshot()
	if state.EditingOrderID != "o2" || state.Editor.City != "" || state.Editor.ProductName != "" {
		t.Errorf("state = id %q editor %+v", state.EditingOrderID, state.Editor)
	}

	f.svc.ShowOrderEditor(nil)
	state = f.svc.Snapshot()
	if state.EditingOrderID != "" || state.Editor != (EditorFields{}) {
		t.Errorf("create mode state = id %q editor %+v", state.EditingOrderID, state.Editor)
	}
}

func TestService_EditOrderUnknown(t *testing.T) {
	f := newFixture(t)
	f.signIn()
	f.loadOrders(pendingOrder("o1", "100"))

	if err := f.svc.EditOrder("nope"); !errors.Is(err, order.ErrOrderNotFound) {
		t.Fatalf("EditOrder() error = %v, want ErrOrderNotFound", err)
	}
	if got := f.svc.Snapshot().View; got != ViewOrdersList {
		t.Errorf("View = %s, want orders unchanged", got)
	}
}

func TestService_DeleteOrder(t *testing.T) {
	f := newFixture(t)
	f.signIn()
	f.loadOrders(pendingOrder("o1", "100"), pendingOrder("o2", "101"))

	f.orders.EXPECT().DeleteOrder(gomock.Any(), "o1").Return(map[string]any{"message": "deleted"}, nil)
	f.orders.EXPECT().ListOrders(gomock.Any()).Return([]*order.Order{pendingOrder("o2", "101")}, nil)

	if err := f.svc.DeleteOrder(context.Background(), "o1", true); err != nil {
		t.Fatalf("DeleteOrder() error = %v", err)
	}

	state := f.svc.Snapshot()
	for _, o := range state.Orders {
		if o.ID == "o1" {
			t.Error("deleted order still listed")
		}
	}
	if len(state.Orders) != 1 {
		t.Errorf("orders = %d, want 1", len(state.Orders))
	}
	if n := f.notification(t); n.Message != "Order deleted successfully" {
		t.Errorf("notification = %q", n.Message)
	}
}

func TestService_DeleteOrderUnconfirmed(t *testing.T) {
	f := newFixture(t)
	f.signIn()

	if err := f.svc.DeleteOrder(context.Background(), "o1", false); err != nil {
		t.Fatalf("DeleteOrder() error = %v", err)
	}
	if f.svc.Snapshot().Notification != nil {
		t.Error("notification shown for an unconfirmed delete")
	}
}

func TestService_DeleteOrderFailure(t *testing.T) {
	f := newFixture(t)
	f.signIn()
	f.orders.EXPECT().DeleteOrder(gomock.Any(), "o1").
		Return(nil, appErrors.NewAPIError(http.StatusForbidden, "Not allowed", "Not allowed"))

	if err := f.svc.DeleteOrder(context.Background(), "o1", true); err == nil {
		t.Fatal("DeleteOrder() error = nil")
	}
	if n := f.notification(t); n.Kind != NotificationError || n.Message != "Not allowed" {
		t.Errorf("notification = %+v", n)
	}
}

func TestService_OrdersListFailure(t *testing.T) {
	f := newFixture(t)
	f.signIn()
	f.loadOrders(pendingOrder("o1", "100"))

	f.orders.EXPECT().ListOrders(gomock.Any()).Return(nil, appErrors.ErrTransport)
	f.svc.ShowOrdersList(context.Background())

	screen := f.svc.Render()
	if screen.Orders == nil || screen.Orders.Placeholder != "Failed to load orders" {
		t.Fatalf("Orders = %+v", screen.Orders)
	}
	if len(screen.Orders.Cards) != 0 {
		t.Errorf("cards rendered for a failed fetch")
	}
	// The last good list still backs edit lookups.
	if err := f.svc.EditOrder("o1"); err != nil {
		t.Errorf("EditOrder() error = %v", err)
	}
}

func TestService_NavigationHelpers(t *testing.T) {
	f := newFixture(t)
	f.signIn()
	f.orders.EXPECT().ListOrders(gomock.Any()).Return([]*order.Order{}, nil)

	f.svc.ShowOrderEditor(nil)
	f.svc.CancelOrderEditor(context.Background())
	if got := f.svc.Snapshot().View; got != ViewOrdersList {
		t.Fatalf("View = %s, want orders", got)
	}

	if err := f.svc.BackToDashboard(); err != nil {
		t.Fatalf("BackToDashboard() error = %v", err)
	}
	if got := f.svc.Snapshot().View; got != ViewDashboard {
		t.Errorf("View = %s, want dashboard", got)
	}
}

func TestOrderTotal(t *testing.T) {
	tests := []struct {
		price    float64
		quantity int
		want     float64
	}{
		{price: 10, quantity: 3, want: 30},
		{price: 0.1, quantity: 3, want: 0.3},
		{price: 19.99, quantity: 0, want: 0},
		{price: 2.5, quantity: 4, want: 10},
	}

	for _, tt := range tests {
		if got := OrderTotal(tt.price, tt.quantity); got != tt.want {
			t.Errorf("OrderTotal(%v, %d) = %v, want %v", tt.price, tt.quantity, got, tt.want)
		}
	}
}
