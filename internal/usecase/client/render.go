package client

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"userhub-client/internal/domain/order"
	"userhub-client/pkg/utils"
)

const (
	dashboardDateLayout = "January 2, 2006"
	orderDateLayout     = "1/2/2006"
)

// Screen is the view model of the current state. Exactly one entry of
// Visible is true.
type Screen struct {
	View         View              `json:"view"`
	Visible      map[string]bool   `json:"visible"`
	Notification *NotificationView `json:"notification"`
	Busy         []string          `json:"busy"`
	Dashboard    *DashboardView    `json:"dashboard,omitempty"`
	Orders       *OrdersView       `json:"orders,omitempty"`
	Editor       *EditorView       `json:"editor,omitempty"`
	ResetEmail   string            `json:"reset_email,omitempty"`
}

type NotificationView struct {
	Kind    NotificationKind `json:"kind"`
	Message string           `json:"message"`
}

type DashboardView struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	MobileNumber   string `json:"mobile_number"`
	Status         string `json:"status"`
	Created        string `json:"created"`
	Address        string `json:"address,omitempty"`
	SessionExpires string `json:"session_expires,omitempty"`
}

type OrdersView struct {
	Status      ListStatus  `json:"status"`
	Placeholder string      `json:"placeholder,omitempty"`
	Cards       []OrderCard `json:"cards"`
}

// Action is the local route a rendered control posts to.
type Action struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

type OrderCard struct {
	ID          string   `json:"id"`
	OrderNumber string   `json:"order_number"`
	Status      string   `json:"status"`
	Summary     string   `json:"summary"`
	Items       []string `json:"items"`
	Created     string   `json:"created"`
	Edit        Action   `json:"edit"`
	Delete      Action   `json:"delete"`
}

type EditorView struct {
	Title       string       `json:"title"`
	SubmitLabel string       `json:"submit_label"`
	OrderID     string       `json:"order_id,omitempty"`
	Fields      EditorFields `json:"fields"`
}

// Render builds the Screen for the current state.
func (s *Service) Render() Screen {
	s.mu.Lock()
	state := s.state.clone()
	s.mu.Unlock()

	return RenderState(state, s.opts.Now())
}

// RenderState is the pure mapping from state to view model at time now.
func RenderState(state State, now time.Time) Screen {
	screen := Screen{
		View:    state.View,
		Visible: make(map[string]bool, len(viewNames)),
		Busy:    []string{},
	}
	for _, v := range AllViews() {
		screen.Visible[v.String()] = v == state.View
	}

	if n := state.Notification; n != nil && now.Before(n.ExpiresAt) {
		screen.Notification = &NotificationView{Kind: n.Kind, Message: n.Message}
	}

	for form, busy := range state.Busy {
		if busy {
			screen.Busy = append(screen.Busy, string(form))
		}
	}
	sort.Strings(screen.Busy)

	if state.Session != nil {
		screen.Dashboard = renderDashboard(state)
	}

	switch state.View {
	case ViewOrdersList:
		screen.Orders = renderOrders(state)
	case ViewOrderEditor:
		screen.Editor = renderEditor(state)
	case ViewResetPassword:
		screen.ResetEmail = state.ResetFlowEmail
	}

	return screen
}

func renderDashboard(state State) *DashboardView {
	u := state.Session.User
	view := &DashboardView{
		Name:         u.FirstName + " " + u.LastName,
		Email:        u.Email,
		MobileNumber: u.MobileNumber,
		Status:       u.Status,
		Created:      formatDate(u.CreatedAt, dashboardDateLayout),
		Address:      u.Address.Line(),
	}
	if exp, ok := utils.TokenExpiry(state.Session.AccessToken); ok {
		view.SessionExpires = exp.Format(time.RFC3339)
	}
	return view
}

func renderOrders(state State) *OrdersView {
	view := &OrdersView{Status: state.ListStatus, Cards: []OrderCard{}}

	switch state.ListStatus {
	case ListFailed:
		view.Placeholder = "Failed to load orders"
		return view
	case ListLoaded:
	default:
		view.Placeholder = "Loading..."
		return view
	}

	if len(state.Orders) == 0 {
		view.Placeholder = "No orders found. Create one!"
		return view
	}
	for _, o := range state.Orders {
		view.Cards = append(view.Cards, renderCard(o))
	}
	return view
}

func renderCard(o *order.Order) OrderCard {
	card := OrderCard{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		Status:      string(o.OrderStatus),
		Summary:     fmt.Sprintf("Items: %d | Total: $%s", o.OrderQuantity, formatNumber(o.TotalAmount)),
		Items:       make([]string, 0, len(o.OrderItems)),
		Created:     formatDate(o.CreatedAt, orderDateLayout),
	}
	for _, item := range o.OrderItems {
		name := item.Name
		if name == "" {
			name = "Item"
		}
		card.Items = append(card.Items, fmt.Sprintf("%s x%d - $%s", name, item.Quantity, formatNumber(item.Price)))
	}

	path := "/api/orders/" + url.PathEscape(o.ID)
	card.Edit = Action{Method: http.MethodPost, Path: path + "/edit"}
	card.Delete = Action{Method: http.MethodDelete, Path: path + "?confirm=true"}
	return card
}

func renderEditor(state State) *EditorView {
	if state.EditingOrderID != "" {
		return &EditorView{
			Title:       "Edit Order",
			SubmitLabel: "Update Order",
			OrderID:     state.EditingOrderID,
			Fields:      state.Editor,
		}
	}
	return &EditorView{
		Title:       "New Order",
		SubmitLabel: "Place Order",
		Fields:      state.Editor,
	}
}

func formatDate(ts utils.Timestamp, layout string) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Format(layout)
}
