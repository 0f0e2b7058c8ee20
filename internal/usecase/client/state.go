package client

import (
	"time"

	"userhub-client/internal/domain/order"
	"userhub-client/internal/domain/user"
)

// ListStatus tracks the last order list fetch.
type ListStatus string

const (
	ListIdle    ListStatus = "idle"
	ListLoading ListStatus = "loading"
	ListLoaded  ListStatus = "loaded"
	ListFailed  ListStatus = "failed"
)

type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)

// Notification is a transient message; it renders until ExpiresAt.
type Notification struct {
	Kind      NotificationKind
	Message   string
	ExpiresAt time.Time
}

// Form names a submit control whose busy flag is tracked.
type Form string

const (
	FormLogin          Form = "login"
	FormSignup         Form = "signup"
	FormForgotPassword Form = "forgot-password"
	FormResetPassword  Form = "reset-password"
	FormChangePassword Form = "change-password"
	FormOrder          Form = "order"
)

// EditorFields holds the order editor inputs as they are displayed.
type EditorFields struct {
	ProductName   string `json:"product_name"`
	Price         string `json:"price"`
	Quantity      string `json:"quantity"`
	StreetAddress string `json:"street_address"`
	City          string `json:"city"`
	State         string `json:"state"`
	PostalCode    string `json:"postal_code"`
	Country       string `json:"country"`
}

// State is everything the client remembers between interactions. The
// access token lives only inside Session, so it is set exactly when a
// session is loaded.
type State struct {
	View           View
	Session        *user.Session
	ResetFlowEmail string
	EditingOrderID string
	Orders         []*order.Order
	ListStatus     ListStatus
	Editor         EditorFields
	Notification   *Notification
	Busy           map[Form]bool
}

func newState() State {
	return State{
		View:       ViewLogin,
		ListStatus: ListIdle,
		Busy:       map[Form]bool{},
	}
}

// clone copies the state deep enough that callers cannot mutate the
// service's own maps and slices.
func (s State) clone() State {
	out := s
	out.Busy = make(map[Form]bool, len(s.Busy))
	for form, busy := range s.Busy {
		out.Busy[form] = busy
	}
	out.Orders = append([]*order.Order(nil), s.Orders...)
	if s.Session != nil {
		session := *s.Session
		out.Session = &session
	}
	if s.Notification != nil {
		n := *s.Notification
		out.Notification = &n
	}
	return out
}
