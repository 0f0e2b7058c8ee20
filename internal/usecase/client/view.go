package client

import "fmt"

// View is the single screen shown at a time.
type View int

const (
	ViewLogin View = iota
	ViewSignup
	ViewForgotPassword
	ViewResetPassword
	ViewChangePassword
	ViewDashboard
	ViewOrdersList
	ViewOrderEditor
)

var viewNames = [...]string{
	ViewLogin:          "login",
	ViewSignup:         "signup",
	ViewForgotPassword: "forgot-password",
	ViewResetPassword:  "reset-password",
	ViewChangePassword: "change-password",
	ViewDashboard:      "dashboard",
	ViewOrdersList:     "orders",
	ViewOrderEditor:    "editor",
}

func (v View) String() string {
	if v < 0 || int(v) >= len(viewNames) {
		return fmt.Sprintf("view(%d)", int(v))
	}
	return viewNames[v]
}

func (v View) MarshalText() ([]byte, error) {
	if v < 0 || int(v) >= len(viewNames) {
		return nil, fmt.Errorf("unknown view %d", int(v))
	}
	return []byte(viewNames[v]), nil
}

// ParseView maps a view name back to its View.
func ParseView(name string) (View, bool) {
	for i, n := range viewNames {
		if n == name {
			return View(i), true
		}
	}
	return ViewLogin, false
}

// AllViews lists every view in declaration order.
func AllViews() []View {
	views := make([]View, len(viewNames))
	for i := range viewNames {
		views[i] = View(i)
	}
	return views
}
