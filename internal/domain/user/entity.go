package user

import (
	"fmt"
	"strings"

	"userhub-client/pkg/utils"
)

// Address is a postal address attached to a user or an order.
type Address struct {
	StreetAddress string `json:"street_address"`
	City          string `json:"city"`
	State         string `json:"state"`
	PostalCode    string `json:"postal_code"`
	Country       string `json:"country"`
}

// Line renders the address on one line: "street, city, state postal, country".
func (a *Address) Line() string {
	if a == nil {
		return ""
	}
	return fmt.Sprintf("%s, %s, %s %s, %s", a.StreetAddress, a.City, a.State, a.PostalCode, a.Country)
}

// User is the account record returned by the backend.
type User struct {
	ID           string          `json:"id,omitempty"`
	FirstName    string          `json:"first_name"`
	LastName     string          `json:"last_name"`
	Email        string          `json:"email"`
	MobileNumber string          `json:"mobile_number"`
	Address      *Address        `json:"address,omitempty"`
	Status       string          `json:"status"`
	CreatedAt    utils.Timestamp `json:"created_at"`
	UpdatedAt    utils.Timestamp `json:"updated_at"`
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Session is the decoded login response: the signed-in user plus the bearer
// token sent on authenticated calls.
type Session struct {
	User        User   `json:"user"`
	AccessToken string `json:"access_token"`
}
