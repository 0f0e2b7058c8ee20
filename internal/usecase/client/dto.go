package client

import (
	"strconv"

	"github.com/shopspring/decimal"

	"userhub-client/internal/domain/order"
	"userhub-client/internal/domain/user"
)

type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupForm struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	MobileNumber  string `json:"mobile_number"`
	Password      string `json:"password"`
	StreetAddress string `json:"street_address"`
	City          string `json:"city"`
	State         string `json:"state"`
	PostalCode    string `json:"postal_code"`
	Country       string `json:"country"`
}

type ForgotPasswordForm struct {
	Email string `json:"email"`
}

type ResetPasswordForm struct {
	OTP                string `json:"otp"`
	NewPassword        string `json:"new_password"`
	ConfirmNewPassword string `json:"confirm_new_password" validate:"eqfield=NewPassword"`
}

type ChangePasswordForm struct {
	OldPassword     string `json:"old_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password" validate:"eqfield=NewPassword"`
}

type OrderForm struct {
	ProductName   string  `json:"product_name"`
	Price         float64 `json:"price"`
	Quantity      int     `json:"quantity"`
	StreetAddress string  `json:"street_address"`
	City          string  `json:"city"`
	State         string  `json:"state"`
	PostalCode    string  `json:"postal_code"`
	Country       string  `json:"country"`
}

// ToRegisterRequest attaches the address only when every address field is
// filled in.
func (f *SignupForm) ToRegisterRequest() *user.RegisterRequest {
	req := &user.RegisterRequest{
		FirstName:    f.FirstName,
		LastName:     f.LastName,
		Email:        f.Email,
		MobileNumber: f.MobileNumber,
		Password:     f.Password,
	}
	if f.StreetAddress != "" && f.City != "" && f.State != "" && f.PostalCode != "" && f.Country != "" {
		req.Address = &user.Address{
			StreetAddress: f.StreetAddress,
			City:          f.City,
			State:         f.State,
			PostalCode:    f.PostalCode,
			Country:       f.Country,
		}
	}
	return req
}

// ToRequest builds a single line item order. The address is always sent,
// even when its fields are empty.
func (f *OrderForm) ToRequest() *order.Request {
	return &order.Request{
		OrderPrice:    f.Price,
		OrderQuantity: f.Quantity,
		TotalAmount:   OrderTotal(f.Price, f.Quantity),
		OrderItems: []order.Item{
			{Name: f.ProductName, Price: f.Price, Quantity: f.Quantity},
		},
		Address: &user.Address{
			StreetAddress: f.StreetAddress,
			City:          f.City,
			State:         f.State,
			PostalCode:    f.PostalCode,
			Country:       f.Country,
		},
	}
}

// OrderTotal is price * quantity without binary float drift
// (0.1 * 3 is 0.3, not 0.30000000000000004).
func OrderTotal(price float64, quantity int) float64 {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(quantity))).InexactFloat64()
}

func editorFieldsFromOrder(o *order.Order) EditorFields {
	fields := EditorFields{
		ProductName: o.FirstItem().Name,
		Price:       formatNumber(o.OrderPrice),
		Quantity:    strconv.Itoa(o.OrderQuantity),
	}
	if o.Address != nil {
		fields.StreetAddress = o.Address.StreetAddress
		fields.City = o.Address.City
		fields.State = o.Address.State
		fields.PostalCode = o.Address.PostalCode
		fields.Country = o.Address.Country
	}
	return fields
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
