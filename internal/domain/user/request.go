package user

// RegisterRequest is the body of POST /v1/users.
type RegisterRequest struct {
	FirstName    string   `json:"first_name"`
	LastName     string   `json:"last_name"`
	Email        string   `json:"email"`
	MobileNumber string   `json:"mobile_number"`
	Password     string   `json:"password"`
	Address      *Address `json:"address,omitempty"`
}

// ResetPasswordOtpRequest is the body of POST /v1/reset-password-otp.
type ResetPasswordOtpRequest struct {
	Email           string `json:"email"`
	OTP             string `json:"otp"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}
