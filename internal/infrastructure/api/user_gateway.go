package api

import (
	"context"
	"net/http"

	"userhub-client/internal/domain/user"
)

var (
	loginEndpoint = endpoint{
		name: "login", method: http.MethodPost, path: "/v1/login",
		fallback: "Login failed",
	}
	registerEndpoint = endpoint{
		name: "register", method: http.MethodPost, path: "/v1/users",
		fallback: "Signup failed",
	}
	forgetPasswordEndpoint = endpoint{
		name: "forget_password", method: http.MethodPost, path: "/v1/forget-password",
		fallback: "Failed to send OTP",
	}
	resetPasswordOtpEndpoint = endpoint{
		name: "reset_password_otp", method: http.MethodPost, path: "/v1/reset-password-otp",
		fallback: "Password reset failed",
	}
	changePasswordEndpoint = endpoint{
		name: "change_password", method: http.MethodPost, path: "/v1/reset_password",
		auth: true, fallback: "Password update failed",
	}
)

type UserGateway struct {
	client *Client
}

func NewUserGateway(client *Client) *UserGateway {
	return &UserGateway{client: client}
}

var _ user.Gateway = (*UserGateway)(nil)

func (g *UserGateway) Authenticate(ctx context.Context, email, password string) (*user.Session, error) {
	payload := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	var session user.Session
	if err := g.client.do(ctx, loginEndpoint, payload, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (g *UserGateway) Register(ctx context.Context, req *user.RegisterRequest) (*user.User, error) {
	// The backend answers with either the bare user or a {user, access_token}
	// pair; accept both.
	var created struct {
		user.User
		Nested *user.User `json:"user"`
	}
	if err := g.client.do(ctx, registerEndpoint, req, &created); err != nil {
		return nil, err
	}
	if created.Nested != nil {
		return created.Nested, nil
	}
	return &created.User, nil
}

func (g *UserGateway) RequestPasswordResetOtp(ctx context.Context, email string) (map[string]any, error) {
	payload := struct {
		Email string `json:"email"`
	}{Email: email}

	return g.client.ack(ctx, forgetPasswordEndpoint, payload)
}

func (g *UserGateway) ResetPasswordWithOtp(ctx context.Context, req *user.ResetPasswordOtpRequest) (map[string]any, error) {
	return g.client.ack(ctx, resetPasswordOtpEndpoint, req)
}

func (g *UserGateway) ChangePassword(ctx context.Context, oldPassword, newPassword string) (map[string]any, error) {
	payload := struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}{OldPassword: oldPassword, NewPassword: newPassword}

	return g.client.ack(ctx, changePasswordEndpoint, payload)
}
