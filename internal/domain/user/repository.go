package user

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=user

import (
	"context"
)

// Gateway defines the account endpoints of the backend
type Gateway interface {
	Authenticate(ctx context.Context, email, password string) (*Session, error)
	Register(ctx context.Context, req *RegisterRequest) (*User, error)
	RequestPasswordResetOtp(ctx context.Context, email string) (map[string]any, error)
	ResetPasswordWithOtp(ctx context.Context, req *ResetPasswordOtpRequest) (map[string]any, error)
	ChangePassword(ctx context.Context, oldPassword, newPassword string) (map[string]any, error)
}

// SessionStore persists the current session between runs
type SessionStore interface {
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Clear(ctx context.Context) error
}
