package client

import (
	"context"

	"go.uber.org/zap"

	"userhub-client/internal/domain/user"
	"userhub-client/internal/logger"
	appErrors "userhub-client/pkg/errors"
	"userhub-client/pkg/utils"
)

func (s *Service) Login(ctx context.Context, form LoginForm) error {
	if err := s.begin(FormLogin); err != nil {
		return err
	}
	defer s.end(FormLogin)

	email := utils.SanitizeEmail(form.Email)
	session, err := s.users.Authenticate(ctx, email, form.Password)
	if err != nil {
		s.fail(err, "Login failed. Please try again.")
		return err
	}

	if err := s.store.Save(ctx, session); err != nil {
		logger.Error("Failed to persist session",
			zap.Error(err),
			zap.String("event", "session_save_failed"),
		)
		s.fail(err, "Login failed. Please try again.")
		return err
	}

	s.mu.Lock()
	s.state.Session = session
	s.notifyLocked(NotificationSuccess, "Login successful! Welcome back.")
	s.mu.Unlock()

	logger.Info("User logged in",
		zap.String("user_id", session.User.ID),
		zap.String("event", "user_logged_in"),
	)

	s.later(ctx, s.opts.LoginRedirectDelay, func(context.Context) {
		_ = s.ShowDashboard()
	})
	return nil
}

func (s *Service) Signup(ctx context.Context, form SignupForm) error {
	if err := s.begin(FormSignup); err != nil {
		return err
	}
	defer s.end(FormSignup)

	created, err := s.users.Register(ctx, form.ToRegisterRequest())
	if err != nil {
		s.fail(err, "Signup failed. Please try again.")
		return err
	}

	s.notify(NotificationSuccess, "Account created! Please login now.")
	logger.Info("Account created",
		zap.String("user_id", created.ID),
		zap.String("event", "user_registered"),
	)

	s.later(ctx, s.opts.SignupRedirectDelay, func(context.Context) {
		s.ShowLogin()
	})
	return nil
}

// ForgotPassword requests an OTP and remembers the email for the reset step.
func (s *Service) ForgotPassword(ctx context.Context, form ForgotPasswordForm) error {
	if err := s.begin(FormForgotPassword); err != nil {
		return err
	}
	defer s.end(FormForgotPassword)

	email := utils.SanitizeEmail(form.Email)
	if _, err := s.users.RequestPasswordResetOtp(ctx, email); err != nil {
		s.fail(err, "Failed to send OTP")
		return err
	}

	s.mu.Lock()
	s.state.ResetFlowEmail = email
	s.notifyLocked(NotificationSuccess, "OTP sent successfully! Check your email.")
	s.mu.Unlock()

	logger.Info("Password reset OTP requested",
		zap.String("event", "password_reset_otp_requested"),
	)

	s.later(ctx, s.opts.OTPRedirectDelay, func(context.Context) {
		s.ShowResetPassword()
	})
	return nil
}

// ResetPassword completes the OTP flow for the email captured by
// ForgotPassword. Mismatched passwords never reach the backend.
func (s *Service) ResetPassword(ctx context.Context, form ResetPasswordForm) error {
	if err := utils.ValidateStruct(&form); err != nil {
		s.notify(NotificationError, "Passwords do not match")
		return appErrors.ErrPasswordMismatch
	}

	if err := s.begin(FormResetPassword); err != nil {
		return err
	}
	defer s.end(FormResetPassword)

	s.mu.Lock()
	email := s.state.ResetFlowEmail
	s.mu.Unlock()

	req := &user.ResetPasswordOtpRequest{
		Email:           email,
		OTP:             utils.SanitizeCode(form.OTP),
		NewPassword:     form.NewPassword,
		ConfirmPassword: form.ConfirmNewPassword,
	}
	if _, err := s.users.ResetPasswordWithOtp(ctx, req); err != nil {
		s.fail(err, "Password reset failed")
		return err
	}

	s.notify(NotificationSuccess, "Password reset successfully! Please login.")
	logger.Info("Password reset with OTP",
		zap.String("event", "password_reset_completed"),
	)

	s.later(ctx, s.opts.ResetRedirectDelay, func(context.Context) {
		s.ShowLogin()
	})
	return nil
}

// ChangePassword updates the password of the signed-in user and then ends
// the session so the new password has to be used.
func (s *Service) ChangePassword(ctx context.Context, form ChangePasswordForm) error {
	if err := utils.ValidateStruct(&form); err != nil {
		s.notify(NotificationError, "New passwords do not match")
		return appErrors.ErrPasswordMismatch
	}

	if err := s.begin(FormChangePassword); err != nil {
		return err
	}
	defer s.end(FormChangePassword)

	if _, err := s.users.ChangePassword(ctx, form.OldPassword, form.NewPassword); err != nil {
		s.fail(err, "Password update failed")
		return err
	}

	s.notify(NotificationSuccess, "Password updated successfully! Please login again.")
	logger.Info("Password changed",
		zap.String("event", "password_changed"),
	)

	s.later(ctx, s.opts.LogoutDelay, func(ctx context.Context) {
		_ = s.Logout(ctx)
	})
	return nil
}

// Logout drops the session from memory and storage and resets every form.
// The in-memory session is cleared even when storage fails.
func (s *Service) Logout(ctx context.Context) error {
	err := s.store.Clear(ctx)
	if err != nil {
		logger.Error("Failed to clear stored session",
			zap.Error(err),
			zap.String("event", "session_clear_failed"),
		)
	}

	s.mu.Lock()
	userID := ""
	if s.state.Session != nil {
		userID = s.state.Session.User.ID
	}
	s.state.Session = nil
	s.state.ResetFlowEmail = ""
	s.state.EditingOrderID = ""
	s.state.Editor = EditorFields{}
	s.state.Orders = nil
	s.state.ListStatus = ListIdle
	s.state.View = ViewLogin
	s.notifyLocked(NotificationSuccess, "Logged out successfully.")
	s.mu.Unlock()

	logger.Info("User logged out",
		zap.String("user_id", userID),
		zap.String("event", "user_logged_out"),
	)
	return err
}
