package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"userhub-client/internal/domain/order"
	"userhub-client/internal/domain/user"
	"userhub-client/internal/logger"
	appErrors "userhub-client/pkg/errors"
	"userhub-client/pkg/utils"
)

// Options tunes notification lifetime and the pauses before automatic view
// transitions.
type Options struct {
	NotificationTTL     time.Duration
	LoginRedirectDelay  time.Duration
	SignupRedirectDelay time.Duration
	OTPRedirectDelay    time.Duration
	ResetRedirectDelay  time.Duration
	LogoutDelay         time.Duration
	OrderRedirectDelay  time.Duration
	Now                 func() time.Time
}

func DefaultOptions() Options {
	return Options{
		NotificationTTL:     4 * time.Second,
		LoginRedirectDelay:  500 * time.Millisecond,
		SignupRedirectDelay: 1500 * time.Millisecond,
		OTPRedirectDelay:    time.Second,
		ResetRedirectDelay:  time.Second,
		LogoutDelay:         1500 * time.Millisecond,
		OrderRedirectDelay:  time.Second,
		Now:                 time.Now,
	}
}

// Service implements the client's view controller and submit handlers.
// The mutex guards state only; backend calls run without it, and the last
// completing order list fetch wins.
type Service struct {
	users     user.Gateway
	orders    order.Gateway
	store     user.SessionStore
	scheduler Scheduler
	opts      Options

	mu    sync.Mutex
	state State
}

// NewService creates a new client service
func NewService(
	users user.Gateway,
	orders order.Gateway,
	store user.SessionStore,
	scheduler Scheduler,
	opts Options,
) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		users:     users,
		orders:    orders,
		store:     store,
		scheduler: scheduler,
		opts:      opts,
		state:     newState(),
	}
}

// Bootstrap restores a stored session. With one the dashboard is shown,
// otherwise the login view.
func (s *Service) Bootstrap(ctx context.Context) error {
	session, err := s.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, user.ErrNoSession) {
			logger.Warn("Ignoring stored session",
				zap.Error(err),
				zap.String("event", "session_restore_failed"),
			)
		}
		s.ShowLogin()
		return nil
	}

	if exp, ok := utils.TokenExpiry(session.AccessToken); ok && !exp.After(s.opts.Now()) {
		logger.Warn("Stored access token has expired",
			zap.Time("expired_at", exp),
			zap.String("event", "session_token_expired"),
		)
	}

	s.mu.Lock()
	s.state.Session = session
	s.state.View = ViewDashboard
	s.mu.Unlock()

	logger.Info("Session restored",
		zap.String("user_id", session.User.ID),
		zap.String("event", "session_restored"),
	)
	return nil
}

// AccessToken returns the bearer token of the loaded session, or "".
func (s *Service) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Session == nil {
		return ""
	}
	return s.state.Session.AccessToken
}

// Snapshot returns a copy of the current state.
func (s *Service) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.clone()
}

func (s *Service) setView(v View) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.View = v
}

func (s *Service) ShowLogin()          { s.setView(ViewLogin) }
func (s *Service) ShowSignup()         { s.setView(ViewSignup) }
func (s *Service) ShowForgotPassword() { s.setView(ViewForgotPassword) }
func (s *Service) ShowResetPassword()  { s.setView(ViewResetPassword) }
func (s *Service) ShowChangePassword() { s.setView(ViewChangePassword) }

// ShowDashboard needs a loaded session and leaves the view unchanged
// without one.
func (s *Service) ShowDashboard() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Session == nil {
		return user.ErrNoSession
	}
	s.state.View = ViewDashboard
	return nil
}

// ShowOrdersList shows the list and refetches it in the background.
func (s *Service) ShowOrdersList(ctx context.Context) {
	s.setView(ViewOrdersList)
	s.reloadOrders(ctx)
}

// ShowOrderEditor opens the editor empty for a new order, or prefilled from
// o in edit mode.
func (s *Service) ShowOrderEditor(o *order.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.View = ViewOrderEditor
	if o == nil {
		s.state.EditingOrderID = ""
		s.state.Editor = EditorFields{}
		return
	}
	s.state.EditingOrderID = o.ID
	s.state.Editor = editorFieldsFromOrder(o)
}

// Show switches to v by name, running the same side effects as the
// dedicated Show operation.
func (s *Service) Show(ctx context.Context, v View) error {
	switch v {
	case ViewLogin:
		s.ShowLogin()
	case ViewSignup:
		s.ShowSignup()
	case ViewForgotPassword:
		s.ShowForgotPassword()
	case ViewResetPassword:
		s.ShowResetPassword()
	case ViewChangePassword:
		s.ShowChangePassword()
	case ViewDashboard:
		return s.ShowDashboard()
	case ViewOrdersList:
		s.ShowOrdersList(ctx)
	case ViewOrderEditor:
		s.ShowOrderEditor(nil)
	default:
		return appErrors.ErrInvalidInput
	}
	return nil
}

func (s *Service) notify(kind NotificationKind, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notifyLocked(kind, message)
}

func (s *Service) notifyLocked(kind NotificationKind, message string) {
	s.state.Notification = &Notification{
		Kind:      kind,
		Message:   message,
		ExpiresAt: s.opts.Now().Add(s.opts.NotificationTTL),
	}
}

// fail reports err as an error notification.
func (s *Service) fail(err error, fallback string) {
	s.notify(NotificationError, appErrors.UserMessage(err, fallback))
}

// begin marks form busy; a second submit while the first is running is
// refused.
func (s *Service) begin(form Form) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Busy[form] {
		return appErrors.ErrFormBusy
	}
	s.state.Busy[form] = true
	return nil
}

func (s *Service) end(form Form) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.state.Busy, form)
}

// later schedules a view transition that outlives the request that caused
// it.
func (s *Service) later(ctx context.Context, d time.Duration, fn func(ctx context.Context)) {
	bg := context.WithoutCancel(ctx)
	s.scheduler.After(d, func() { fn(bg) })
}
