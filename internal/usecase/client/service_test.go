package client

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"userhub-client/internal/domain/order"
	"userhub-client/internal/domain/user"
	appErrors "userhub-client/pkg/errors"
)

// manualScheduler runs Go inline and holds After tasks until flush.
type manualScheduler struct {
	delays  []time.Duration
	pending []func()
}

func (m *manualScheduler) Go(fn func()) { fn() }

func (m *manualScheduler) After(d time.Duration, fn func()) {
	m.delays = append(m.delays, d)
	m.pending = append(m.pending, fn)
}

func (m *manualScheduler) flush() {
	pending := m.pending
	m.pending = nil
	for _, fn := range pending {
		fn()
	}
}

type fixture struct {
	users     *user.MockGateway
	orders    *order.MockGateway
	store     *user.MockSessionStore
	scheduler *manualScheduler
	svc       *Service
	now       time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		users:     user.NewMockGateway(ctrl),
		orders:    order.NewMockGateway(ctrl),
		store:     user.NewMockSessionStore(ctrl),
		scheduler: &manualScheduler{},
		now:       time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	opts := DefaultOptions()
	opts.Now = func() time.Time { return f.now }
	f.svc = NewService(f.users, f.orders, f.store, f.scheduler, opts)
	return f
}

func testSession() *user.Session {
	return &user.Session{
		User: user.User{
			ID:           "u1",
			FirstName:    "Ada",
			LastName:     "Lovelace",
			Email:        "a@b.com",
			MobileNumber: "9999999999",
			Status:       "ACTIVE",
		},
		AccessToken: "tok-1",
	}
}

// signIn loads a session without going through Login.
func (f *fixture) signIn() {
	f.svc.mu.Lock()
	f.svc.state.Session = testSession()
	f.svc.mu.Unlock()
}

// loadOrders fills the in-memory list through the orders view.
func (f *fixture) loadOrders(orders ...*order.Order) {
	f.orders.EXPECT().ListOrders(gomock.Any()).Return(orders, nil)
	f.svc.ShowOrdersList(context.Background())
}

func (f *fixture) notification(t *testing.T) Notification {
	t.Helper()
	n := f.svc.Snapshot().Notification
	if n == nil {
		t.Fatal("no notification")
	}
	return *n
}

func TestService_ShowExactlyOneVisible(t *testing.T) {
	for _, v := range AllViews() {
		t.Run(v.String(), func(t *testing.T) {
			f := newFixture(t)
			f.signIn()
			f.orders.EXPECT().ListOrders(gomock.Any()).Return([]*order.Order{}, nil).AnyTimes()

			if err := f.svc.Show(context.Background(), v); err != nil {
				t.Fatalf("Show(%s) error = %v", v, err)
			}
			once := f.svc.Render()

			if err := f.svc.Show(context.Background(), v); err != nil {
				t.Fatalf("second Show(%s) error = %v", v, err)
			}
			twice := f.svc.Render()

			visible := 0
			for name, shown := range twice.Visible {
				if shown {
					visible++
					if name != v.String() {
						t.Errorf("visible view = %s, want %s", name, v)
					}
				}
			}
			if visible != 1 {
				t.Errorf("visible views = %d, want 1", visible)
			}
			if len(twice.Visible) != len(AllViews()) {
				t.Errorf("Visible has %d entries, want %d", len(twice.Visible), len(AllViews()))
			}
			if once.View != twice.View {
				t.Errorf("view after second show = %s, want %s", twice.View, once.View)
			}
		})
	}
}

func TestService_ShowDashboardWithoutSession(t *testing.T) {
	f := newFixture(t)
	f.svc.ShowSignup()

	if err := f.svc.ShowDashboard(); !errors.Is(err, user.ErrNoSession) {
		t.Fatalf("ShowDashboard() error = %v, want ErrNoSession", err)
	}
	if got := f.svc.Snapshot().View; got != ViewSignup {
		t.Errorf("View = %s, want signup unchanged", got)
	}
}

func TestService_ShowUnknownView(t *testing.T) {
	f := newFixture(t)

	if err := f.svc.Show(context.Background(), View(42)); !errors.Is(err, appErrors.ErrInvalidInput) {
		t.Errorf("Show() error = %v, want ErrInvalidInput", err)
	}
}

func TestService_Bootstrap(t *testing.T) {
	tests := []struct {
		name     string
		session  *user.Session
		loadErr  error
		wantView View
		wantAuth bool
	}{
		{name: "stored session", session: testSession(), wantView: ViewDashboard, wantAuth: true},
		{name: "no session", loadErr: user.ErrNoSession, wantView: ViewLogin},
		{name: "corrupt session", loadErr: user.ErrSessionCorrupt, wantView: ViewLogin},
		{name: "storage failure", loadErr: errors.New("disk gone"), wantView: ViewLogin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.store.EXPECT().Load(gomock.Any()).Return(tt.session, tt.loadErr)

			if err := f.svc.Bootstrap(context.Background()); err != nil {
				t.Fatalf("Bootstrap() error = %v", err)
			}

			if got := f.svc.Snapshot().View; got != tt.wantView {
				t.Errorf("View = %s, want %s", got, tt.wantView)
			}
			if got := f.svc.AccessToken() != ""; got != tt.wantAuth {
				t.Errorf("has token = %v, want %v", got, tt.wantAuth)
			}
		})
	}
}

func TestService_AccessTokenFollowsSession(t *testing.T) {
	f := newFixture(t)
	if f.svc.AccessToken() != "" {
		t.Fatal("token present without session")
	}

	f.signIn()
	if got := f.svc.AccessToken(); got != "tok-1" {
		t.Fatalf("AccessToken() = %q, want tok-1", got)
	}

	f.store.EXPECT().Clear(gomock.Any()).Return(nil)
	_ = f.svc.Logout(context.Background())
	if f.svc.AccessToken() != "" {
		t.Error("token still present after Logout()")
	}
}

func TestService_Login(t *testing.T) {
	f := newFixture(t)
	session := testSession()

	f.users.EXPECT().Authenticate(gomock.Any(), "a@b.com", "x").Return(session, nil)
	f.store.EXPECT().Save(gomock.Any(), session).Return(nil)

	if err := f.svc.Login(context.Background(), LoginForm{Email: "  a@b.com ", Password: "x"}); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if got := f.svc.AccessToken(); got != "tok-1" {
		t.Errorf("AccessToken() = %q, want tok-1", got)
	}
	if n := f.notification(t); n.Kind != NotificationSuccess || n.Message != "Login successful! Welcome back." {
		t.Errorf("notification = %+v", n)
	}
	if got := f.svc.Snapshot().View; got != ViewLogin {
		t.Errorf("View before delay = %s, want login", got)
	}
	if len(f.scheduler.delays) != 1 || f.scheduler.delays[0] != 500*time.Millisecond {
		t.Errorf("delays = %v, want [500ms]", f.scheduler.delays)
	}

	f.scheduler.flush()

	screen := f.svc.Render()
	if screen.View != ViewDashboard {
		t.Fatalf("View = %s, want dashboard", screen.View)
	}
	if screen.Dashboard == nil || screen.Dashboard.Name != "Ada Lovelace" {
		t.Errorf("Dashboard = %+v, want name Ada Lovelace", screen.Dashboard)
	}
	if len(screen.Busy) != 0 {
		t.Errorf("Busy = %v, want none", screen.Busy)
	}
}

func TestService_LoginFailure(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantMessage string
	}{
		{
			name:        "server detail",
			err:         appErrors.NewAPIError(http.StatusUnauthorized, "Invalid email or password", "Invalid email or password"),
			wantMessage: "Invalid email or password",
		},
		{
			name:        "unreachable",
			err:         appErrors.ErrTransport,
			wantMessage: "Failed to reach server. Please try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.users.EXPECT().Authenticate(gomock.Any(), "a@b.com", "bad").Return(nil, tt.err)

			err := f.svc.Login(context.Background(), LoginForm{Email: "a@b.com", Password: "bad"})
			if !errors.Is(err, tt.err) {
				t.Fatalf("Login() error = %v, want %v", err, tt.err)
			}

			if n := f.notification(t); n.Kind != NotificationError || n.Message != tt.wantMessage {
				t.Errorf("notification = %+v, want %q", n, tt.wantMessage)
			}
			state := f.svc.Snapshot()
			if state.Session != nil || state.View != ViewLogin {
				t.Errorf("state = view %s session %v", state.View, state.Session)
			}
			if state.Busy[FormLogin] {
				t.Error("login form still busy")
			}
			if len(f.scheduler.pending) != 0 {
				t.Error("transition scheduled after failure")
			}
		})
	}
}

func TestService_LoginStorageFailure(t *testing.T) {
	f := newFixture(t)
	f.users.EXPECT().Authenticate(gomock.Any(), gomock.Any(), gomock.Any()).Return(testSession(), nil)
	f.store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("read-only filesystem"))

	if err := f.svc.Login(context.Background(), LoginForm{Email: "a@b.com", Password: "x"}); err == nil {
		t.Fatal("Login() error = nil, want storage error")
	}
	if f.svc.AccessToken() != "" {
		t.Error("session loaded although it was not stored")
	}
	if n := f.notification(t); n.Kind != NotificationError {
		t.Errorf("notification = %+v, want error", n)
	}
}

func TestService_BusyFormRefusesSecondSubmit(t *testing.T) {
	f := newFixture(t)
	if err := f.svc.begin(FormLogin); err != nil {
		t.Fatalf("begin() error = %v", err)
	}

	if err := f.svc.Login(context.Background(), LoginForm{Email: "a@b.com", Password: "x"}); !errors.Is(err, appErrors.ErrFormBusy) {
		t.Fatalf("Login() error = %v, want ErrFormBusy", err)
	}
	if !f.svc.Snapshot().Busy[FormLogin] {
		t.Error("refused submit cleared the running submit's busy flag")
	}
}

func TestService_Signup(t *testing.T) {
	full := SignupForm{
		FirstName: "Ada", LastName: "Lovelace", Email: "a@b.com", MobileNumber: "9999999999", Password: "Secret123",
		StreetAddress: "12 Main St", City: "Pune", State: "MH", PostalCode: "411001", Country: "India",
	}
	partial := full
	partial.PostalCode = ""

	tests := []struct {
		name        string
		form        SignupForm
		wantAddress bool
	}{
		{name: "full address", form: full, wantAddress: true},
		{name: "partial address", form: partial, wantAddress: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			var sent *user.RegisterRequest
			f.users.EXPECT().Register(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, req *user.RegisterRequest) (*user.User, error) {
					sent = req
					return &user.User{ID: "u1"}, nil
				})

			if err := f.svc.Signup(context.Background(), tt.form); err != nil {
				t.Fatalf("Signup() error = %v", err)
			}

			if got := sent.Address != nil; got != tt.wantAddress {
				t.Errorf("address sent = %v, want %v", got, tt.wantAddress)
			}
			if n := f.notification(t); n.Message != "Account created! Please login now." {
				t.Errorf("notification = %+v", n)
			}
			if f.scheduler.delays[0] != 1500*time.Millisecond {
				t.Errorf("delay = %v, want 1.5s", f.scheduler.delays[0])
			}

			f.svc.ShowSignup()
			f.scheduler.flush()
			if got := f.svc.Snapshot().View; got != ViewLogin {
				t.Errorf("View = %s, want login", got)
			}
		})
	}
}

func TestService_SignupFailureFallback(t *testing.T) {
	f := newFixture(t)
	f.users.EXPECT().Register(gomock.Any(), gomock.Any()).
		Return(nil, appErrors.NewAPIError(http.StatusBadRequest, nil, ""))

	_ = f.svc.Signup(context.Background(), SignupForm{Email: "a@b.com"})

	if n := f.notification(t); n.Message != "Signup failed. Please try again." {
		t.Errorf("notification = %q", n.Message)
	}
}

func TestService_ForgotThenResetPassword(t *testing.T) {
	f := newFixture(t)
	f.users.EXPECT().RequestPasswordResetOtp(gomock.Any(), "a@b.com").Return(map[string]any{"message": "sent"}, nil)

	if err := f.svc.ForgotPassword(context.Background(), ForgotPasswordForm{Email: " a@b.com"}); err != nil {
		t.Fatalf("ForgotPassword() error = %v", err)
	}
	if n := f.notification(t); n.Message != "OTP sent successfully! Check your email." {
		t.Errorf("notification = %q", n.Message)
	}
	f.scheduler.flush()

	screen := f.svc.Render()
	if screen.View != ViewResetPassword || screen.ResetEmail != "a@b.com" {
		t.Fatalf("screen = view %s email %q", screen.View, screen.ResetEmail)
	}

	var sent *user.ResetPasswordOtpRequest
	f.users.EXPECT().ResetPasswordWithOtp(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *user.ResetPasswordOtpRequest) (map[string]any, error) {
			sent = req
			return map[string]any{}, nil
		})

	form := ResetPasswordForm{OTP: " 123456 ", NewPassword: "NewPass1", ConfirmNewPassword: "NewPass1"}
	if err := f.svc.ResetPassword(context.Background(), form); err != nil {
		t.Fatalf("ResetPassword() error = %v", err)
	}

	want := user.ResetPasswordOtpRequest{Email: "a@b.com", OTP: "123456", NewPassword: "NewPass1", ConfirmPassword: "NewPass1"}
	if *sent != want {
		t.Errorf("request = %+v, want %+v", *sent, want)
	}
	if n := f.notification(t); n.Message != "Password reset successfully! Please login." {
		t.Errorf("notification = %q", n.Message)
	}
	f.scheduler.flush()
	if got := f.svc.Snapshot().View; got != ViewLogin {
		t.Errorf("View = %s, want login", got)
	}
}

func TestService_PasswordMismatchSkipsBackend(t *testing.T) {
	tests := []struct {
		name        string
		submit      func(*Service) error
		wantMessage string
	}{
		{
			name: "reset",
			submit: func(s *Service) error {
				return s.ResetPassword(context.Background(), ResetPasswordForm{OTP: "1", NewPassword: "a", ConfirmNewPassword: "b"})
			},
			wantMessage: "Passwords do not match",
		},
		{
			name: "change",
			submit: func(s *Service) error {
				return s.ChangePassword(context.Background(), ChangePasswordForm{OldPassword: "o", NewPassword: "a", ConfirmPassword: "b"})
			},
			wantMessage: "New passwords do not match",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// No gateway expectations: any backend call fails the test.
			f := newFixture(t)
			f.signIn()

			if err := tt.submit(f.svc); !errors.Is(err, appErrors.ErrPasswordMismatch) {
				t.Fatalf("error = %v, want ErrPasswordMismatch", err)
			}
			if n := f.notification(t); n.Kind != NotificationError || n.Message != tt.wantMessage {
				t.Errorf("notification = %+v", n)
			}
		})
	}
}

func TestService_ChangePasswordLogsOut(t *testing.T) {
	f := newFixture(t)
	f.signIn()
	f.users.EXPECT().ChangePassword(gomock.Any(), "OldPass1", "NewPass1").Return(map[string]any{}, nil)

	form := ChangePasswordForm{OldPassword: "OldPass1", NewPassword: "NewPass1", ConfirmPassword: "NewPass1"}
	if err := f.svc.ChangePassword(context.Background(), form); err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}
	if n := f.notification(t); n.Message != "Password updated successfully! Please login again." {
		t.Errorf("notification = %q", n.Message)
	}
	if f.scheduler.delays[0] != 1500*time.Millisecond {
		t.Errorf("delay = %v, want 1.5s", f.scheduler.delays[0])
	}

	f.store.EXPECT().Clear(gomock.Any()).Return(nil)
	f.scheduler.flush()

	state := f.svc.Snapshot()
	if state.Session != nil || state.View != ViewLogin {
		t.Errorf("state = view %s session %v, want logged out", state.View, state.Session)
	}
}

func TestService_ChangePasswordFailure(t *testing.T) {
	f := newFixture(t)
	f.signIn()
	f.users.EXPECT().ChangePassword(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, appErrors.NewAPIError(http.StatusBadRequest, "Old password is incorrect", "Old password is incorrect"))

	form := ChangePasswordForm{OldPassword: "wrong", NewPassword: "NewPass1", ConfirmPassword: "NewPass1"}
	if err := f.svc.ChangePassword(context.Background(), form); err == nil {
		t.Fatal("ChangePassword() error = nil")
	}
	if n := f.notification(t); n.Message != "Old password is incorrect" {
		t.Errorf("notification = %q", n.Message)
	}
	if f.svc.AccessToken() == "" {
		t.Error("session dropped after failed change")
	}
}

func TestService_Logout(t *testing.T) {
	f := newFixture(t)
	f.signIn()
	f.loadOrders(&order.Order{ID: "o1"})
	f.svc.ShowOrderEditor(&order.Order{ID: "o1", OrderPrice: 5})
	f.svc.mu.Lock()
	f.svc.state.ResetFlowEmail = "a@b.com"
	f.svc.mu.Unlock()

	f.store.EXPECT().Clear(gomock.Any()).Return(nil)
	if err := f.svc.Logout(context.Background()); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}

	state := f.svc.Snapshot()
	if state.Session != nil || state.ResetFlowEmail != "" || state.EditingOrderID != "" || len(state.Orders) != 0 {
		t.Errorf("state not cleared: %+v", state)
	}
	if state.Editor != (EditorFields{}) {
		t.Errorf("Editor = %+v, want reset", state.Editor)
	}
	if state.View != ViewLogin {
		t.Errorf("View = %s, want login", state.View)
	}
	if n := f.notification(t); n.Message != "Logged out successfully." {
		t.Errorf("notification = %q", n.Message)
	}
}

func TestService_LogoutStorageFailureStillClearsMemory(t *testing.T) {
	f := newFixture(t)
	f.signIn()
	f.store.EXPECT().Clear(gomock.Any()).Return(errors.New("permission denied"))

	if err := f.svc.Logout(context.Background()); err == nil {
		t.Fatal("Logout() error = nil, want storage error")
	}
	if f.svc.AccessToken() != "" {
		t.Error("session kept after Logout()")
	}
}
