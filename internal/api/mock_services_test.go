package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"loan-predict/internal/domain"
	"loan-predict/internal/middleware"
	"loan-predict/internal/testutil"
)

type mockAuthService struct {
	RegisterFn      func(ctx context.Context, req domain.RegisterRequest) (*domain.Account, error)
	LoginFn         func(ctx context.Context, username, password string) (*domain.AccessToken, error)
	ResetPasswordFn func(ctx context.Context, principal *domain.Account, newPassword *string) error
	ActivateFn      func(ctx context.Context, email, password string) error
	CreateAccountFn func(ctx context.Context, principal *domain.Account, req domain.CreateAccountRequest) (*domain.Account, error)
	ListAccountsFn  func(ctx context.Context, principal *domain.Account, page domain.PageRequest) ([]domain.Account, int64, error)
}

func (m *mockAuthService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.Account, error) {
	if m.RegisterFn == nil {
		panic("unexpected call to mockAuthService.Register")
	}
	return m.RegisterFn(ctx, req)
}

func (m *mockAuthService) Login(ctx context.Context, username, password string) (*domain.AccessToken, error) {
	if m.LoginFn == nil {
		panic("unexpected call to mockAuthService.Login")
	}
	return m.LoginFn(ctx, username, password)
}

func (m *mockAuthService) ResetPassword(ctx context.Context, principal *domain.Account, newPassword *string) error {
	if m.ResetPasswordFn == nil {
		panic("unexpected call to mockAuthService.ResetPassword")
	}
	return m.ResetPasswordFn(ctx, principal, newPassword)
}

func (m *mockAuthService) Activate(ctx context.Context, email, password string) error {
	if m.ActivateFn == nil {
		panic("unexpected call to mockAuthService.Activate")
	}
	return m.ActivateFn(ctx, email, password)
}

func (m *mockAuthService) CreateAccount(ctx context.Context, principal *domain.Account, req domain.CreateAccountRequest) (*domain.Account, error) {
	if m.CreateAccountFn == nil {
		panic("unexpected call to mockAuthService.CreateAccount")
	}
	return m.CreateAccountFn(ctx, principal, req)
}

func (m *mockAuthService) ListAccounts(ctx context.Context, principal *domain.Account, page domain.PageRequest) ([]domain.Account, int64, error) {
	if m.ListAccountsFn == nil {
		panic("unexpected call to mockAuthService.ListAccounts")
	}
	return m.ListAccountsFn(ctx, principal, page)
}

type mockLoanService struct {
	RequestFn func(ctx context.Context, principal *domain.Account, f domain.LoanFeatures) (*domain.LoanRequest, error)
	HistoryFn func(ctx context.Context, principal *domain.Account, page domain.PageRequest) ([]domain.LoanRequest, int64, error)
}

func (m *mockLoanService) Request(ctx context.Context, principal *domain.Account, f domain.LoanFeatures) (*domain.LoanRequest, error) {
	if m.RequestFn == nil {
		panic("unexpected call to mockLoanService.Request")
	}
	return m.RequestFn(ctx, principal, f)
}

func (m *mockLoanService) History(ctx context.Context, principal *domain.Account, page domain.PageRequest) ([]domain.LoanRequest, int64, error) {
	if m.HistoryFn == nil {
		panic("unexpected call to mockLoanService.History")
	}
	return m.HistoryFn(ctx, principal, page)
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

var (
	testAlice = &domain.Account{ID: 2, Username: "alice", Email: "a@x.io", Role: domain.RoleUser, IsActive: true}
	testRoot  = &domain.Account{ID: 1, Username: "root", Email: "root@x.io", Role: domain.RoleAdmin, IsActive: true}
)

// testAuthenticator accepts "alice-token" and "root-token".
func testAuthenticator() *testutil.MockAuthenticator {
	return &testutil.MockAuthenticator{AuthenticateFn: func(_ context.Context, token string) (*domain.Account, error) {
		switch token {
		case "alice-token":
			return testAlice, nil
		case "root-token":
			return testRoot, nil
		default:
			return nil, domain.ErrUnauthenticated()
		}
	}}
}

type testServer struct {
	auth   *mockAuthService
	loans  *mockLoanService
	ping   error
	router http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{auth: &mockAuthService{}, loans: &mockLoanService{}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(ts.auth, ts.loans, pingerFunc(func(context.Context) error { return ts.ping }), logger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	ts.router = NewRouter(ctx, h, RouterConfig{
		Authenticator:      testAuthenticator(),
		CORSAllowedOrigins: []string{"*"},
		RateLimit:          middleware.RateLimitConfig{RequestsPerSecond: 1000, Burst: 1000},
		Logger:             logger,
	})
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

var errBoom = errors.New("boom")

func requireErrorBody(t *testing.T, rec *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	body := decodeBody[errorResponse](t, rec)
	require.Equal(t, status, body.Code)
	require.Equal(t, message, body.Message)
}
