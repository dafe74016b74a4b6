package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/checklane/register-backend/internal/auth"
	"github.com/checklane/register-backend/internal/register"
	"github.com/checklane/register-backend/pkg/config"
	pkgerrors "github.com/checklane/register-backend/pkg/errors"
	"github.com/checklane/register-backend/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeBackend struct {
	pingErr error
	closed  bool
}

func (b *fakeBackend) Ping(ctx context.Context) error { return b.pingErr }
func (b *fakeBackend) Close() error {
	b.closed = true
	return nil
}
func (b *fakeBackend) DB() *gorm.DB { return &gorm.DB{} }

type fakeAuthService struct {
	backend *fakeBackend
	err     error
}

func (s *fakeAuthService) Login(ctx context.Context, input auth.LoginInput) (*auth.LoginResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	sess, err := register.NewSession(s.backend, input.RegisterNumber, "123 Main St, Springfield")
	if err != nil {
		return nil, err
	}
	return &auth.LoginResult{Session: sess, StoreAddress: "123 Main St, Springfield"}, nil
}

type routerFixture struct {
	handler  http.Handler
	registry *register.Registry
	backend  *fakeBackend
	authSvc  *fakeAuthService
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()

	cfg := &config.Config{
		App: config.AppConfig{Env: "test", Port: "8080"},
		JWT: config.JWTConfig{Secret: "test-secret", Issuer: "register-backend", ExpirationMinutes: 60},
	}
	logg := logger.New(logger.Options{ServiceName: "register-api-test", Level: zerolog.Disabled})
	registry := register.NewRegistry()
	backend := &fakeBackend{}
	authSvc := &fakeAuthService{backend: backend}

	handler, err := NewRouter(RouterParams{
		Config:      cfg,
		Logger:      logg,
		Registry:    registry,
		AuthService: authSvc,
	})
	require.NoError(t, err)

	return &routerFixture{handler: handler, registry: registry, backend: backend, authSvc: authSvc}
}

func (f *routerFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func (f *routerFixture) login(t *testing.T) string {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/v1/auth/login", "", map[string]any{
		"username":        "cashier7",
		"password":        "hunter2",
		"register_number": 7,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Data struct {
			Token          string `json:"token"`
			RegisterNumber int    `json:"register_number"`
			StoreAddress   string `json:"store_address"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Data.Token)
	assert.Equal(t, 7, body.Data.RegisterNumber)
	assert.Equal(t, "123 Main St, Springfield", body.Data.StoreAddress)
	return body.Data.Token
}

func TestHealthz(t *testing.T) {
	f := newRouterFixture(t)
	rec := f.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestLoginRegistersSession(t *testing.T) {
	f := newRouterFixture(t)
	f.login(t)
	assert.Equal(t, 1, f.registry.Len())
}

func TestLoginRejectsMalformedBody(t *testing.T) {
	f := newRouterFixture(t)
	rec := f.do(t, http.MethodPost, "/v1/auth/login", "", map[string]any{
		"username": "cashier7",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

func TestSessionEndpointsRequireToken(t *testing.T) {
	f := newRouterFixture(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodPost, "/v1/items/scan"},
		{http.MethodPost, "/v1/members/lookup"},
		{http.MethodGet, "/v1/session"},
		{http.MethodPost, "/v1/session/logout"},
		{http.MethodPost, "/v1/receipts/total"},
		{http.MethodPost, "/v1/receipts/pay"},
	} {
		rec := f.do(t, route.method, route.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", route.method, route.path)
	}
}

func TestSessionSnapshotStartsEmpty(t *testing.T) {
	f := newRouterFixture(t)
	token := f.login(t)

	rec := f.do(t, http.MethodGet, "/v1/session", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Data struct {
			State string `json:"state"`
			Items []any  `json:"items"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "empty", body.Data.State)
	assert.Empty(t, body.Data.Items)
}

func TestScanValidatesUPCBeforeTouchingTheSession(t *testing.T) {
	f := newRouterFixture(t)
	token := f.login(t)

	rec := f.do(t, http.MethodPost, "/v1/items/scan", token, map[string]any{"upc": "123"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

func TestMemberLookupRequiresExactlyOneIdentifier(t *testing.T) {
	f := newRouterFixture(t)
	token := f.login(t)

	rec := f.do(t, http.MethodPost, "/v1/members/lookup", token, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/v1/members/lookup", token, map[string]any{
		"phone_number":   "5551234567",
		"account_number": 42,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPayRejectsNonDecimalAmount(t *testing.T) {
	f := newRouterFixture(t)
	token := f.login(t)

	rec := f.do(t, http.MethodPost, "/v1/receipts/pay", token, map[string]any{"amount_paid": "ten dollars"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTotalOnEmptyCartFails(t *testing.T) {
	f := newRouterFixture(t)
	token := f.login(t)

	rec := f.do(t, http.MethodPost, "/v1/receipts/total", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "cart is empty")
}

func TestLogoutInvalidatesTheToken(t *testing.T) {
	f := newRouterFixture(t)
	token := f.login(t)

	rec := f.do(t, http.MethodPost, "/v1/session/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, f.backend.closed)
	assert.Zero(t, f.registry.Len())

	rec = f.do(t, http.MethodGet, "/v1/session", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "session expired; log in again")
}

func TestBadCredentialsSurfaceAsUnauthorized(t *testing.T) {
	f := newRouterFixture(t)
	f.authSvc.err = pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid username or password")

	rec := f.do(t, http.MethodPost, "/v1/auth/login", "", map[string]any{
		"username":        "cashier7",
		"password":        "wrong",
		"register_number": 7,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid username or password")
}
