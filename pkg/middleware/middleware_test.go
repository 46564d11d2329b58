package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/justinas/alice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ads-sentinel/internal/config"
	"github.com/vfg2006/ads-sentinel/internal/domain"
	"github.com/vfg2006/ads-sentinel/internal/usecases/authenticating"
	"github.com/vfg2006/ads-sentinel/pkg/log"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func newChain(t *testing.T, extra ...alice.Constructor) (http.Handler, authenticating.Authenticator) {
	t.Helper()

	auth := authenticating.NewService(&config.Config{SecretKey: "segredo"})
	constructors := append([]alice.Constructor{
		LogPanicMiddleware(),
		LoggingMiddleware(),
		Cors([]string{"http://localhost:3000"}),
		AuthMiddleware(auth),
	}, extra...)

	return alice.New(constructors...).Then(okHandler), auth
}

func bearer(t *testing.T, auth authenticating.Authenticator, tenantID string, role int) string {
	t.Helper()
	token, err := auth.GenerateToken(tenantID, role, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestAuthMiddleware(t *testing.T) {
	chain, auth := newChain(t)

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
	}{
		{"rota pública", "/healthcheck", "", http.StatusNoContent},
		{"sem cabeçalho", "/v1/me/logs", "", http.StatusUnauthorized},
		{"sem Bearer", "/v1/me/logs", "Token abc", http.StatusUnauthorized},
		{"token inválido", "/v1/me/logs", "Bearer abc", http.StatusUnauthorized},
		{"token válido", "/v1/me/logs", bearer(t, auth, "t1", domain.RoleTenant), http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			chain.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.NotEmpty(t, rec.Header().Get(log.HeaderRequestID))
		})
	}
}

func TestRoleMiddleware(t *testing.T) {
	adminChain, auth := newChain(t, AdminOnly())
	tenantChain, _ := newChain(t, TenantOnly())

	tests := []struct {
		name       string
		chain      http.Handler
		header     string
		wantStatus int
	}{
		{"admin em rota admin", adminChain, bearer(t, auth, "", domain.RoleAdmin), http.StatusNoContent},
		{"tenant em rota admin", adminChain, bearer(t, auth, "t1", domain.RoleTenant), http.StatusForbidden},
		{"tenant em rota de tenant", tenantChain, bearer(t, auth, "t1", domain.RoleTenant), http.StatusNoContent},
		{"tenant sem id", tenantChain, bearer(t, auth, "", domain.RoleTenant), http.StatusUnauthorized},
		{"admin em rota de tenant", tenantChain, bearer(t, auth, "", domain.RoleAdmin), http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/x", nil)
			req.Header.Set("Authorization", tt.header)

			rec := httptest.NewRecorder()
			tt.chain.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestCors(t *testing.T) {
	chain, _ := newChain(t)

	req := httptest.NewRequest(http.MethodOptions, "/v1/me/logs", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/v1/me/logs", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	chain.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestLogPanicMiddleware(t *testing.T) {
	handler := LogPanicMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestLoggingMiddleware_ReusesRequestID(t *testing.T) {
	chain, _ := newChain(t)

	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	req.Header.Set(log.HeaderRequestID, "req-42")
	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get(log.HeaderRequestID))
}
