package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-pipeline/internal/domain"
	"github.com/vfg2006/sales-pipeline/internal/usecases/authenticating"
	"github.com/vfg2006/sales-pipeline/pkg/log"
)

type validatorFunc func(token string) (*domain.Claims, error)

func (f validatorFunc) ValidateToken(token string) (*domain.Claims, error) {
	return f(token)
}

func staticValidator(tokens map[string]domain.Role) TokenValidator {
	return validatorFunc(func(token string) (*domain.Claims, error) {
		if token == "expirado" {
			return nil, authenticating.ErrExpiredToken
		}
		role, ok := tokens[token]
		if !ok {
			return nil, authenticating.ErrInvalidToken
		}
		return &domain.Claims{Operator: "ana", Role: role}, nil
	})
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthAndRoleMiddleware(t *testing.T) {
	log.SetupTestLogger()

	validator := staticValidator(map[string]domain.Role{
		"admin":  domain.RoleAdmin,
		"op":     domain.RoleOperator,
		"viewer": domain.RoleViewer,
	})
	handler := AuthMiddleware(validator)(AdminOrOperator()(okHandler()))

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
	}{
		{name: "healthcheck é público", path: "/healthcheck", wantStatus: http.StatusNoContent},
		{name: "sem header", path: "/v1/imports/run", wantStatus: http.StatusUnauthorized},
		{name: "sem bearer", path: "/v1/imports/run", header: "admin", wantStatus: http.StatusUnauthorized},
		{name: "token inválido", path: "/v1/imports/run", header: "Bearer xxx", wantStatus: http.StatusUnauthorized},
		{name: "token expirado", path: "/v1/imports/run", header: "Bearer expirado", wantStatus: http.StatusUnauthorized},
		{name: "admin", path: "/v1/imports/run", header: "Bearer admin", wantStatus: http.StatusNoContent},
		{name: "operador", path: "/v1/imports/run", header: "Bearer op", wantStatus: http.StatusNoContent},
		{name: "viewer sem permissão", path: "/v1/imports/run", header: "Bearer viewer", wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestAuthMiddleware_ExpiredCode(t *testing.T) {
	handler := AuthMiddleware(staticValidator(nil))(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/projects", nil)
	req.Header.Set("Authorization", "Bearer expirado")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "AUTH_007")
}

func TestRoleMiddleware_WithoutClaims(t *testing.T) {
	rec := httptest.NewRecorder()
	AllRoles()(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/projects", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCors(t *testing.T) {
	handler := Cors("https://painel.example.com")(okHandler())

	t.Run("origem permitida", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/projects", nil)
		req.Header.Set("Origin", "https://painel.example.com")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "https://painel.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("origem desconhecida", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/projects", nil)
		req.Header.Set("Origin", "https://outro.example.com")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/v1/imports/run", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestLogPanicMiddleware(t *testing.T) {
	log.SetupTestLogger()

	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(errors.New("boom"))
	})
	handler := LogPanicMiddleware()(LoggingMiddleware()(panicking))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/projects", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestLoggingMiddleware_KeepsStatus(t *testing.T) {
	log.SetupTestLogger()

	handler := LoggingMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, log.GetCorrelationID(r.Context()))
		w.WriteHeader(http.StatusAccepted)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/imports/run", nil))

	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestLoggingMiddleware_ImportRequestFields(t *testing.T) {
	log.SetupTestLogger()
	hook := test.NewGlobal()
	defer hook.Reset()

	validator := staticValidator(map[string]domain.Role{"op": domain.RoleOperator})
	handler := LoggingMiddleware()(AuthMiddleware(validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Annotate(r.Context(), "run_id", "run-42")
		w.WriteHeader(http.StatusOK)
	})))

	req := httptest.NewRequest(http.MethodGet, "/v1/imports/reports/run-42", nil)
	req.Header.Set("Authorization", "Bearer op")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "reports", entry.Data["import_action"])
	assert.Equal(t, "run-42", entry.Data["run_id"])
	assert.Equal(t, "ana", entry.Data["operator"])
	assert.Equal(t, http.StatusOK, entry.Data["status_code"])
	assert.NotEmpty(t, entry.Data["correlation_id"])
}

func TestImportAction(t *testing.T) {
	tests := []struct {
		path   string
		action string
		ok     bool
	}{
		{path: "/v1/imports/run", action: "run", ok: true},
		{path: "/v1/imports/reports/abc", action: "reports", ok: true},
		{path: "/v1/imports/", ok: false},
		{path: "/v1/projects", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			action, ok := importAction(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.action, action)
		})
	}
}

func TestAnnotate_WithoutTraceIsNoop(t *testing.T) {
	assert.NotPanics(t, func() {
		Annotate(httptest.NewRequest(http.MethodGet, "/", nil).Context(), "run_id", "x")
	})
}
