package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-pipeline/internal/api/handler/router"
	"github.com/vfg2006/sales-pipeline/internal/domain"
	"github.com/vfg2006/sales-pipeline/pkg/middleware"
)

type fakeImports struct {
	accept    bool
	triggered int
	reports   []*domain.RunReport
}

func (f *fakeImports) TriggerManualSync() bool {
	f.triggered++
	return f.accept
}

func (f *fakeImports) GetStatus() map[string]any {
	return map[string]any{"sync_running": !f.accept, "folder": "data/initial/sales"}
}

func (f *fakeImports) LastReports() []*domain.RunReport {
	return f.reports
}

type projectListerFunc func(ctx context.Context) ([]*domain.Project, error)

func (f projectListerFunc) List(ctx context.Context) ([]*domain.Project, error) {
	return f(ctx)
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// serve injeta as claims do operador e passa pelo router com os middlewares de role
func serve(t *testing.T, routes []router.Route, role domain.Role, method, target string) *httptest.ResponseRecorder {
	t.Helper()

	rt := router.New(router.WithRoutes(routes...))
	req := httptest.NewRequest(method, target, nil)
	if role != "" {
		ctx := context.WithValue(req.Context(), middleware.ContextKeyUser, &domain.Claims{Operator: "ana", Role: role})
		req = req.WithContext(ctx)
	}

	rec := httptest.NewRecorder()
	rt.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRunImport(t *testing.T) {
	tests := []struct {
		name       string
		accept     bool
		role       domain.Role
		wantStatus int
		wantCalls  int
	}{
		{name: "aceita", accept: true, role: domain.RoleOperator, wantStatus: http.StatusAccepted, wantCalls: 1},
		{name: "já em execução", accept: false, role: domain.RoleAdmin, wantStatus: http.StatusConflict, wantCalls: 1},
		{name: "viewer não dispara", accept: true, role: domain.RoleViewer, wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			imports := &fakeImports{accept: tt.accept}

			rec := serve(t, Imports(imports), tt.role, http.MethodPost, "/v1/imports/run")

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCalls, imports.triggered)
		})
	}
}

func TestGetImportStatus(t *testing.T) {
	rec := serve(t, Imports(&fakeImports{accept: true}), domain.RoleViewer, http.MethodGet, "/v1/imports/status")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "data/initial/sales", body["folder"])
	assert.Equal(t, false, body["sync_running"])
}

func TestImportReports(t *testing.T) {
	imports := &fakeImports{reports: []*domain.RunReport{
		{RunID: "run-a", File: "data/initial/sales/jan.xlsx", Stage: domain.StageCompleted},
		{RunID: "run-b", File: "data/initial/sales/fev.xlsx", Stage: domain.StageFailed, FailedStage: domain.StageReshaping},
	}}
	routes := Imports(imports)

	t.Run("lista todos", func(t *testing.T) {
		rec := serve(t, routes, domain.RoleViewer, http.MethodGet, "/v1/imports/reports")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.EqualValues(t, 2, decodeBody(t, rec)["total"])
	})

	t.Run("filtra por arquivo", func(t *testing.T) {
		rec := serve(t, routes, domain.RoleViewer, http.MethodGet, "/v1/imports/reports?file=fev.xlsx")
		body := decodeBody(t, rec)
		assert.EqualValues(t, 1, body["total"])
		reports := body["reports"].([]any)
		assert.Equal(t, "reshaping", reports[0].(map[string]any)["failed_stage"])
	})

	t.Run("sem relatórios devolve lista vazia", func(t *testing.T) {
		rec := serve(t, Imports(&fakeImports{}), domain.RoleViewer, http.MethodGet, "/v1/imports/reports")
		assert.Equal(t, []any{}, decodeBody(t, rec)["reports"])
	})

	t.Run("busca por run id", func(t *testing.T) {
		rec := serve(t, routes, domain.RoleViewer, http.MethodGet, "/v1/imports/reports/run-a")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "run-a", decodeBody(t, rec)["run_id"])
	})

	t.Run("run id inexistente", func(t *testing.T) {
		rec := serve(t, routes, domain.RoleViewer, http.MethodGet, "/v1/imports/reports/nope")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("sem claims", func(t *testing.T) {
		rec := serve(t, routes, "", http.MethodGet, "/v1/imports/reports")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestListProjects(t *testing.T) {
	active := domain.ProjectStatusActive
	closed := domain.ProjectStatusClose
	projects := []*domain.Project{
		{ID: "1", Name: "Acme", Currency: "USD", Status: &active},
		{ID: "2", Name: "Beta", Currency: "EUR", Status: &closed},
		{ID: "3", Name: "Gama", Currency: "USD"},
	}
	lister := projectListerFunc(func(ctx context.Context) ([]*domain.Project, error) {
		return projects, nil
	})

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantTotal  int
	}{
		{name: "todos", target: "/v1/projects", wantStatus: http.StatusOK, wantTotal: 3},
		{name: "por status", target: "/v1/projects?status=ACTIVE", wantStatus: http.StatusOK, wantTotal: 1},
		{name: "por moeda", target: "/v1/projects?currency=USD", wantStatus: http.StatusOK, wantTotal: 2},
		{name: "status inválido", target: "/v1/projects?status=archived", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, Projects(lister), domain.RoleViewer, http.MethodGet, tt.target)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.EqualValues(t, tt.wantTotal, decodeBody(t, rec)["total"])
			}
		})
	}
}

func TestListProjects_StoreError(t *testing.T) {
	lister := projectListerFunc(func(ctx context.Context) ([]*domain.Project, error) {
		return nil, errors.New("connection refused")
	})

	rec := serve(t, Projects(lister), domain.RoleAdmin, http.MethodGet, "/v1/projects")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "SRV_002", decodeBody(t, rec)["code"])
}

func TestHealthcheck(t *testing.T) {
	t.Run("sem banco", func(t *testing.T) {
		rec := serve(t, Healthcheck(nil), "", http.MethodGet, "/healthcheck")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", decodeBody(t, rec)["status"])
	})

	t.Run("banco fora", func(t *testing.T) {
		db := pingerFunc(func(ctx context.Context) error { return errors.New("timeout") })
		rec := serve(t, Healthcheck(db), "", http.MethodGet, "/healthcheck")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "degraded", decodeBody(t, rec)["status"])
	})
}
