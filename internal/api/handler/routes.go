package handler

import (
	"net/http"

	"github.com/vfg2006/sales-pipeline/internal/api/handler/router"
	"github.com/vfg2006/sales-pipeline/pkg/middleware"
)

func Healthcheck(db Pinger) []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(db),
		},
	}
}

func Imports(imports ImportController) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/imports/run",
			Method:      http.MethodPost,
			Handler:     RunImport(imports),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrOperator()},
		},
		{
			Path:        "/v1/imports/status",
			Method:      http.MethodGet,
			Handler:     GetImportStatus(imports),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/imports/reports",
			Method:      http.MethodGet,
			Handler:     ListImportReports(imports),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/imports/reports/:run_id",
			Method:      http.MethodGet,
			Handler:     GetImportReport(imports),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Projects(projects ProjectLister) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/projects",
			Method:      http.MethodGet,
			Handler:     ListProjects(projects),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}
