package handler

import (
	"context"
	"net/http"

	"github.com/vfg2006/sales-pipeline/internal/domain"
	"github.com/vfg2006/sales-pipeline/pkg/apiErrors"
	"github.com/vfg2006/sales-pipeline/pkg/log"
)

type ProjectLister interface {
	List(ctx context.Context) ([]*domain.Project, error)
}

// ListProjects lista os projetos cadastrados; ?status= e ?currency= filtram o resultado
func ListProjects(projects ProjectLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		var status *domain.ProjectStatus
		if raw := query.Get("status"); raw != "" {
			parsed, err := domain.ParseProjectStatus(raw)
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Status inválido", map[string]string{"status": raw})
				return
			}
			status = &parsed
		}
		currency := query.Get("currency")

		list, err := projects.List(r.Context())
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Error("Erro ao listar projetos")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar projetos", nil)
			return
		}

		result := make([]*domain.Project, 0, len(list))
		for _, project := range list {
			if status != nil && (project.Status == nil || *project.Status != *status) {
				continue
			}
			if currency != "" && project.Currency != currency {
				continue
			}
			result = append(result, project)
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"projects": result,
			"total":    len(result),
		})
	}
}
