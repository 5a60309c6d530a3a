package handler

import (
	"net/http"
	"path/filepath"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/sales-pipeline/internal/domain"
	"github.com/vfg2006/sales-pipeline/pkg/apiErrors"
	"github.com/vfg2006/sales-pipeline/pkg/log"
	"github.com/vfg2006/sales-pipeline/pkg/middleware"
)

// ImportController é a visão do agendador usada pela API
type ImportController interface {
	TriggerManualSync() bool
	GetStatus() map[string]any
	LastReports() []*domain.RunReport
}

// RunImport dispara a importação da pasta em background
func RunImport(imports ImportController) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())
		if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
			logger = logger.WithField("operator", claims.Operator)
		}

		if !imports.TriggerManualSync() {
			logger.Warn("Importação manual recusada: já existe uma em andamento")
			apiErrors.WriteError(w, apiErrors.ErrImportRunning, "Já existe uma importação em andamento", nil)
			return
		}

		logger.Info("Importação manual disparada")
		writeJSON(w, http.StatusAccepted, map[string]any{
			"message": "Importação iniciada com sucesso",
		})
	}
}

func GetImportStatus(imports ImportController) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, imports.GetStatus())
	}
}

// ListImportReports retorna os relatórios da última importação; ?file= filtra pelo nome do arquivo
func ListImportReports(imports ImportController) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reports := imports.LastReports()

		file := r.URL.Query().Get("file")
		if file != "" {
			filtered := make([]*domain.RunReport, 0, 1)
			for _, report := range reports {
				if filepath.Base(report.File) == file {
					filtered = append(filtered, report)
				}
			}
			reports = filtered
		}

		if reports == nil {
			reports = []*domain.RunReport{}
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"reports": reports,
			"total":   len(reports),
		})
	}
}

func GetImportReport(imports ImportController) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runID := httprouter.ParamsFromContext(r.Context()).ByName("run_id")
		if runID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "run_id não informado", nil)
			return
		}
		middleware.Annotate(r.Context(), "run_id", runID)

		for _, report := range imports.LastReports() {
			if report.RunID == runID {
				writeJSON(w, http.StatusOK, report)
				return
			}
		}

		apiErrors.WriteError(w, apiErrors.ErrImportNotFound, "Relatório não encontrado", map[string]string{"run_id": runID})
	}
}
