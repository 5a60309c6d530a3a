package middleware

import (
	"context"
	"net/http"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/vfg2006/sales-pipeline/pkg/apiErrors"
	"github.com/vfg2006/sales-pipeline/pkg/log"
)

const (
	slowRequestThreshold = 500 * time.Millisecond
	importRoutesPrefix   = "/v1/imports/"
)

// requestTrace acumula campos definidos pelas camadas internas (auth,
// handlers) e que entram no log de conclusão da requisição
type requestTrace struct {
	mu     sync.Mutex
	fields log.Fields
}

type traceKey struct{}

// Annotate adiciona um campo ao log de conclusão da requisição. Fora do
// LoggingMiddleware não faz nada.
func Annotate(ctx context.Context, key string, value any) {
	trace, ok := ctx.Value(traceKey{}).(*requestTrace)
	if !ok {
		return
	}
	trace.mu.Lock()
	trace.fields[key] = value
	trace.mu.Unlock()
}

func (t *requestTrace) merge(into log.Fields) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for k, v := range t.fields {
		into[k] = v
	}
}

// LoggingMiddleware registra uma linha por requisição com status, duração,
// operador autenticado e, nas rotas de importação, a ação e o run_id
func LoggingMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, correlationID := log.WithCorrelationID(r.Context())
			trace := &requestTrace{fields: log.Fields{}}
			r = r.WithContext(context.WithValue(ctx, traceKey{}, trace))

			lrw := newLoggingResponseWriter(w)
			startTime := time.Now()

			next.ServeHTTP(lrw, r)

			elapsed := time.Since(startTime)
			fields := log.Fields{
				"correlation_id": correlationID,
				"method":         r.Method,
				"path":           r.URL.Path,
				"status_code":    lrw.statusCode,
				"duration_ms":    elapsed.Milliseconds(),
			}
			if action, ok := importAction(r.URL.Path); ok {
				fields["import_action"] = action
			}
			trace.merge(fields)

			logger := log.L.WithFields(fields)
			switch {
			case lrw.statusCode >= 500:
				logger.Error("Requisição finalizada com erro")
			case lrw.statusCode >= 400:
				logger.Warn("Requisição finalizada com aviso")
			default:
				logger.Info("Requisição finalizada com sucesso")
			}

			if elapsed > slowRequestThreshold {
				logger.Warnf("Requisição lenta: %s", elapsed)
			}
		})
	}
}

// importAction extrai a ação de /v1/imports/<ação>[/...]
func importAction(path string) (string, bool) {
	rest, ok := strings.CutPrefix(path, importRoutesPrefix)
	if !ok || rest == "" {
		return "", false
	}
	action, _, _ := strings.Cut(rest, "/")
	return action, true
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newLoggingResponseWriter(w http.ResponseWriter) *loggingResponseWriter {
	return &loggingResponseWriter{w, http.StatusOK}
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

// LogPanicMiddleware converte pânicos em SRV_001 e registra a pilha
func LogPanicMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					stack := make([]byte, 4096)
					stack = stack[:runtime.Stack(stack, false)]

					log.ForContext(r.Context()).WithFields(log.Fields{
						"error":       err,
						"method":      r.Method,
						"path":        r.URL.Path,
						"stack_trace": string(stack),
					}).Error("Erro não tratado na aplicação")

					apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro interno no servidor", nil)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
