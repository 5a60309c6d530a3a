package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-pipeline/internal/api/handler"
	"github.com/vfg2006/sales-pipeline/internal/api/handler/router"
	"github.com/vfg2006/sales-pipeline/internal/config"
	"github.com/vfg2006/sales-pipeline/pkg/middleware"
)

type Server struct {
	httpServer *http.Server
}

// Dependencies agrupa o que a API expõe: agendador de importação, projetos e autenticação
type Dependencies struct {
	Imports        handler.ImportController
	Projects       handler.ProjectLister
	TokenValidator middleware.TokenValidator
	Database       handler.Pinger
}

func New(config *config.Config, deps Dependencies) (*Server, error) {
	if deps.Imports == nil || deps.Projects == nil || deps.TokenValidator == nil {
		return nil, errors.New("api: dependências obrigatórias ausentes")
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           NewHandler(config, deps),
			ReadHeaderTimeout: 2 * time.Second,
		},
	}, nil
}

// NewHandler monta o router com a cadeia de middlewares globais
func NewHandler(config *config.Config, deps Dependencies) http.Handler {
	rt := router.New(
		router.WithRoutes(handler.Healthcheck(deps.Database)...),
		router.WithRoutes(handler.Imports(deps.Imports)...),
		router.WithRoutes(handler.Projects(deps.Projects)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(config.Server.AllowedOrigins...),
		middleware.AuthMiddleware(deps.TokenValidator),
	}

	return alice.New(middlewares...).Then(rt)
}

// Run serve até receber SIGINT/SIGTERM ou o contexto ser cancelado
func (s Server) Run(ctx context.Context) error {
	serveErr := make(chan error, 1)
	go func() {
		logrus.WithField("address", s.httpServer.Addr).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serveErr:
		return fmt.Errorf("erro durante a execução do servidor: %w", err)
	case <-ctx.Done():
		logrus.Info("Sinal de interrupção recebido")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logrus.WithField("timeout", "15s").Info("Iniciando desligamento gracioso do servidor")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}

	logrus.Info("Servidor HTTP desligado com sucesso")
	return nil
}
