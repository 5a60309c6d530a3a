package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-pipeline/infrastructure/database/postgres"
	"github.com/vfg2006/sales-pipeline/infrastructure/repository"
	"github.com/vfg2006/sales-pipeline/infrastructure/spreadsheet"
	"github.com/vfg2006/sales-pipeline/internal/api"
	"github.com/vfg2006/sales-pipeline/internal/config"
	"github.com/vfg2006/sales-pipeline/internal/scheduler"
	"github.com/vfg2006/sales-pipeline/internal/usecases/authenticating"
	"github.com/vfg2006/sales-pipeline/internal/usecases/importing"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts, err := cfg.ImportOptions()
	if err != nil {
		logrus.WithError(err).Fatal("Configuração de importação inválida")
	}

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	projectRepo := repository.NewProjectRepository(pgConn)
	factRepo := repository.NewFactRepository(pgConn)

	pipeline, err := importing.NewPipeline(spreadsheet.NewExcelReader(), projectRepo, factRepo, opts)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao montar o pipeline de importação")
	}

	importService := importing.NewService(pipeline, pgConn, cfg.Import.Folder, opts.Schema).
		WithRetries(cfg.RetryPolicy())

	importSync := scheduler.NewImportSyncService(importService, cfg)
	if err := importSync.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de importação")
	} else {
		logrus.Info("Agendador de importação iniciado com sucesso")
	}

	if cfg.Auth.Secret == "" {
		logrus.Warn("AUTH_SECRET vazio: apenas /healthcheck responderá")
	}

	server, err := api.New(cfg, api.Dependencies{
		Imports:        importSync,
		Projects:       projectRepo,
		TokenValidator: authenticating.NewService(cfg),
		Database:       pgConn,
	})
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

func configureLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	logrus.WithField("schema", conn.Schema()).Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
