// Package scheduler contém os serviços de agendamento da importação de planilhas
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-pipeline/internal/config"
	"github.com/vfg2006/sales-pipeline/internal/domain"
	"github.com/vfg2006/sales-pipeline/pkg/log"
)

// FolderImporter importa todas as planilhas de uma pasta
type FolderImporter interface {
	ImportFolder(ctx context.Context) ([]*domain.RunReport, error)
	LastReports() []*domain.RunReport
	Folder() string
}

type ImportSyncConfig struct {
	CronSchedule string
	Enabled      bool
	RunOnStart   bool
}

type ImportSyncService struct {
	scheduler           *gocron.Scheduler
	importer            FolderImporter
	config              ImportSyncConfig
	baseCtx             context.Context
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastSyncError       string
}

func NewImportSyncService(importer FolderImporter, cfg *config.Config) *ImportSyncService {
	syncConfig := ImportSyncConfig{
		CronSchedule: cfg.ImportSync.CronSchedule,
		Enabled:      cfg.ImportSync.Enabled,
		RunOnStart:   cfg.ImportSync.RunOnStart,
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": syncConfig.CronSchedule,
		"folder":        importer.Folder(),
	}).Info("Configuração do agendador de importação carregada")

	return &ImportSyncService{
		scheduler: gocron.NewScheduler(time.Local),
		importer:  importer,
		config:    syncConfig,
		baseCtx:   context.Background(),
	}
}

func (s *ImportSyncService) Start(ctx context.Context) error {
	s.baseCtx = ctx

	if s.config.RunOnStart {
		s.TriggerManualSync()
	}

	if !s.config.Enabled {
		logrus.Info("Importação agendada desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando cron de importação de planilhas")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if err := s.RunImport(ctx); err != nil {
			logrus.WithError(err).Error("Erro na importação agendada")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar importação de planilhas: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando cron de importação")
		s.scheduler.Stop()
	}()

	return nil
}

// RunImport executa a importação da pasta; chamadas concorrentes são ignoradas
func (s *ImportSyncService) RunImport(ctx context.Context) error {
	if !s.begin() {
		logrus.Warn("Importação já está em execução")
		return nil
	}
	return s.runImport(ctx)
}

// runImport supõe que begin já reservou a execução
func (s *ImportSyncService) runImport(ctx context.Context) error {
	ctx, correlationID := log.WithCorrelationID(ctx)
	logger := log.ForContext(ctx)
	logger.WithField("folder", s.importer.Folder()).Info("Iniciando importação de planilhas")

	reports, err := s.importer.ImportFolder(ctx)
	s.finish(err)

	failed := 0
	for _, report := range reports {
		if !report.Succeeded() {
			failed++
		}
	}

	logger.WithFields(log.Fields{
		"files":          len(reports),
		"failed":         failed,
		"correlation_id": correlationID,
	}).Info("Importação de planilhas finalizada")

	return err
}

func (s *ImportSyncService) begin() bool {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	if s.syncRunning {
		return false
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	return true
}

func (s *ImportSyncService) finish(err error) {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	s.syncRunning = false
	s.lastSyncCompletedAt = time.Now()
	s.lastSyncError = ""
	if err != nil {
		s.lastSyncError = err.Error()
	}
}

// TriggerManualSync inicia uma importação em background. Retorna falso se já
// houver uma em andamento.
func (s *ImportSyncService) TriggerManualSync() bool {
	if !s.begin() {
		logrus.Info("Importação já em andamento, ignorando solicitação manual")
		return false
	}

	ctx := s.baseCtx
	if ctx == nil {
		ctx = context.Background()
	}

	logrus.Info("Iniciando importação manual")
	go func() {
		if err := s.runImport(ctx); err != nil {
			logrus.WithError(err).Error("Erro na importação manual")
		}
	}()
	return true
}

func (s *ImportSyncService) IsRunning() bool {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()
	return s.syncRunning
}

// GetStatus retorna o status atual do agendador
func (s *ImportSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.Enabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_running":           s.syncRunning,
		"folder":                 s.importer.Folder(),
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_sync_error":        s.lastSyncError,
	}
}

func (s *ImportSyncService) LastReports() []*domain.RunReport {
	return s.importer.LastReports()
}
