package importing

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-pipeline/internal/domain"
)

const excelExtension = ".xlsx"

// FileRunner executa a importação de um único arquivo
type FileRunner interface {
	Run(ctx context.Context, path string) (*domain.RunReport, error)
}

// Service importa todos os arquivos de uma pasta, um de cada vez
type Service struct {
	runner  FileRunner
	tables  TableChecker
	folder  string
	schema  domain.FactSchema
	retries RetryPolicy

	mu          sync.RWMutex
	lastReports []*domain.RunReport
}

func NewService(runner FileRunner, tables TableChecker, folder string, schema domain.FactSchema) *Service {
	return &Service{
		runner: runner,
		tables: tables,
		folder: folder,
		schema: schema,
	}
}

// WithRetries define quantas vezes um arquivo com falha é reprocessado inteiro
func (s *Service) WithRetries(policy RetryPolicy) *Service {
	s.retries = policy
	return s
}

func (s *Service) Folder() string {
	return s.folder
}

// ListFiles devolve as planilhas da pasta em ordem alfabética, ignorando
// arquivos temporários do Excel
func (s *Service) ListFiles() ([]string, error) {
	entries, err := os.ReadDir(s.folder)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar a pasta %s: %w", s.folder, err)
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "~") {
			continue
		}
		if !strings.EqualFold(filepath.Ext(name), excelExtension) {
			continue
		}
		files = append(files, filepath.Join(s.folder, name))
	}
	sort.Strings(files)

	return files, nil
}

// ImportFolder verifica as tabelas e importa cada arquivo da pasta. Falhas de
// um arquivo não interrompem os demais; o erro devolvido junta todas elas.
func (s *Service) ImportFolder(ctx context.Context) ([]*domain.RunReport, error) {
	missing, err := s.tables.MissingTables(ctx, domain.ProjectsTable, s.schema.Table)
	if err != nil {
		return nil, fmt.Errorf("erro ao verificar tabelas: %w", err)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrTablesMissing, missing)
	}

	files, err := s.ListFiles()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		logrus.WithField("folder", s.folder).Warn("Nenhuma planilha encontrada para importar")
	}

	reports := make([]*domain.RunReport, 0, len(files))
	var errs []error

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		report, err := s.runWithRetries(ctx, file)
		if report != nil {
			reports = append(reports, report)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}

	s.mu.Lock()
	s.lastReports = reports
	s.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"folder": s.folder,
		"files":  len(files),
		"failed": len(errs),
	}).Info("Importação da pasta finalizada")

	return reports, errors.Join(errs...)
}

func (s *Service) runWithRetries(ctx context.Context, file string) (*domain.RunReport, error) {
	var (
		report *domain.RunReport
		err    error
	)

	for attempt := 0; attempt <= s.retries.Attempts; attempt++ {
		if attempt > 0 {
			logrus.WithError(err).WithFields(logrus.Fields{
				"file":    file,
				"attempt": attempt,
				"delay":   s.retries.Delay,
			}).Warn("Reprocessando arquivo")

			if waitErr := s.retries.wait(ctx); waitErr != nil {
				return report, errors.Join(err, waitErr)
			}
		}

		report, err = s.runner.Run(ctx, file)
		if err == nil || IsStructural(err) {
			// problemas de formato não mudam entre tentativas
			return report, err
		}
	}

	return report, err
}

// LastReports devolve os relatórios da última importação da pasta
func (s *Service) LastReports() []*domain.RunReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.RunReport, len(s.lastReports))
	copy(out, s.lastReports)
	return out
}
