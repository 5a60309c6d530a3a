package seeding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-pipeline/internal/domain"
	"github.com/vfg2006/sales-pipeline/pkg/utils"
)

var (
	ErrNoProjects      = errors.New("no projects found")
	ErrInvalidTimeline = errors.New("invalid timeline")
)

// Timeline delimita o esqueleto mensal
type Timeline struct {
	StartYear int
	EndYear   int
	Segments  []string
}

// Months inclui o mês anterior ao início, que recebe os valores iniciais
func (t Timeline) Months() []time.Time {
	start := time.Date(t.StartYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(t.EndYear, time.December, 1, 0, 0, 0, 0, time.UTC)
	return append([]time.Time{utils.PreviousMonth(start)}, utils.MonthsBetween(start, end)...)
}

func (t Timeline) validate() error {
	if t.StartYear <= 0 || t.EndYear < t.StartYear {
		return fmt.Errorf("%w: %d..%d", ErrInvalidTimeline, t.StartYear, t.EndYear)
	}
	if len(t.Segments) == 0 {
		return fmt.Errorf("%w: no segments", ErrInvalidTimeline)
	}
	return nil
}

// Report resume uma execução do seed
type Report struct {
	Projects int                            `json:"projects"`
	Tables   map[string]domain.UpsertResult `json:"tables"`
}

type Service struct {
	projects ProjectStore
	facts    FactWriter
	schemas  []domain.FactSchema
}

// NewService recebe um FactWriter configurado para não sobrescrever linhas
// existentes
func NewService(projects ProjectStore, facts FactWriter, schemas ...domain.FactSchema) *Service {
	if len(schemas) == 0 {
		schemas = domain.FactSchemas()
	}
	return &Service{
		projects: projects,
		facts:    facts,
		schemas:  schemas,
	}
}

// SeedProjects cria os projetos que faltam e corrige o status dos existentes.
// A chave natural (nome, moeda) nunca é alterada.
func (s *Service) SeedProjects(ctx context.Context, seeds []ProjectSeed, currencies ...string) (int, error) {
	if len(currencies) == 0 {
		currencies = []string{"USD"}
	}

	processed := 0
	for _, seed := range seeds {
		for _, currency := range currencies {
			status := seed.Status
			project := &domain.Project{
				ID:       uuid.NewString(),
				Name:     seed.Name,
				Currency: currency,
				Status:   &status,
			}
			if err := s.projects.Upsert(ctx, project); err != nil {
				return processed, fmt.Errorf("erro ao gravar projeto %s: %w", project.Key(), err)
			}
			processed++
		}
	}

	logrus.WithField("projects", processed).Info("Projetos inicializados")
	return processed, nil
}

// SeedTimeline grava linhas zeradas para cada projeto, mês e segmento sem
// tocar em linhas já existentes
func (s *Service) SeedTimeline(ctx context.Context, timeline Timeline) (*Report, error) {
	if err := timeline.validate(); err != nil {
		return nil, err
	}

	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar projetos: %w", err)
	}
	if len(projects) == 0 {
		return nil, ErrNoProjects
	}

	months := timeline.Months()
	report := &Report{
		Projects: len(projects),
		Tables:   make(map[string]domain.UpsertResult, len(s.schemas)),
	}

	for _, schema := range s.schemas {
		records := skeleton(schema, projects, months, timeline.Segments)

		stats, err := s.facts.Upsert(ctx, schema, records)
		if err != nil {
			return report, fmt.Errorf("erro ao gravar esqueleto de %s: %w", schema.Table, err)
		}
		report.Tables[schema.Table] = stats.UpsertResult

		logrus.WithFields(logrus.Fields{
			"table":    schema.Table,
			"records":  len(records),
			"inserted": stats.Inserted,
		}).Info("Esqueleto gravado")
	}

	return report, nil
}

func skeleton(schema domain.FactSchema, projects []*domain.Project, months []time.Time, segments []string) []domain.FactRecord {
	keys := []string{""}
	if schema.Segmented() {
		keys = segments
	}

	records := make([]domain.FactRecord, 0, len(projects)*len(months)*len(keys))
	for _, project := range projects {
		for _, month := range months {
			for _, segment := range keys {
				records = append(records, domain.FactRecord{
					ID:        uuid.NewString(),
					ProjectID: project.ID,
					Month:     month,
					Segment:   segment,
				})
			}
		}
	}
	return records
}
