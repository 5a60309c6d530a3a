package importing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-pipeline/internal/domain"
)

// ResolveStats resume o estágio de resolução de identidade
type ResolveStats struct {
	Resolved int
	Created  int
	Skipped  map[domain.SkipReason]int
}

// Resolver mapeia (nome do projeto, moeda) para o ID estável do projeto
type Resolver struct {
	repo          ProjectRepository
	policy        ResolutionPolicy
	defaultStatus domain.ProjectStatus
	cache         map[domain.ProjectKey]string
	notFound      map[domain.ProjectKey]struct{}
}

func NewResolver(repo ProjectRepository, opts Options) *Resolver {
	return &Resolver{
		repo:          repo,
		policy:        opts.Resolution,
		defaultStatus: opts.DefaultProjectStatus,
		cache:         make(map[domain.ProjectKey]string),
		notFound:      make(map[domain.ProjectKey]struct{}),
	}
}

// Resolve devolve o ID do projeto. ErrBlankIdentity e ErrProjectNotFound são
// falhas por linha; qualquer outro erro vem do armazenamento.
func (r *Resolver) Resolve(ctx context.Context, key domain.ProjectKey) (string, bool, error) {
	if isBlankIdentity(key.Name) || isBlankIdentity(key.Currency) {
		return "", false, ErrBlankIdentity
	}

	if id, ok := r.cache[key]; ok {
		return id, false, nil
	}
	if _, ok := r.notFound[key]; ok {
		return "", false, fmt.Errorf("%w: %s", ErrProjectNotFound, key)
	}

	project, err := r.repo.FindByKey(ctx, key)
	if err != nil {
		return "", false, fmt.Errorf("erro ao buscar projeto %s: %w", key, err)
	}
	if project != nil {
		r.cache[key] = project.ID
		return project.ID, false, nil
	}

	if r.policy != ResolveCreating {
		r.notFound[key] = struct{}{}
		return "", false, fmt.Errorf("%w: %s", ErrProjectNotFound, key)
	}

	project = &domain.Project{
		ID:       uuid.NewString(),
		Name:     key.Name,
		Currency: key.Currency,
	}
	if r.defaultStatus != "" {
		status := r.defaultStatus
		project.Status = &status
	}

	if err := r.repo.Create(ctx, project); err != nil {
		return "", false, fmt.Errorf("erro ao criar projeto %s: %w", key, err)
	}

	logrus.WithFields(logrus.Fields{
		"project_id":   project.ID,
		"project_name": key.Name,
		"currency":     key.Currency,
	}).Info("Projeto criado durante a importação")

	r.cache[key] = project.ID
	return project.ID, true, nil
}

// ResolveAll resolve todos os fatos. Falhas de identidade descartam a linha
// de origem (contada uma única vez); erros do armazenamento interrompem.
func (r *Resolver) ResolveAll(ctx context.Context, rows []domain.RawFactRow) ([]domain.ResolvedFact, ResolveStats, error) {
	stats := ResolveStats{Skipped: make(map[domain.SkipReason]int)}
	skippedRows := make(map[int]struct{})
	resolved := make([]domain.ResolvedFact, 0, len(rows))

	for _, row := range rows {
		if _, skipped := skippedRows[row.SourceRow]; skipped {
			continue
		}

		projectID, created, err := r.Resolve(ctx, row.ProjectKey())
		if err != nil {
			reason, perRow := skipReasonFor(err)
			if !perRow {
				return nil, stats, err
			}

			skippedRows[row.SourceRow] = struct{}{}
			stats.Skipped[reason]++
			logrus.WithError(err).WithFields(logrus.Fields{
				"project_name": row.ProjectName,
				"currency":     row.Currency,
				"source_row":   row.SourceRow,
			}).Warn("Linha ignorada: falha ao resolver projeto")
			continue
		}
		if created {
			stats.Created++
		}

		resolved = append(resolved, domain.ResolvedFact{
			ProjectID: projectID,
			Segment:   row.Segment,
			Month:     row.Month,
			Metric:    row.Metric,
			Value:     row.Value,
		})
	}

	stats.Resolved = len(resolved)
	logrus.WithFields(logrus.Fields{
		"resolved":         stats.Resolved,
		"created_projects": stats.Created,
		"skipped_rows":     len(skippedRows),
	}).Info("Projetos resolvidos")

	return resolved, stats, nil
}
