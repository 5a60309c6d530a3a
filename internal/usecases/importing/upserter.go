package importing

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-pipeline/internal/domain"
)

// UpsertStats resume o estágio de gravação
type UpsertStats struct {
	domain.UpsertResult
	Skipped int
	Chunks  int
}

// Upserter grava registros pela chave única em lotes atômicos
type Upserter struct {
	repo      FactRepository
	batchSize int
	policy    domain.UpdatePolicy
}

func NewUpserter(repo FactRepository, opts Options) *Upserter {
	return &Upserter{
		repo:      repo,
		batchSize: opts.BatchSize,
		policy:    opts.Update,
	}
}

// WithPolicy devolve uma cópia com outra política de atualização
func (u *Upserter) WithPolicy(policy domain.UpdatePolicy) *Upserter {
	cp := *u
	cp.policy = policy
	return &cp
}

// Upsert valida os registros, descarta os que não têm chave completa e grava
// o resto em lotes de batchSize. Cada lote é confirmado ou desfeito inteiro;
// a falha de um lote interrompe a gravação, mantendo os lotes anteriores.
func (u *Upserter) Upsert(ctx context.Context, schema domain.FactSchema, records []domain.FactRecord) (UpsertStats, error) {
	stats := UpsertStats{}

	valid := make([]domain.FactRecord, 0, len(records))
	for _, rec := range records {
		if err := validateRecord(schema, rec); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"project_id": rec.ProjectID,
				"month":      rec.Month,
				"segment":    rec.Segment,
			}).Warn("Registro ignorado antes do upsert")
			stats.Skipped++
			continue
		}
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		valid = append(valid, rec)
	}

	for start := 0; start < len(valid); start += u.batchSize {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		end := min(start+u.batchSize, len(valid))
		chunk := valid[start:end]

		result, err := u.repo.UpsertBatch(ctx, schema, chunk, u.policy)
		if err != nil {
			return stats, fmt.Errorf("erro ao gravar lote %d-%d em %s: %w", start, end, schema.Table, err)
		}

		stats.Add(result)
		stats.Chunks++

		logrus.WithFields(logrus.Fields{
			"table":    schema.Table,
			"chunk":    stats.Chunks,
			"rows":     len(chunk),
			"inserted": result.Inserted,
			"updated":  result.Updated,
		}).Debug("Lote gravado")
	}

	logrus.WithFields(logrus.Fields{
		"table":    schema.Table,
		"policy":   u.policy,
		"inserted": stats.Inserted,
		"updated":  stats.Updated,
		"skipped":  stats.Skipped,
		"chunks":   stats.Chunks,
	}).Info("Upsert concluído")

	return stats, nil
}

func validateRecord(schema domain.FactSchema, rec domain.FactRecord) error {
	var missing []string
	if strings.TrimSpace(rec.ProjectID) == "" {
		missing = append(missing, domain.ColumnProjectID)
	}
	if rec.Month.IsZero() {
		missing = append(missing, schema.DateColumn)
	}
	if schema.Segmented() && strings.TrimSpace(rec.Segment) == "" {
		missing = append(missing, schema.SegmentColumn)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrMissingKey, missing)
	}
	return nil
}
