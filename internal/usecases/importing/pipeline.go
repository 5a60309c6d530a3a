package importing

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/vfg2006/sales-pipeline/internal/domain"
	"github.com/vfg2006/sales-pipeline/pkg/log"
	"github.com/vfg2006/sales-pipeline/pkg/utils"
)

// Pipeline executa os seis estágios sobre um arquivo
type Pipeline struct {
	reader   SheetReader
	projects ProjectRepository
	upserter *Upserter
	reshaper *Reshaper
	opts     Options
	now      func() time.Time
}

func NewPipeline(reader SheetReader, projects ProjectRepository, facts FactRepository, opts Options) (*Pipeline, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	recognizer := NewDateRecognizer(opts.MinValidYear, FreeFormParser)

	return &Pipeline{
		reader:   reader,
		projects: projects,
		upserter: NewUpserter(facts, opts),
		reshaper: NewReshaper(opts, recognizer),
		opts:     opts,
		now:      time.Now,
	}, nil
}

func (p *Pipeline) Options() Options {
	return p.opts
}

// run guarda o estado de uma execução
type run struct {
	report *domain.RunReport
	now    func() time.Time
}

func (r *run) enter(stage domain.ImportStage) {
	r.report.Stage = stage
	r.report.Transitions = append(r.report.Transitions, domain.StageTransition{Stage: stage, At: r.now()})
}

func (r *run) fail(err error) *ImportError {
	failed := r.report.Stage
	r.report.FailedStage = failed
	r.report.Error = err.Error()
	r.enter(domain.StageFailed)
	r.report.FinishedAt = r.now()

	return &ImportError{
		Err:      err,
		File:     r.report.File,
		Stage:    failed,
		Counters: r.report.Counters,
	}
}

func (r *run) addSkips(skipped map[domain.SkipReason]int) {
	for reason, n := range skipped {
		r.report.Counters.Skip(reason, n)
	}
}

func newRunID() string {
	id, err := utils.GenerateID()
	if err != nil {
		return uuid.NewString()
	}
	return id
}

// Run importa um arquivo. Um run_id já presente no contexto é reaproveitado. O relatório é sempre devolvido; em caso de falha o
// erro é um *ImportError com o estágio e os contadores acumulados.
func (p *Pipeline) Run(ctx context.Context, path string) (*domain.RunReport, error) {
	runID := log.GetRunID(ctx)
	if runID == "" {
		runID = newRunID()
		ctx = log.WithRunID(ctx, runID)
	}
	logger := log.ForContext(ctx).WithField("file", filepath.Base(path))

	r := &run{
		now: p.now,
		report: &domain.RunReport{
			RunID:     runID,
			File:      path,
			FactTable: p.opts.Schema.Table,
			Stage:     domain.StageIdle,
			StartedAt: p.now(),
		},
	}

	if err := p.execute(ctx, r, logger); err != nil {
		importErr := r.fail(err)
		logger.WithError(err).WithFields(log.Fields{
			"stage":    importErr.Stage,
			"counters": r.report.Counters,
		}).Error("Importação falhou")
		return r.report, importErr
	}

	r.enter(domain.StageCompleted)
	r.report.FinishedAt = p.now()

	logger.WithFields(log.Fields{
		"rows_read": r.report.Counters.RowsRead,
		"inserted":  r.report.Counters.Inserted,
		"updated":   r.report.Counters.Updated,
		"skipped":   r.report.Counters.Skipped,
		"duration":  r.report.FinishedAt.Sub(r.report.StartedAt).String(),
	}).Info("Importação concluída")

	return r.report, nil
}

func (p *Pipeline) execute(ctx context.Context, r *run, logger log.Logger) error {
	counters := &r.report.Counters

	r.enter(domain.StageReading)
	table, err := p.reader.Read(ctx, r.report.File, p.opts.SheetName)
	if err != nil {
		return err
	}
	table = table.DropEmptyRows()
	counters.RowsRead = table.Len()
	if table.Len() == 0 {
		return ErrEmptyInput
	}
	logger.Infof("%d linhas lidas", table.Len())

	r.enter(domain.StageReshaping)
	dateColumns, err := p.reshaper.DetectDateColumns(table)
	if err != nil {
		return err
	}
	for _, dc := range dateColumns {
		r.report.DateColumns = append(r.report.DateColumns, dc.Header)
	}
	logger.WithField("date_columns", r.report.DateColumns).Info("Colunas de data detectadas")

	raw, reshapeStats, err := p.reshaper.Melt(table, dateColumns)
	if err != nil {
		return err
	}
	counters.CellsReshaped = reshapeStats.Cells
	r.addSkips(reshapeStats.Skipped)

	if err := ctx.Err(); err != nil {
		return err
	}

	r.enter(domain.StageResolving)
	resolver := NewResolver(p.projects, p.opts)
	resolved, resolveStats, err := resolver.ResolveAll(ctx, raw)
	if err != nil {
		return err
	}
	counters.Resolved = resolveStats.Resolved
	r.addSkips(resolveStats.Skipped)

	r.enter(domain.StageAggregating)
	if len(resolved) == 0 {
		return ErrNoValidRows
	}
	aggregated, aggregateStats := NewAggregator(p.opts).Aggregate(resolved)
	counters.Aggregated = aggregateStats.Output
	counters.Skip(domain.SkipZeroValue, aggregateStats.Dropped)

	r.enter(domain.StageProjecting)
	records, projectStats := NewProjector(p.opts).Project(aggregated)
	counters.Projected = projectStats.Output
	r.addSkips(projectStats.Skipped)

	r.enter(domain.StageUpserting)
	upsertStats, err := p.upserter.Upsert(ctx, p.opts.Schema, records)
	counters.Inserted = upsertStats.Inserted
	counters.Updated = upsertStats.Updated
	counters.Skip(domain.SkipMissingKey, upsertStats.Skipped)
	if err != nil {
		return err
	}

	return nil
}

// FailedStage extrai o estágio de um erro de importação
func FailedStage(err error) (domain.ImportStage, bool) {
	var importErr *ImportError
	if errors.As(err, &importErr) {
		return importErr.Stage, true
	}
	return "", false
}
