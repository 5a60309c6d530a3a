package importing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-pipeline/internal/domain"
)

// ProjectStats resume o estágio de projeção
type ProjectStats struct {
	Input   int
	Output  int
	Skipped map[domain.SkipReason]int
}

// Projector volta os fatos longos para uma linha por (projeto, mês,
// segmento), com uma coluna por métrica do schema
type Projector struct {
	schema domain.FactSchema
	ids    map[domain.FactKey]string
	newID  func() string
}

func NewProjector(opts Options) *Projector {
	return &Projector{
		schema: opts.Schema,
		ids:    make(map[domain.FactKey]string),
		newID:  uuid.NewString,
	}
}

// Project monta os registros. Métricas ausentes ficam em zero e chaves
// repetidas são somadas. O ID gerado para uma chave é reaproveitado em
// chamadas seguintes do mesmo Projector.
func (p *Projector) Project(facts []domain.ResolvedFact) ([]domain.FactRecord, ProjectStats) {
	stats := ProjectStats{Input: len(facts), Skipped: make(map[domain.SkipReason]int)}

	records := make(map[domain.FactKey]*domain.FactRecord)
	order := make([]domain.FactKey, 0)
	unknown := make(map[string]int)

	for _, f := range facts {
		metric, ok := p.schema.MetricFor(f.Metric)
		if !ok {
			unknown[f.Metric]++
			stats.Skipped[domain.SkipUnknownMetric]++
			continue
		}

		segment := ""
		if p.schema.Segmented() {
			segment = f.Segment
		}

		record := domain.FactRecord{
			ProjectID: f.ProjectID,
			Month:     domain.MonthStart(f.Month),
			Segment:   segment,
		}
		key := record.Key()

		existing, ok := records[key]
		if !ok {
			record.ID = p.idFor(key)
			record.Values = p.zeroValues()
			records[key] = &record
			order = append(order, key)
			existing = &record
		}

		existing.Values[metric.Column] = existing.Values[metric.Column].Add(f.Value)
	}

	for selector, n := range unknown {
		logrus.WithFields(logrus.Fields{
			"metric": selector,
			"facts":  n,
			"table":  p.schema.Table,
		}).Warn("Métrica desconhecida ignorada")
	}

	out := make([]domain.FactRecord, 0, len(order))
	for _, key := range order {
		out = append(out, *records[key])
	}

	stats.Output = len(out)
	logrus.WithFields(logrus.Fields{
		"input":  stats.Input,
		"output": stats.Output,
		"table":  p.schema.Table,
	}).Info("Fatos projetados para o formato da tabela")

	return out, stats
}

func (p *Projector) idFor(key domain.FactKey) string {
	if id, ok := p.ids[key]; ok {
		return id
	}
	id := p.newID()
	p.ids[key] = id
	return id
}

func (p *Projector) zeroValues() map[string]decimal.Decimal {
	values := make(map[string]decimal.Decimal, len(p.schema.Metrics))
	for _, m := range p.schema.Metrics {
		values[m.Column] = decimal.Zero
	}
	return values
}
