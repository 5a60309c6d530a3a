package importing

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-pipeline/internal/domain"
)

// AggregateStats resume o estágio de agregação
type AggregateStats struct {
	Input   int
	Output  int
	Clamped int
	Dropped int
}

type aggregateKey struct {
	projectID string
	month     time.Time
	segment   string
	metric    string
}

// Aggregator soma fatos duplicados e aplica o piso de zero depois da soma,
// para que correções negativas ainda compensem valores positivos
type Aggregator struct {
	schema       domain.FactSchema
	clampAll     bool
	clampMetrics map[string]struct{}
	dropZero     bool
}

func NewAggregator(opts Options) *Aggregator {
	a := &Aggregator{
		schema:       opts.Schema,
		clampMetrics: make(map[string]struct{}),
		dropZero:     opts.DropZero,
	}
	for _, col := range opts.ClampColumns {
		if col == ClampAllValues {
			a.clampAll = true
			continue
		}
		a.clampMetrics[col] = struct{}{}
	}
	return a
}

// Aggregate agrupa por (projeto, mês, segmento, métrica). A saída é ordenada
// e reaplicar a agregação sobre ela não muda nada.
func (a *Aggregator) Aggregate(facts []domain.ResolvedFact) ([]domain.ResolvedFact, AggregateStats) {
	stats := AggregateStats{Input: len(facts)}

	sums := make(map[aggregateKey]decimal.Decimal, len(facts))
	order := make([]aggregateKey, 0, len(facts))
	for _, f := range facts {
		key := aggregateKey{projectID: f.ProjectID, month: f.Month, segment: f.Segment, metric: a.canonical(f.Metric)}
		if current, ok := sums[key]; ok {
			sums[key] = current.Add(f.Value)
			continue
		}
		sums[key] = f.Value
		order = append(order, key)
	}

	sort.Slice(order, func(i, j int) bool {
		return lessAggregateKey(order[i], order[j])
	})

	out := make([]domain.ResolvedFact, 0, len(order))
	for _, key := range order {
		value := sums[key]

		if value.IsNegative() && a.shouldClamp(key.metric) {
			value = decimal.Zero
			stats.Clamped++
		}
		if a.dropZero && value.IsZero() {
			stats.Dropped++
			continue
		}

		out = append(out, domain.ResolvedFact{
			ProjectID: key.projectID,
			Segment:   key.segment,
			Month:     key.month,
			Metric:    key.metric,
			Value:     value,
		})
	}

	stats.Output = len(out)
	logrus.WithFields(logrus.Fields{
		"input":   stats.Input,
		"output":  stats.Output,
		"clamped": stats.Clamped,
		"dropped": stats.Dropped,
	}).Info("Fatos agregados")

	return out, stats
}

// canonical devolve a coluna do schema para o seletor; seletores
// desconhecidos seguem como vieram e são descartados na projeção
func (a *Aggregator) canonical(metric string) string {
	if m, ok := a.schema.MetricFor(metric); ok {
		return m.Column
	}
	return metric
}

func (a *Aggregator) shouldClamp(metric string) bool {
	if a.clampAll {
		return true
	}
	_, ok := a.clampMetrics[metric]
	return ok
}

func lessAggregateKey(x, y aggregateKey) bool {
	if x.projectID != y.projectID {
		return x.projectID < y.projectID
	}
	if !x.month.Equal(y.month) {
		return x.month.Before(y.month)
	}
	if x.segment != y.segment {
		return x.segment < y.segment
	}
	return x.metric < y.metric
}
