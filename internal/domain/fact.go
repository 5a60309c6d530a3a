package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	ColumnProjectID        = "project_id"
	ColumnDateOfMonthBegin = "date_of_month_begin"
	ColumnSegment          = "segment"
)

// MetricColumn liga uma coluna numérica da tabela de fatos aos seletores
// que podem aparecer na coluna de métrica da planilha
type MetricColumn struct {
	Column    string
	Selectors []string
	Integer   bool
}

// FactSchema descreve uma tabela de fatos mensais e a sua chave única
type FactSchema struct {
	Name          string
	Table         string
	DateColumn    string
	SegmentColumn string
	Metrics       []MetricColumn
}

// Segmented indica se o segmento faz parte da chave única
func (s FactSchema) Segmented() bool {
	return s.SegmentColumn != ""
}

// UniqueKey é o alvo de conflito do upsert, na ordem do índice único
func (s FactSchema) UniqueKey() []string {
	key := []string{ColumnProjectID, s.DateColumn}
	if s.Segmented() {
		key = append(key, s.SegmentColumn)
	}
	return key
}

func (s FactSchema) MetricColumns() []string {
	cols := make([]string, len(s.Metrics))
	for i, m := range s.Metrics {
		cols[i] = m.Column
	}
	return cols
}

// MetricFor resolve um seletor já em caixa baixa para a coluna de métrica.
// Tenta o nome da coluna, depois os apelidos e por fim o sufixo após o
// primeiro "_" (ex.: "sales_gs" → "gs").
func (s FactSchema) MetricFor(selector string) (MetricColumn, bool) {
	selector = strings.ToLower(strings.TrimSpace(selector))
	if selector == "" {
		return MetricColumn{}, false
	}

	if m, ok := s.lookupMetric(selector); ok {
		return m, true
	}

	if _, suffix, found := strings.Cut(selector, "_"); found && suffix != "" {
		return s.lookupMetric(suffix)
	}

	return MetricColumn{}, false
}

func (s FactSchema) lookupMetric(selector string) (MetricColumn, bool) {
	for _, m := range s.Metrics {
		if m.Column == selector {
			return m, true
		}
		for _, alias := range m.Selectors {
			if alias == selector {
				return m, true
			}
		}
	}
	return MetricColumn{}, false
}

// FactKey é a chave natural de um fato mensal
type FactKey struct {
	ProjectID string
	Month     string // yyyy-mm-dd, sempre dia 1
	Segment   string
}

// FactRecord é uma linha no formato da tabela de fatos, pronta para o upsert
type FactRecord struct {
	ID        string
	ProjectID string
	Month     time.Time
	Segment   string
	Values    map[string]decimal.Decimal
}

func (r FactRecord) Key() FactKey {
	return FactKey{
		ProjectID: r.ProjectID,
		Month:     r.Month.Format(time.DateOnly),
		Segment:   r.Segment,
	}
}

// Value retorna o valor da métrica, zero se ausente
func (r FactRecord) Value(column string) decimal.Decimal {
	if v, ok := r.Values[column]; ok {
		return v
	}
	return decimal.Zero
}

// RawFactRow é uma tupla (identidade, mês, métrica, valor) produzida pelo
// reshaping. Existe apenas durante uma execução.
type RawFactRow struct {
	ProjectName string
	Currency    string
	Segment     string
	Metric      string
	Month       time.Time
	Value       decimal.Decimal
	SourceRow   int
}

func (r RawFactRow) ProjectKey() ProjectKey {
	return ProjectKey{Name: r.ProjectName, Currency: r.Currency}
}

// ResolvedFact é um RawFactRow com o projeto já resolvido para o seu ID
type ResolvedFact struct {
	ProjectID string
	Segment   string
	Month     time.Time
	Metric    string
	Value     decimal.Decimal
}

// MonthStart normaliza uma data para o primeiro dia do mês, em UTC
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// UpdatePolicy define o que acontece com as métricas de uma linha que já
// existe pela chave única
type UpdatePolicy string

const (
	// UpdateOverwrite substitui as métricas: cada importação recalcula o total do mês
	UpdateOverwrite UpdatePolicy = "overwrite"
	// UpdateSum soma as métricas novas às existentes
	UpdateSum UpdatePolicy = "sum"
	// UpdateKeep não altera linhas existentes (usado pelo esqueleto zerado)
	UpdateKeep UpdatePolicy = "keep"
)

func ParseUpdatePolicy(raw string) (UpdatePolicy, error) {
	switch p := UpdatePolicy(strings.ToLower(strings.TrimSpace(raw))); p {
	case UpdateOverwrite, UpdateSum, UpdateKeep:
		return p, nil
	}
	return "", fmt.Errorf("invalid update policy %q", raw)
}

// UpsertResult conta o efeito de um upsert em lote
type UpsertResult struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
}

func (r *UpsertResult) Add(other UpsertResult) {
	r.Inserted += other.Inserted
	r.Updated += other.Updated
}
