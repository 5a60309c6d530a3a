package importing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-pipeline/internal/domain"
	"github.com/vfg2006/sales-pipeline/internal/tabular"
)

// DateColumn é um cabeçalho reconhecido como mês
type DateColumn struct {
	Header string    `json:"header"`
	Month  time.Time `json:"month"`
}

// ReshapeStats resume o estágio de reshaping
type ReshapeStats struct {
	Rows    int
	Cells   int
	Skipped map[domain.SkipReason]int
}

func (s *ReshapeStats) skip(reason domain.SkipReason) {
	if s.Skipped == nil {
		s.Skipped = make(map[domain.SkipReason]int)
	}
	s.Skipped[reason]++
}

// Reshaper converte a tabela larga (uma coluna por mês) em fatos longos
type Reshaper struct {
	opts       Options
	recognizer *DateRecognizer
}

func NewReshaper(opts Options, recognizer *DateRecognizer) *Reshaper {
	return &Reshaper{opts: opts, recognizer: recognizer}
}

// DetectDateColumns devolve, na ordem da planilha, as colunas que são meses
func (r *Reshaper) DetectDateColumns(t *tabular.Table) ([]DateColumn, error) {
	metadata := r.opts.metadataColumns()

	var dateColumns []DateColumn
	for _, header := range t.ColumnNames() {
		if _, skip := metadata[header]; skip {
			continue
		}
		if m, ok := r.recognizer.Recognize(header); ok {
			dateColumns = append(dateColumns, DateColumn{Header: header, Month: m})
			logrus.WithFields(logrus.Fields{
				"header": header,
				"month":  m.Format(time.DateOnly),
			}).Debug("Coluna de data detectada")
		}
	}

	if len(dateColumns) == 0 {
		return nil, ErrNoDateColumns
	}

	logrus.WithField("date_columns", len(dateColumns)).Info("Colunas de data detectadas")
	return dateColumns, nil
}

func (r *Reshaper) requiredColumns() []string {
	cols := []string{r.opts.Columns.Project, r.opts.Columns.Metric}
	if r.opts.Schema.Segmented() {
		cols = append(cols, r.opts.Columns.Segment)
	}
	return cols
}

// Melt gera uma linha por (linha de identidade × coluna de data). Células
// nulas viram zero; células que não são números são descartadas e contadas.
func (r *Reshaper) Melt(t *tabular.Table, dateColumns []DateColumn) ([]domain.RawFactRow, ReshapeStats, error) {
	stats := ReshapeStats{}

	if missing := t.MissingColumns(r.requiredColumns()...); len(missing) > 0 {
		return nil, stats, fmt.Errorf("%w: %v", ErrMissingColumns, missing)
	}
	if len(dateColumns) == 0 {
		return nil, stats, ErrNoDateColumns
	}

	cols := r.opts.Columns
	facts := make([]domain.RawFactRow, 0, t.Len()*len(dateColumns))

	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		stats.Rows++

		projectName := row.String(cols.Project)
		if isBlankIdentity(projectName) {
			logrus.WithField("row", row.Map()).Warn("Linha ignorada: projeto inválido")
			stats.skip(domain.SkipBlankIdentity)
			continue
		}

		currency := ""
		if cols.Currency != "" {
			currency = row.String(cols.Currency)
		}
		if isBlankIdentity(currency) {
			currency = r.opts.DefaultCurrency
		}

		segment := ""
		if r.opts.Schema.Segmented() {
			segment = row.String(cols.Segment)
			if isBlankIdentity(segment) {
				logrus.WithField("row", row.Map()).Warn("Linha ignorada: segmento ausente")
				stats.skip(domain.SkipMissingField)
				continue
			}
		}

		selector := strings.ToLower(row.String(cols.Metric))
		if isBlankIdentity(selector) {
			logrus.WithField("row", row.Map()).Warn("Linha ignorada: métrica ausente")
			stats.skip(domain.SkipMissingField)
			continue
		}

		// apelidos ("gs", "sales_gs") viram a coluna do schema antes da agregação
		column, ok := r.opts.Schema.MetricFor(selector)
		if !ok {
			logrus.WithFields(logrus.Fields{
				"metric": selector,
				"table":  r.opts.Schema.Table,
			}).Warn("Linha ignorada: métrica desconhecida")
			stats.skip(domain.SkipUnknownMetric)
			continue
		}
		metric := column.Column

		for _, dc := range dateColumns {
			cell, _ := row.Value(dc.Header)
			value, err := r.coerce(cell)
			if err != nil {
				logrus.WithError(err).WithFields(logrus.Fields{
					"project": projectName,
					"column":  dc.Header,
				}).Warn("Célula ignorada: valor numérico inválido")
				stats.skip(domain.SkipInvalidValue)
				continue
			}

			facts = append(facts, domain.RawFactRow{
				ProjectName: projectName,
				Currency:    currency,
				Segment:     segment,
				Metric:      metric,
				Month:       dc.Month,
				Value:       value,
				SourceRow:   row.Position(),
			})
			stats.Cells++
		}
	}

	logrus.WithFields(logrus.Fields{
		"rows":  stats.Rows,
		"cells": stats.Cells,
	}).Info("Tabela convertida para formato longo")

	return facts, stats, nil
}

// coerce converte a célula em número. Nulo é zero; magnitudes fora do
// domínio aceitável são limitadas a ±MaxAbsValue.
func (r *Reshaper) coerce(cell any) (decimal.Decimal, error) {
	switch v := cell.(type) {
	case nil:
		return decimal.Zero, nil
	case decimal.Decimal:
		return r.clamp(v), nil
	case string:
		return r.coerceString(v)
	default:
		return r.coerceString(fmt.Sprint(v))
	}
}

func (r *Reshaper) coerceString(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if isNullToken(s) {
		return decimal.Zero, nil
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	s = strings.NewReplacer(",", "", " ", "", "\u00a0", "").Replace(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		switch {
		case ferr == nil && math.IsNaN(f):
			return decimal.Zero, nil
		case math.IsInf(f, 0):
			d = r.opts.MaxAbsValue
			if f < 0 {
				d = d.Neg()
			}
		default:
			return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidValue, raw)
		}
	}

	if negative {
		d = d.Neg()
	}
	return r.clamp(d), nil
}

func (r *Reshaper) clamp(d decimal.Decimal) decimal.Decimal {
	limit := r.opts.MaxAbsValue
	if d.Abs().GreaterThan(limit) {
		if d.IsNegative() {
			return limit.Neg()
		}
		return limit
	}
	return d
}

func isNullToken(s string) bool {
	switch strings.ToLower(s) {
	case "", "none", "nan", "null", "nil", "n/a":
		return true
	}
	return false
}

// isBlankIdentity cobre vazios e sentinelas como "None" vindos da planilha
func isBlankIdentity(s string) bool {
	return isNullToken(strings.TrimSpace(s))
}
