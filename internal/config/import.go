package config

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/sales-pipeline/internal/domain"
	"github.com/vfg2006/sales-pipeline/internal/usecases/importing"
)

// ImportOptions converte a configuração nas opções imutáveis do pipeline
func (c *Config) ImportOptions() (importing.Options, error) {
	cfg := c.Import
	opts := importing.DefaultOptions()

	schema, err := domain.SchemaByName(cfg.FactTable)
	if err != nil {
		return opts, err
	}
	opts.Schema = schema

	resolution, err := importing.ParseResolutionPolicy(cfg.ResolutionPolicy)
	if err != nil {
		return opts, err
	}
	opts.Resolution = resolution

	update, err := domain.ParseUpdatePolicy(cfg.UpdatePolicy)
	if err != nil {
		return opts, err
	}
	opts.Update = update

	// vazio cria projetos sem status (NULL)
	opts.DefaultProjectStatus = ""
	if strings.TrimSpace(cfg.DefaultProjectStatus) != "" {
		status, err := domain.ParseProjectStatus(cfg.DefaultProjectStatus)
		if err != nil {
			return opts, err
		}
		opts.DefaultProjectStatus = status
	}

	maxAbs, err := decimal.NewFromString(cfg.MaxAbsValue)
	if err != nil {
		return opts, fmt.Errorf("invalid IMPORT_MAX_ABS_VALUE %q: %w", cfg.MaxAbsValue, err)
	}
	opts.MaxAbsValue = maxAbs

	opts.Columns = importing.InputColumns{
		Project:  cfg.ProjectColumn,
		Currency: cfg.CurrencyColumn,
		Metric:   cfg.MetricColumn,
	}
	if schema.Segmented() {
		opts.Columns.Segment = cfg.SegmentColumn
	}

	opts.SheetName = cfg.SheetName
	opts.MinValidYear = cfg.MinValidYear
	opts.DefaultCurrency = strings.ToUpper(strings.TrimSpace(cfg.DefaultCurrency))
	opts.DropZero = cfg.DropZeroRows
	opts.BatchSize = cfg.BatchSize
	opts.ClampColumns = normalizeList(cfg.ClampColumns)

	if err := opts.Validate(); err != nil {
		return opts, err
	}

	return opts, nil
}

// RetryPolicy devolve a política de reprocessamento de arquivos
func (c *Config) RetryPolicy() importing.RetryPolicy {
	return importing.RetryPolicy{
		Attempts: c.ImportSync.RetryAttempts,
		Delay:    c.ImportSync.RetryDelay,
	}
}

func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}
