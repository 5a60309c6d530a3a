package importing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/sales-pipeline/internal/domain"
)

// ResolutionPolicy define o que fazer quando o projeto de uma linha não existe
type ResolutionPolicy string

const (
	// ResolveStrict descarta a linha
	ResolveStrict ResolutionPolicy = "strict"
	// ResolveCreating cria o projeto com o status padrão
	ResolveCreating ResolutionPolicy = "creating"
)

func ParseResolutionPolicy(raw string) (ResolutionPolicy, error) {
	switch p := ResolutionPolicy(strings.ToLower(strings.TrimSpace(raw))); p {
	case ResolveStrict, ResolveCreating:
		return p, nil
	}
	return "", fmt.Errorf("invalid resolution policy %q", raw)
}

// ClampAllValues designa a coluna genérica de valor antes do pivot final
const ClampAllValues = "value"

// InputColumns nomeia as colunas de identidade/metadados da planilha
type InputColumns struct {
	Project  string
	Currency string
	Segment  string
	Metric   string
}

func (c InputColumns) names() []string {
	return []string{c.Project, c.Currency, c.Segment, c.Metric}
}

// Options é a configuração imutável passada a cada estágio
type Options struct {
	Schema               domain.FactSchema
	Columns              InputColumns
	SheetName            string
	MinValidYear         int
	DefaultCurrency      string
	Resolution           ResolutionPolicy
	Update               domain.UpdatePolicy
	DefaultProjectStatus domain.ProjectStatus
	ClampColumns         []string
	DropZero             bool
	BatchSize            int
	MaxAbsValue          decimal.Decimal
}

// DefaultOptions reproduz o contrato da planilha de vendas
func DefaultOptions() Options {
	return Options{
		Schema: domain.SalesSchema,
		Columns: InputColumns{
			Project:  "project_name",
			Currency: "currency",
			Segment:  "segment",
			Metric:   "parameter",
		},
		SheetName:            "Sheet1",
		MinValidYear:         2000,
		DefaultCurrency:      "USD",
		Resolution:           ResolveStrict,
		Update:               domain.UpdateOverwrite,
		DefaultProjectStatus: domain.ProjectStatusNew,
		ClampColumns:         []string{ClampAllValues},
		BatchSize:            500,
		MaxAbsValue:          decimal.New(1, 15),
	}
}

// Validate garante que as opções são consistentes antes de montar o pipeline
func (o Options) Validate() error {
	var problems []string

	if o.Schema.Table == "" || len(o.Schema.Metrics) == 0 {
		problems = append(problems, "schema without table or metrics")
	}
	if o.Columns.Project == "" || o.Columns.Metric == "" {
		problems = append(problems, "project and metric columns are required")
	}
	if o.Schema.Segmented() && o.Columns.Segment == "" {
		problems = append(problems, "segmented schema requires a segment column")
	}
	if o.DefaultCurrency == "" {
		problems = append(problems, "default currency is required")
	}
	if o.BatchSize <= 0 {
		problems = append(problems, "batch size must be positive")
	}
	if _, err := ParseResolutionPolicy(string(o.Resolution)); err != nil {
		problems = append(problems, err.Error())
	}
	if _, err := domain.ParseUpdatePolicy(string(o.Update)); err != nil {
		problems = append(problems, err.Error())
	}
	if o.Resolution == ResolveCreating && o.DefaultProjectStatus != "" && !o.DefaultProjectStatus.Valid() {
		problems = append(problems, fmt.Sprintf("invalid default project status %q", o.DefaultProjectStatus))
	}
	if !o.MaxAbsValue.IsPositive() {
		problems = append(problems, "max absolute value must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidOptions, strings.Join(problems, "; "))
	}
	return nil
}

// metadataColumns são as colunas nunca consideradas como datas
func (o Options) metadataColumns() map[string]struct{} {
	out := make(map[string]struct{}, 4)
	for _, name := range o.Columns.names() {
		if name != "" {
			out[name] = struct{}{}
		}
	}
	return out
}
