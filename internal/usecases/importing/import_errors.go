package importing

import (
	"errors"
	"fmt"

	"github.com/vfg2006/sales-pipeline/internal/domain"
)

// Erros estruturais: fatais para a execução do arquivo
var (
	ErrMissingColumns = errors.New("missing required columns")
	ErrNoDateColumns  = errors.New("no date columns detected")
	ErrEmptyInput     = errors.New("empty input after filtering")
	ErrNoValidRows    = errors.New("no valid rows reached the aggregator")
	ErrTablesMissing  = errors.New("required tables are not available")
	ErrInvalidOptions = errors.New("invalid import options")
)

// Erros por linha: a linha é descartada e contada, a execução continua
var (
	ErrBlankIdentity   = errors.New("blank project identity")
	ErrProjectNotFound = errors.New("project not found")
	ErrInvalidValue    = errors.New("invalid numeric value")
	ErrUnknownMetric   = errors.New("unknown metric selector")
	ErrMissingKey      = errors.New("missing unique key component")
)

// ImportError é a falha de uma execução, com o estágio e os contadores
// acumulados até o momento
type ImportError struct {
	Err      error
	File     string
	Stage    domain.ImportStage
	Counters domain.RunCounters
}

func (e *ImportError) Error() string {
	return fmt.Sprintf(
		"import of %s failed at %s (read=%d skipped=%d inserted=%d updated=%d): %v",
		e.File, e.Stage, e.Counters.RowsRead, e.Counters.RowsSkipped(), e.Counters.Inserted, e.Counters.Updated, e.Err,
	)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// IsStructural indica se o erro é um problema de formato do arquivo
func IsStructural(err error) bool {
	return errors.Is(err, ErrMissingColumns) ||
		errors.Is(err, ErrNoDateColumns) ||
		errors.Is(err, ErrEmptyInput) ||
		errors.Is(err, ErrNoValidRows)
}

// skipReasonFor classifica erros por linha; perRow falso significa que o erro
// deve ser propagado
func skipReasonFor(err error) (reason domain.SkipReason, perRow bool) {
	switch {
	case errors.Is(err, ErrBlankIdentity):
		return domain.SkipBlankIdentity, true
	case errors.Is(err, ErrProjectNotFound):
		return domain.SkipProjectNotFound, true
	case errors.Is(err, ErrInvalidValue):
		return domain.SkipInvalidValue, true
	case errors.Is(err, ErrUnknownMetric):
		return domain.SkipUnknownMetric, true
	case errors.Is(err, ErrMissingKey):
		return domain.SkipMissingKey, true
	}
	return "", false
}
