package importing

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-pipeline/internal/domain"
)

// DateParser interpreta um texto livre como data
type DateParser func(value string) (time.Time, error)

// ErrNumericHeader indica um cabeçalho só com dígitos que não é yyyymmdd
var ErrNumericHeader = errors.New("numeric header is not a date")

// FreeFormParser é a primeira camada: parser permissivo, mês antes do dia.
// Cabeçalhos só com dígitos (códigos, SKUs, anos soltos, timestamps) são
// recusados, exceto o formato yyyymmdd.
func FreeFormParser(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if isAllDigits(value) && len(value) != len("20060102") {
		return time.Time{}, fmt.Errorf("%w: %q", ErrNumericHeader, value)
	}
	return dateparse.ParseIn(value, time.UTC)
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// DefaultDateLayouts são tentados em ordem quando o parser livre falha
var DefaultDateLayouts = []string{
	"1/2/06",       // MM/DD/YY
	"1/2/2006",     // MM/DD/YYYY
	"2-1-2006",     // DD-MM-YYYY
	"2006-1-2",     // YYYY-MM-DD
	"1-2-2006",     // MM-DD-YYYY
	"2/1/2006",     // DD/MM/YYYY
	"Jan 2 2006",   // Mon DD YYYY
	"Jan 2006",     // Mon YYYY
	"January 2006", // Month YYYY
}

// DateRecognizer decide se um cabeçalho de coluna é um mês do calendário
type DateRecognizer struct {
	parser       DateParser
	layouts      []string
	minValidYear int
}

// NewDateRecognizer cria o reconhecedor; parser nil desliga a camada livre
func NewDateRecognizer(minValidYear int, parser DateParser, layouts ...string) *DateRecognizer {
	if len(layouts) == 0 {
		layouts = DefaultDateLayouts
	}
	return &DateRecognizer{
		parser:       parser,
		layouts:      layouts,
		minValidYear: minValidYear,
	}
}

// Recognize devolve o primeiro dia do mês do cabeçalho. O dia de origem é
// descartado: só a granularidade mensal é usada adiante.
func (r *DateRecognizer) Recognize(header string) (time.Time, bool) {
	value := strings.TrimSpace(header)
	if value == "" {
		return time.Time{}, false
	}

	parsed, ok := r.parse(value)
	if !ok {
		return time.Time{}, false
	}

	if parsed.Year() < r.minValidYear {
		logrus.WithFields(logrus.Fields{
			"header":         header,
			"year":           parsed.Year(),
			"min_valid_year": r.minValidYear,
		}).Debug("Cabeçalho ignorado: ano abaixo do mínimo")
		return time.Time{}, false
	}

	return domain.MonthStart(parsed), true
}

func (r *DateRecognizer) parse(value string) (time.Time, bool) {
	if r.parser != nil {
		if t, err := safeParse(r.parser, value); err == nil {
			return t, true
		}
	}

	for _, layout := range r.layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// safeParse protege o pipeline de pânicos do parser livre em entradas estranhas
func safeParse(parser DateParser, value string) (t time.Time, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("date parser panic on %q: %v", value, rec)
		}
	}()
	return parser(value)
}
