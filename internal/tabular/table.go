package tabular

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind identifica o tipo das células de uma coluna
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

var (
	ErrDuplicateColumn = errors.New("duplicate column")
	ErrUnknownColumn   = errors.New("unknown column")
	ErrRowWidth        = errors.New("row width does not match header")
	ErrCellKind        = errors.New("cell value does not match column kind")
)

// Column é uma coluna nomeada e tipada
type Column struct {
	Name string
	Kind Kind
}

// Table é a única abstração tabular usada pelo pipeline: colunas ordenadas,
// nomeadas e tipadas. Células nulas são representadas por nil.
// String guarda string, Number guarda decimal.Decimal e Date guarda time.Time.
type Table struct {
	columns []Column
	index   map[string]int
	rows    [][]any
}

// New cria uma tabela vazia com as colunas informadas
func New(columns ...Column) (*Table, error) {
	t := &Table{
		columns: make([]Column, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}

	for _, col := range columns {
		if _, exists := t.index[col.Name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, col.Name)
		}
		t.index[col.Name] = len(t.columns)
		t.columns = append(t.columns, col)
	}

	return t, nil
}

// StringColumns é um atalho para cabeçalhos de planilha, onde tudo chega como texto
func StringColumns(names ...string) []Column {
	cols := make([]Column, len(names))
	for i, name := range names {
		cols[i] = Column{Name: name, Kind: KindString}
	}
	return cols
}

func (t *Table) Columns() []Column {
	out := make([]Column, len(t.columns))
	copy(out, t.columns)
	return out
}

func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.Name
	}
	return names
}

func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// MissingColumns retorna, na ordem pedida, as colunas que não existem na tabela
func (t *Table) MissingColumns(names ...string) []string {
	var missing []string
	for _, name := range names {
		if !t.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

func (t *Table) Len() int {
	return len(t.rows)
}

// AppendRow adiciona uma linha validando largura e tipos
func (t *Table) AppendRow(values ...any) error {
	if len(values) != len(t.columns) {
		return fmt.Errorf("%w: got %d, want %d", ErrRowWidth, len(values), len(t.columns))
	}

	row := make([]any, len(values))
	for i, v := range values {
		if v != nil && !kindAccepts(t.columns[i].Kind, v) {
			return fmt.Errorf("%w: column %q (%s) got %T", ErrCellKind, t.columns[i].Name, t.columns[i].Kind, v)
		}
		row[i] = v
	}

	t.rows = append(t.rows, row)
	return nil
}

func kindAccepts(k Kind, v any) bool {
	switch k {
	case KindString:
		_, ok := v.(string)
		return ok
	case KindNumber:
		_, ok := v.(decimal.Decimal)
		return ok
	case KindDate:
		_, ok := v.(time.Time)
		return ok
	}
	return false
}

// Row devolve uma visão somente leitura da i-ésima linha
func (t *Table) Row(i int) Row {
	return Row{table: t, cells: t.rows[i], pos: i}
}

// Filter retorna uma nova tabela com as linhas aceitas por keep
func (t *Table) Filter(keep func(Row) bool) *Table {
	out := &Table{columns: t.columns, index: t.index}
	for i := range t.rows {
		if keep(t.Row(i)) {
			out.rows = append(out.rows, t.rows[i])
		}
	}
	return out
}

// DropEmptyRows remove linhas em que todas as células são nulas ou texto em branco
func (t *Table) DropEmptyRows() *Table {
	return t.Filter(func(r Row) bool { return !r.IsEmpty() })
}

// Row é uma linha de uma Table
type Row struct {
	table *Table
	cells []any
	pos   int
}

// Position é o índice da linha na tabela de origem
func (r Row) Position() int {
	return r.pos
}

// Value retorna a célula crua da coluna; ok é falso se a coluna não existe
func (r Row) Value(column string) (any, bool) {
	i, ok := r.table.index[column]
	if !ok {
		return nil, false
	}
	return r.cells[i], true
}

// String retorna a célula como texto sem espaços nas pontas; nulo vira ""
func (r Row) String(column string) string {
	v, _ := r.Value(column)
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case decimal.Decimal:
		return val.String()
	case time.Time:
		return val.Format(time.DateOnly)
	default:
		return fmt.Sprint(val)
	}
}

func (r Row) IsEmpty() bool {
	for _, cell := range r.cells {
		switch v := cell.(type) {
		case nil:
			continue
		case string:
			if strings.TrimSpace(v) != "" {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// Map devolve a linha como mapa coluna → valor, útil para logs de diagnóstico
func (r Row) Map() map[string]any {
	out := make(map[string]any, len(r.cells))
	for i, col := range r.table.columns {
		out[col.Name] = r.cells[i]
	}
	return out
}
