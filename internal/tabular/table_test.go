package tabular

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DuplicateColumn(t *testing.T) {
	_, err := New(StringColumns("a", "b", "a")...)
	assert.ErrorIs(t, err, ErrDuplicateColumn)
}

func TestTable_AppendRow(t *testing.T) {
	tbl, err := New(
		Column{Name: "name", Kind: KindString},
		Column{Name: "value", Kind: KindNumber},
		Column{Name: "month", Kind: KindDate},
	)
	require.NoError(t, err)

	tests := []struct {
		name    string
		values  []any
		wantErr error
	}{
		{
			name:   "linha válida",
			values: []any{"Acme", decimal.NewFromInt(10), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		},
		{
			name:   "células nulas são aceitas",
			values: []any{nil, nil, nil},
		},
		{
			name:    "largura errada",
			values:  []any{"Acme"},
			wantErr: ErrRowWidth,
		},
		{
			name:    "tipo errado",
			values:  []any{"Acme", "10", nil},
			wantErr: ErrCellKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tbl.AppendRow(tt.values...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}

	assert.Equal(t, 2, tbl.Len())
}

func TestTable_DropEmptyRowsAndAccessors(t *testing.T) {
	tbl, err := New(StringColumns("project_name", "Jan 2024")...)
	require.NoError(t, err)

	require.NoError(t, tbl.AppendRow(" Acme ", "100"))
	require.NoError(t, tbl.AppendRow(nil, "  "))
	require.NoError(t, tbl.AppendRow("Beta", nil))

	filtered := tbl.DropEmptyRows()
	require.Equal(t, 2, filtered.Len())

	first := filtered.Row(0)
	assert.Equal(t, "Acme", first.String("project_name"))
	assert.Equal(t, "100", first.String("Jan 2024"))
	assert.Equal(t, "", first.String("missing"))

	second := filtered.Row(1)
	assert.Equal(t, "", second.String("Jan 2024"))
	assert.Equal(t, []string{"missing"}, filtered.MissingColumns("project_name", "missing"))
	assert.Equal(t, []string{"project_name", "Jan 2024"}, filtered.ColumnNames())
}
