package spreadsheet

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-pipeline/internal/tabular"
	"github.com/xuri/excelize/v2"
)

var ErrSheetNotFound = errors.New("sheet not found")

// ExcelReader lê uma aba de um .xlsx para uma tabela de colunas texto.
// Cabeçalhos com data formatada viram "yyyy-mm-dd"; as células de dados são
// lidas sem formatação para não perder precisão.
type ExcelReader struct{}

func NewExcelReader() *ExcelReader {
	return &ExcelReader{}
}

func (r *ExcelReader) Read(ctx context.Context, path string, sheet string) (*tabular.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "abrindo planilha %s", path)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logrus.WithError(err).WithField("file", path).Warn("Erro ao fechar planilha")
		}
	}()

	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, errors.Wrapf(ErrSheetNotFound, "%s em %s (abas: %s)", sheet, path, strings.Join(f.GetSheetList(), ", "))
	}

	formatted, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "lendo aba %s de %s", sheet, path)
	}
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.Wrapf(err, "lendo valores de %s de %s", sheet, path)
	}

	if len(raw) == 0 {
		return tabular.New()
	}

	header := headerNames(formatted[0], raw[0])
	table, err := tabular.New(tabular.StringColumns(header...)...)
	if err != nil {
		return nil, errors.Wrapf(err, "cabeçalho de %s", path)
	}

	for _, cells := range raw[1:] {
		values := make([]any, len(header))
		for i := range header {
			if i < len(cells) && strings.TrimSpace(cells[i]) != "" {
				values[i] = cells[i]
			}
		}
		if err := table.AppendRow(values...); err != nil {
			return nil, errors.Wrapf(err, "linha de %s", path)
		}
	}

	logrus.WithFields(logrus.Fields{
		"file":    path,
		"sheet":   sheet,
		"rows":    table.Len(),
		"columns": len(header),
	}).Debug("Planilha lida")

	return table, nil
}

// headerNames nomeia colunas vazias como Col_<n> e desambigua repetidas com
// sufixo .<n>. Números com formato de data viram data ISO.
func headerNames(formatted, raw []string) []string {
	width := max(len(formatted), len(raw))
	names := make([]string, width)
	seen := make(map[string]int, width)

	for i := 0; i < width; i++ {
		var shown, value string
		if i < len(formatted) {
			shown = strings.TrimSpace(formatted[i])
		}
		if i < len(raw) {
			value = strings.TrimSpace(raw[i])
		}

		name := shown
		if iso, ok := serialDate(shown, value); ok {
			name = iso
		}
		if name == "" {
			name = fmt.Sprintf("Col_%d", i)
		}

		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n+1)
		} else {
			seen[name] = 0
		}
		names[i] = name
	}

	return names
}

// serialDate reconhece um número serial do Excel exibido com formato de data
func serialDate(shown, value string) (string, bool) {
	if value == "" || shown == value {
		return "", false
	}
	serial, err := strconv.ParseFloat(value, 64)
	if err != nil || serial <= 0 {
		return "", false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return "", false
	}
	return t.Format(time.DateOnly), true
}
