package postgres

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Códigos SQLSTATE tratados explicitamente
const (
	CodeUniqueViolation     pq.ErrorCode = "23505"
	CodeForeignKeyViolation pq.ErrorCode = "23503"
	CodeNotNullViolation    pq.ErrorCode = "23502"
	CodeNumericOutOfRange   pq.ErrorCode = "22003"
	CodeUndefinedTable      pq.ErrorCode = "42P01"
)

// WrapError anexa o código SQLSTATE e a tabela à mensagem quando o erro vem do driver
func WrapError(err error, op string) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fmt.Errorf("%s: %s (%s, table=%s): %w", op, pqErr.Code.Name(), pqErr.Code, pqErr.Table, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// HasCode indica se o erro é um *pq.Error com o código informado
func HasCode(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == code
}
