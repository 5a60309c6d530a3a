package postgres

import (
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestWrapError(t *testing.T) {
	assert.NoError(t, WrapError(nil, "upsert"))

	pqErr := &pq.Error{Code: CodeUniqueViolation, Table: "sales"}
	wrapped := WrapError(pqErr, "upsert sales")

	assert.ErrorIs(t, wrapped, pqErr)
	assert.True(t, HasCode(wrapped, CodeUniqueViolation))
	assert.False(t, HasCode(wrapped, CodeForeignKeyViolation))
	assert.Contains(t, wrapped.Error(), "unique_violation")
	assert.Contains(t, wrapped.Error(), "table=sales")

	plain := WrapError(errors.New("connection reset"), "upsert")
	assert.EqualError(t, plain, "upsert: connection reset")
	assert.False(t, HasCode(plain, CodeUniqueViolation))
}
