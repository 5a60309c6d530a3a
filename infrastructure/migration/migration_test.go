package migration

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatements(t *testing.T) {
	stmts := Statements("finance")

	require.Len(t, stmts, 8)
	assert.Equal(t, `CREATE SCHEMA IF NOT EXISTS "finance"`, stmts[0])
	assert.Contains(t, stmts[1], `"finance"."projects"`)
	assert.Contains(t, stmts[1], "UNIQUE (project_name, currency)")

	byTable := make(map[string]string)
	for _, stmt := range stmts[2:] {
		for _, table := range []string{"logistics", "orders_payment_terms", "orders", "payments", "sales", "stock_budget"} {
			if strings.Contains(stmt, `"finance"."`+table+`" (`) {
				byTable[table] = stmt
			}
		}
	}
	require.Len(t, byTable, 6)

	assert.Contains(t, byTable["sales"], "UNIQUE (project_id, date_of_month_begin, segment)")
	assert.Contains(t, byTable["sales"], "segment VARCHAR(50) NOT NULL")
	assert.Contains(t, byTable["orders"], "UNIQUE (project_id, order_date)")
	assert.Contains(t, byTable["orders"], "production_time INTEGER DEFAULT 0")
	assert.NotContains(t, byTable["orders"], "segment")
	assert.Contains(t, byTable["logistics"], "delivery_duty_coef NUMERIC(20, 4) DEFAULT 1.00")
	assert.Contains(t, byTable["orders_payment_terms"], "order_shipment_date_payment_prc NUMERIC(20, 4) DEFAULT 70.00")
}
