package migration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-pipeline/internal/domain"
)

// Transactor executa uma função dentro de uma transação
type Transactor interface {
	RunInTransaction(ctx context.Context, fn func(*sql.Tx) error) error
}

// valores iniciais diferentes de zero
var columnDefaults = map[string]string{
	"delivery_duty_coef":               "1.00",
	"order_placement_date_payment_prc": "30.00",
	"order_shipment_date_payment_prc":  "70.00",
}

// Statements gera o DDL idempotente do schema: projetos e todas as tabelas de fatos
func Statements(schema string) []string {
	stmts := []string{
		fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", pq.QuoteIdentifier(schema)),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id UUID PRIMARY KEY,
	status VARCHAR(10),
	project_name VARCHAR(100) NOT NULL,
	currency VARCHAR(3) NOT NULL DEFAULT 'USD',
	description VARCHAR(255),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CONSTRAINT projects_project_name_currency_key UNIQUE (project_name, currency)
)`, qualified(schema, domain.ProjectsTable)),
	}

	for _, fs := range domain.FactSchemas() {
		stmts = append(stmts, factTable(schema, fs))
	}

	return stmts
}

func factTable(schema string, fs domain.FactSchema) string {
	lines := []string{
		"\tid UUID PRIMARY KEY",
		fmt.Sprintf("\t%s UUID NOT NULL REFERENCES %s (id)", domain.ColumnProjectID, qualified(schema, domain.ProjectsTable)),
		fmt.Sprintf("\t%s DATE NOT NULL", fs.DateColumn),
	}
	if fs.Segmented() {
		lines = append(lines, fmt.Sprintf("\t%s VARCHAR(50) NOT NULL", fs.SegmentColumn))
	}

	for _, m := range fs.Metrics {
		kind := "NUMERIC(20, 4)"
		if m.Integer {
			kind = "INTEGER"
		}
		def, ok := columnDefaults[m.Column]
		if !ok {
			def = "0"
		}
		lines = append(lines, fmt.Sprintf("\t%s %s DEFAULT %s", m.Column, kind, def))
	}

	lines = append(lines, fmt.Sprintf("\tCONSTRAINT %s_unique_key UNIQUE (%s)", fs.Table, strings.Join(fs.UniqueKey(), ", ")))

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n)", qualified(schema, fs.Table), strings.Join(lines, ",\n"))
}

func qualified(schema, table string) string {
	return pq.QuoteIdentifier(schema) + "." + pq.QuoteIdentifier(table)
}

// Migrate aplica o DDL numa única transação
func Migrate(ctx context.Context, conn Transactor, schema string) error {
	stmts := Statements(schema)

	err := conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		for _, stmt := range stmts {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("erro ao executar migração: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"schema":     schema,
		"statements": len(stmts),
	}).Info("Migração aplicada")

	return nil
}
