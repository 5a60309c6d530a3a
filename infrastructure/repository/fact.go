package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/sales-pipeline/infrastructure/database/postgres"
	"github.com/vfg2006/sales-pipeline/internal/domain"
)

type FactRepository interface {
	UpsertBatch(ctx context.Context, schema domain.FactSchema, records []domain.FactRecord, policy domain.UpdatePolicy) (domain.UpsertResult, error)
}

type factRepository struct {
	conn postgres.Conn
}

func NewFactRepository(conn postgres.Conn) FactRepository {
	return &factRepository{
		conn: conn,
	}
}

// UpsertBatch grava o lote numa única transação com um INSERT multi-linha.
// xmax = 0 identifica as linhas recém-inseridas; as demais foram atualizadas.
func (r *factRepository) UpsertBatch(ctx context.Context, schema domain.FactSchema, records []domain.FactRecord, policy domain.UpdatePolicy) (domain.UpsertResult, error) {
	result := domain.UpsertResult{}
	if len(records) == 0 {
		return result, nil
	}

	query, args, err := buildUpsert(schema, records, policy)
	if err != nil {
		return result, fmt.Errorf("failed to build query: %w", err)
	}

	err = r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var inserted bool
			if err := rows.Scan(&inserted); err != nil {
				return err
			}
			if inserted {
				result.Inserted++
			} else {
				result.Updated++
			}
		}
		return rows.Err()
	})
	if err != nil {
		return domain.UpsertResult{}, postgres.WrapError(err, "upsert "+schema.Table)
	}

	return result, nil
}

func buildUpsert(schema domain.FactSchema, records []domain.FactRecord, policy domain.UpdatePolicy) (string, []interface{}, error) {
	columns := append([]string{"id"}, schema.UniqueKey()...)
	columns = append(columns, schema.MetricColumns()...)

	query := squirrel.StatementBuilder.
		Insert(schema.Table).
		Columns(columns...).
		PlaceholderFormat(squirrel.Dollar)

	for _, rec := range records {
		values := []interface{}{rec.ID, rec.ProjectID, rec.Month}
		if schema.Segmented() {
			values = append(values, rec.Segment)
		}
		for _, metric := range schema.Metrics {
			value := rec.Value(metric.Column)
			if metric.Integer {
				values = append(values, value.IntPart())
			} else {
				values = append(values, value)
			}
		}
		query = query.Values(values...)
	}

	conflict, err := conflictClause(schema, policy)
	if err != nil {
		return "", nil, err
	}

	return query.Suffix(conflict + " RETURNING (xmax = 0) AS inserted").ToSql()
}

func conflictClause(schema domain.FactSchema, policy domain.UpdatePolicy) (string, error) {
	target := fmt.Sprintf("ON CONFLICT (%s)", strings.Join(schema.UniqueKey(), ", "))

	sets := make([]string, 0, len(schema.Metrics))
	for _, col := range schema.MetricColumns() {
		switch policy {
		case domain.UpdateOverwrite:
			sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
		case domain.UpdateSum:
			sets = append(sets, fmt.Sprintf("%s = %s.%s + EXCLUDED.%s", col, schema.Table, col, col))
		case domain.UpdateKeep:
			return target + " DO NOTHING", nil
		default:
			return "", fmt.Errorf("unsupported update policy %q", policy)
		}
	}

	return target + " DO UPDATE SET " + strings.Join(sets, ", "), nil
}
