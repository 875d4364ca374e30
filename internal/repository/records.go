package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/fms-dashboard-api/internal/models"
)

// pageQuery runs a status-filtered, paged SELECT plus its COUNT against table.
func pageQuery[T any](ctx context.Context, db *sqlx.DB, columns, table string, filter models.RecordFilter) ([]T, int, error) {
	limit, offset := filter.Normalize()

	where := ""
	var args []interface{}
	if filter.Status != "" {
		where = " WHERE status = $1"
		args = append(args, filter.Status)
	}

	listQuery := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY created_at DESC LIMIT %d OFFSET %d", columns, table, where, limit, offset)
	items := make([]T, 0)
	if err := db.SelectContext(ctx, &items, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", table, err)
	}

	var total int
	if err := db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) FROM %s%s", table, where), args...); err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", table, err)
	}
	return items, total, nil
}

// requireAffected converts a zero-row update into sql.ErrNoRows.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
