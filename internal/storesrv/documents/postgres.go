package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dvelarde/vigia/internal/common"
	"github.com/dvelarde/vigia/internal/dbx"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, table string, id int64) (*Row, error) {
	query := `SELECT table_name, id, payload, updated_at FROM documents WHERE table_name = $1 AND id = $2`

	var row Row
	var updatedAt string
	err := r.db.QueryRowContext(ctx, query, table, id).
		Scan(&row.Table, &row.ID, &row.Payload, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	row.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("malformed updated_at: %w", err)
	}
	return &row, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]Row, error) {
	query := `SELECT table_name, id, payload, updated_at FROM documents ORDER BY table_name, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

func (r *PostgresRepository) Update(ctx context.Context, row *Row) (int64, error) {
	query := `UPDATE documents SET payload = $1, updated_at = $2 WHERE table_name = $3 AND id = $4`

	res, err := r.db.ExecContext(ctx, query,
		row.Payload, row.UpdatedAt.UTC().Format(time.RFC3339Nano), row.Table, row.ID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return res.RowsAffected()
}

func (r *PostgresRepository) Insert(ctx context.Context, row *Row) error {
	query := `INSERT INTO documents (table_name, id, payload, updated_at) VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, query,
		row.Table, row.ID, row.Payload, row.UpdatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func scanRows(rows *sql.Rows) ([]Row, error) {
	var result []Row
	for rows.Next() {
		var row Row
		var updatedAt string
		if err := rows.Scan(&row.Table, &row.ID, &row.Payload, &updatedAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, updatedAt)
		if err != nil {
			return nil, fmt.Errorf("malformed updated_at: %w", err)
		}
		row.UpdatedAt = parsed
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
