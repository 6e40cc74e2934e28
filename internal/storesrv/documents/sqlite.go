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

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or
// *sql.Tx). Used for local/single-node deployments and test fixtures.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, table string, id int64) (*Row, error) {
	query := `SELECT table_name, id, payload, updated_at FROM documents WHERE table_name = ? AND id = ?`

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

func (r *SQLiteRepository) List(ctx context.Context) ([]Row, error) {
	query := `SELECT table_name, id, payload, updated_at FROM documents ORDER BY table_name, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

func (r *SQLiteRepository) Update(ctx context.Context, row *Row) (int64, error) {
	query := `UPDATE documents SET payload = ?, updated_at = ? WHERE table_name = ? AND id = ?`

	res, err := r.db.ExecContext(ctx, query,
		row.Payload, row.UpdatedAt.UTC().Format(time.RFC3339Nano), row.Table, row.ID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return res.RowsAffected()
}

func (r *SQLiteRepository) Insert(ctx context.Context, row *Row) error {
	query := `INSERT INTO documents (table_name, id, payload, updated_at) VALUES (?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		row.Table, row.ID, row.Payload, row.UpdatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
