// Package documents provides the persistence layer of the store service:
// one row per (logical table, id) pair, each carrying an opaque JSON
// document. Postgres and SQLite backends share the schema.
package documents

import (
	"context"
	"encoding/json"
	"time"
)

// Row is one stored document row. The JSON tags shape backup snapshots.
type Row struct {
	Table     string          `json:"table"`
	ID        int64           `json:"id"`
	Payload   json.RawMessage `json:"payload"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Repository is implemented by the Postgres and SQLite backends.
type Repository interface {
	// Get returns the row or common.ErrorNotFound.
	Get(ctx context.Context, table string, id int64) (*Row, error)

	// List returns every stored row, ordered by table then id.
	List(ctx context.Context) ([]Row, error)

	// Update overwrites payload and updated_at of an existing row and
	// reports how many rows matched (0 when the row does not exist).
	Update(ctx context.Context, row *Row) (int64, error)

	// Insert creates a new row; it fails when the row already exists.
	Insert(ctx context.Context, row *Row) error
}
