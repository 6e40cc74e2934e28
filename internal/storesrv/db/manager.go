// Package db opens the store database, picks the backend from the DSN and
// applies the embedded goose migrations.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/dvelarde/vigia/internal/dbx"
	"github.com/dvelarde/vigia/internal/storesrv/documents"
	"github.com/dvelarde/vigia/internal/storesrv/migrations"
)

// Manager owns the database handle and exposes the documents repository over
// it. Embedding the repository lets callers treat the manager as the store.
type Manager struct {
	documents.Repository

	db      *sql.DB
	newRepo func(dbx.DBTX) documents.Repository
}

func (m *Manager) Conn() *sql.DB {
	return m.db
}

func (m *Manager) Close() error {
	return m.db.Close()
}

// InTx runs fn against a repository bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (m *Manager) InTx(ctx context.Context, fn func(docs documents.Repository) error) error {
	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(m.newRepo(tx))
	})
}

func (m *Manager) runMigrations(ctx context.Context, dialect string) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, m.db, "."); err != nil {
		return err
	}
	return nil
}

// NewManager opens the database named by dsn. A postgres:// DSN selects the
// pgx backend; anything else is treated as a sqlite file DSN.
func NewManager(ctx context.Context, dsn string) (*Manager, error) {
	driver, dialect := "sqlite", "sqlite3"
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		driver, dialect = "pgx", "postgres"
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	m := &Manager{db: conn}
	if driver == "pgx" {
		m.newRepo = func(tx dbx.DBTX) documents.Repository {
			return documents.NewPostgresRepository(tx)
		}
	} else {
		m.newRepo = func(tx dbx.DBTX) documents.Repository {
			return documents.NewSQLiteRepository(tx)
		}
		// modernc sqlite is not safe for concurrent writers over one file.
		conn.SetMaxOpenConns(1)
	}
	m.Repository = m.newRepo(conn)

	if err := m.runMigrations(ctx, dialect); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}
	return m, nil
}
