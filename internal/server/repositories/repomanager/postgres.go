// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/vyacheslafka/cloudstorage-server/internal/dbx"
	"github.com/vyacheslafka/cloudstorage-server/internal/server/migrations"
	"github.com/vyacheslafka/cloudstorage-server/internal/server/repositories/accounts"
	"github.com/vyacheslafka/cloudstorage-server/internal/server/repositories/files"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

// Accounts returns an accounts.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewPostgresRepository(db)
}

// Files returns a files.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Files(db dbx.DBTX) files.Repository {
	return files.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}
