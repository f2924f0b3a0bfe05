// Package dbx holds the database plumbing shared by the repositories: the
// query surface they depend on and a transaction wrapper.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the query surface a repository needs. *sql.DB and *sql.Tx both
// provide it, so the same repository serves plain and transactional calls.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn inside a transaction, committing when fn returns nil and
// rolling back when it returns an error or panics. A panic is rethrown after
// the rollback.
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}
