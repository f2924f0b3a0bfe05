package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vyacheslafka/cloudstorage-server/internal/common"
	"github.com/vyacheslafka/cloudstorage-server/internal/dbx"
	"github.com/vyacheslafka/cloudstorage-server/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	query :=
		`INSERT INTO accounts (name, email, password_hash, role)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		account.Name, account.Email, account.PasswordHash, account.Role).Scan(&account.ID, &account.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*models.Account, error) {
	query :=
		`SELECT id, name, email, password_hash, role, created_at FROM accounts
		 WHERE id = $1
		 `
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) FindByName(ctx context.Context, name string) (*models.Account, error) {
	query :=
		`SELECT id, name, email, password_hash, role, created_at FROM accounts
		 WHERE name = $1
		 `
	return r.scanOne(r.db.QueryRowContext(ctx, query, name))
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	query :=
		`SELECT id, name, email, password_hash, role, created_at FROM accounts
		 WHERE email = $1
		 `
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) UpdateName(ctx context.Context, id int64, name string) error {
	return r.exec(ctx, `UPDATE accounts SET name = $2 WHERE id = $1`, id, name)
}

func (r *PostgresRepository) UpdateEmail(ctx context.Context, id int64, email string) error {
	return r.exec(ctx, `UPDATE accounts SET email = $2 WHERE id = $1`, id, email)
}

func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, id int64, hash []byte) error {
	return r.exec(ctx, `UPDATE accounts SET password_hash = $2 WHERE id = $1`, id, hash)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	return r.exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.Account, error) {
	account := &models.Account{}
	err := row.Scan(&account.ID, &account.Name, &account.Email,
		&account.PasswordHash, &account.Role, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return account, nil
}
