// Package files persists per-file metadata records. There is deliberately no
// uniqueness constraint on (account_id, file_name); duplicate-name rejection
// is enforced by the file service before saving.
package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vyacheslafka/cloudstorage-server/internal/common"
	"github.com/vyacheslafka/cloudstorage-server/internal/dbx"
	"github.com/vyacheslafka/cloudstorage-server/internal/server/models"
)

// PostgresRepository implements file metadata storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Save inserts a new metadata record and returns it with the assigned id.
func (r *PostgresRepository) Save(ctx context.Context, file *models.StoredFile) (*models.StoredFile, error) {
	query :=
		`INSERT INTO files (account_id, file_name, size_bytes, size_display, storage_path, uploaded_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		file.OwnerID, file.FileName, file.SizeBytes, file.SizeDisplay, file.StoragePath, file.UploadedAt).Scan(&file.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return file, nil
}

// FindByOwner returns all metadata records owned by ownerID, in no
// particular order.
func (r *PostgresRepository) FindByOwner(ctx context.Context, ownerID int64) ([]*models.StoredFile, error) {
	query :=
		`SELECT id, account_id, file_name, size_bytes, size_display, storage_path, uploaded_at FROM files
		 WHERE account_id = $1
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.StoredFile
	for rows.Next() {
		var item models.StoredFile
		if err := rows.Scan(&item.ID, &item.OwnerID, &item.FileName, &item.SizeBytes,
			&item.SizeDisplay, &item.StoragePath, &item.UploadedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// FindByOwnerAndName looks a record up by its display name within one owner's
// scope. Returns common.ErrNotFound when absent.
func (r *PostgresRepository) FindByOwnerAndName(ctx context.Context, ownerID int64, fileName string) (*models.StoredFile, error) {
	query :=
		`SELECT id, account_id, file_name, size_bytes, size_display, storage_path, uploaded_at FROM files
		 WHERE account_id = $1 AND file_name = $2
		 `

	return r.scanOne(r.db.QueryRowContext(ctx, query, ownerID, fileName))
}

// FindByIDAndOwner looks a record up by id, scoped to its owner. A record
// owned by someone else is indistinguishable from an absent one.
func (r *PostgresRepository) FindByIDAndOwner(ctx context.Context, id int64, ownerID int64) (*models.StoredFile, error) {
	query :=
		`SELECT id, account_id, file_name, size_bytes, size_display, storage_path, uploaded_at FROM files
		 WHERE id = $1 AND account_id = $2
		 `

	return r.scanOne(r.db.QueryRowContext(ctx, query, id, ownerID))
}

// DeleteByID removes a metadata record.
func (r *PostgresRepository) DeleteByID(ctx context.Context, id int64) error {
	query := `DELETE FROM files WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.StoredFile, error) {
	item := &models.StoredFile{}
	err := row.Scan(&item.ID, &item.OwnerID, &item.FileName, &item.SizeBytes,
		&item.SizeDisplay, &item.StoragePath, &item.UploadedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}
