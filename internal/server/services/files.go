// Package services contains server-side business logic. This file implements
// FileService, which composes the blob codec, the blob store, and the file
// metadata repository into upload, download, delete, and secret-rotation
// operations scoped to one owning account.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/vyacheslafka/cloudstorage-server/internal/common"
	"github.com/vyacheslafka/cloudstorage-server/internal/cryptox"
	"github.com/vyacheslafka/cloudstorage-server/internal/logging"
	"github.com/vyacheslafka/cloudstorage-server/internal/server/blobstore"
	"github.com/vyacheslafka/cloudstorage-server/internal/server/models"
	"github.com/vyacheslafka/cloudstorage-server/internal/server/repositories/repomanager"
)

// Codec seams for tests.
var (
	encryptBlob = cryptox.Encrypt
	decryptBlob = cryptox.Decrypt
)

// Owner identifies the account a file operation acts on behalf of. Secret is
// the account's current vault secret (raw password captured at login).
type Owner struct {
	ID     int64
	Secret []byte
}

// DownloadResult carries a decrypted file back to the transport layer.
// ContentType is always the opaque-binary default; stored content is never
// inspected.
type DownloadResult struct {
	FileName    string
	Data        []byte
	ContentType string
}

// RotationFailure records one file that could not be re-encrypted.
type RotationFailure struct {
	FileID   int64
	FileName string
	Err      error
}

// RotationSummary reports the outcome of a bulk re-encryption. Rotation is
// best-effort: failures are collected here instead of aborting the batch.
type RotationSummary struct {
	Rotated  int
	Failures []RotationFailure
}

// Ok reports whether every file was rotated.
func (s *RotationSummary) Ok() bool { return len(s.Failures) == 0 }

// FileService orchestrates the account-scoped encrypted file store.
//
// Mutating operations (Upload, DeleteOne, DeleteAllForOwner, RotateSecret)
// are serialized per owner behind a mutex, closing the duplicate-name and
// partially-rotated-read races the original design tolerated.
type FileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       blobstore.Store
	logger      logging.Logger

	ownerLocks sync.Map // int64 -> *sync.Mutex
}

// NewFileService constructs a FileService over the given stores.
func NewFileService(db *sql.DB, m repomanager.RepositoryManager, blobs blobstore.Store, logger logging.Logger) *FileService {
	return &FileService{
		db:          db,
		repomanager: m,
		blobs:       blobs,
		logger:      logger,
	}
}

func (s *FileService) lockOwner(ownerID int64) *sync.Mutex {
	m, _ := s.ownerLocks.LoadOrStore(ownerID, &sync.Mutex{})
	mu := m.(*sync.Mutex)
	mu.Lock()
	return mu
}

// List returns all of the owner's file records.
func (s *FileService) List(ctx context.Context, ownerID int64) ([]*models.StoredFile, error) {
	return s.repomanager.Files(s.db).FindByOwner(ctx, ownerID)
}

// Upload validates, encrypts, and stores one file. An empty payload yields
// common.ErrEmptyFile; a name the owner already uses yields
// common.ErrDuplicateName. The blob is written before the metadata record:
// a failed blob write leaves no metadata, while a failed metadata save after
// a successful blob write leaves an orphaned blob, which is logged and
// accepted (no rollback).
func (s *FileService) Upload(ctx context.Context, owner Owner, fileName string, data []byte) (*models.StoredFile, error) {
	mu := s.lockOwner(owner.ID)
	defer mu.Unlock()

	if len(data) == 0 {
		return nil, common.ErrEmptyFile
	}

	repo := s.repomanager.Files(s.db)

	if _, err := repo.FindByOwnerAndName(ctx, owner.ID, fileName); err == nil {
		return nil, common.ErrDuplicateName
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("checking existing file: %w", err)
	}

	blob, err := encryptBlob(data, owner.Secret)
	if err != nil {
		return nil, fmt.Errorf("encrypting %s: %w", fileName, err)
	}

	storagePath, err := s.blobs.Write(ctx, owner.ID, fileName, blob)
	if err != nil {
		s.logger.Error(ctx, "blob write failed", "owner", owner.ID, "name", fileName, "error", err)
		return nil, fmt.Errorf("writing blob: %w", err)
	}

	record := &models.StoredFile{
		OwnerID:     owner.ID,
		FileName:    fileName,
		SizeBytes:   int64(len(data)),
		SizeDisplay: models.DisplaySize(int64(len(data))),
		StoragePath: storagePath,
		UploadedAt:  time.Now(),
	}

	saved, err := repo.Save(ctx, record)
	if err != nil {
		s.logger.Error(ctx, "metadata save failed after blob write, blob orphaned",
			"owner", owner.ID, "name", fileName, "path", storagePath, "error", err)
		return nil, fmt.Errorf("saving metadata: %w", err)
	}

	s.logger.Info(ctx, "file uploaded", "owner", owner.ID, "name", fileName, "size", record.SizeBytes)
	return saved, nil
}

// Download fetches and decrypts one file. An unknown id and an id owned by
// someone else both yield common.ErrNotFound, so file ids never leak across
// accounts. A metadata record whose blob is missing also yields
// common.ErrNotFound, logged separately for operability.
func (s *FileService) Download(ctx context.Context, id int64, owner Owner) (*DownloadResult, error) {
	record, err := s.repomanager.Files(s.db).FindByIDAndOwner(ctx, id, owner.ID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Info(ctx, "download of unknown or foreign file", "owner", owner.ID, "id", id)
			return nil, common.ErrNotFound
		}
		return nil, err
	}

	blob, err := s.blobs.Read(ctx, record.StoragePath, record.FileName)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Error(ctx, "blob missing for existing metadata record",
				"owner", owner.ID, "id", id, "name", record.FileName)
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("reading blob: %w", err)
	}

	plaintext, err := decryptBlob(blob, owner.Secret)
	if err != nil {
		s.logger.Error(ctx, "blob decryption failed", "owner", owner.ID, "id", id, "error", err)
		return nil, err
	}

	return &DownloadResult{
		FileName:    record.FileName,
		Data:        plaintext,
		ContentType: "application/octet-stream",
	}, nil
}

// DeleteOne removes one file. Deleting an unknown id, or one owned by someone
// else, is a logged no-op. The metadata record is removed first; a blob that
// is already gone is logged, never surfaced.
func (s *FileService) DeleteOne(ctx context.Context, id int64, owner Owner) error {
	mu := s.lockOwner(owner.ID)
	defer mu.Unlock()

	return s.deleteOneLocked(ctx, id, owner.ID)
}

func (s *FileService) deleteOneLocked(ctx context.Context, id int64, ownerID int64) error {
	repo := s.repomanager.Files(s.db)

	record, err := repo.FindByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Info(ctx, "delete of unknown or foreign file ignored", "owner", ownerID, "id", id)
			return nil
		}
		return err
	}

	if err := repo.DeleteByID(ctx, record.ID); err != nil {
		return fmt.Errorf("deleting metadata: %w", err)
	}

	if err := s.blobs.Remove(ctx, record.StoragePath, record.FileName); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Warn(ctx, "blob already absent, metadata removed",
				"owner", ownerID, "id", id, "name", record.FileName)
		} else {
			s.logger.Error(ctx, "blob delete failed, metadata removed",
				"owner", ownerID, "id", id, "name", record.FileName, "error", err)
		}
		return nil
	}

	s.logger.Info(ctx, "file deleted", "owner", ownerID, "id", id, "name", record.FileName)
	return nil
}

// DeleteAllForOwner removes every file the owner has, then the owner's blob
// directory. Per-file failures are logged and skipped; the directory removal
// only succeeds once empty and its outcome is advisory.
func (s *FileService) DeleteAllForOwner(ctx context.Context, owner Owner) error {
	mu := s.lockOwner(owner.ID)
	defer mu.Unlock()

	records, err := s.repomanager.Files(s.db).FindByOwner(ctx, owner.ID)
	if err != nil {
		return fmt.Errorf("listing files: %w", err)
	}

	for _, record := range records {
		if err := s.deleteOneLocked(ctx, record.ID, owner.ID); err != nil {
			s.logger.Error(ctx, "file delete failed during account cleanup",
				"owner", owner.ID, "id", record.ID, "error", err)
		}
	}

	if err := s.blobs.RemoveOwnerDir(ctx, owner.ID); err != nil {
		s.logger.Info(ctx, "owner directory not removed", "owner", owner.ID, "error", err)
	}

	return nil
}

// RotateSecret re-encrypts every blob the owner has from oldSecret to
// newSecret, overwriting in place; metadata records stay untouched. The old
// secret must be the one captured before the account's password hash was
// updated. Rotation is best-effort: per-file failures are logged, collected
// into the summary, and do not stop the batch.
func (s *FileService) RotateSecret(ctx context.Context, ownerID int64, oldSecret, newSecret []byte) (*RotationSummary, error) {
	mu := s.lockOwner(ownerID)
	defer mu.Unlock()

	records, err := s.repomanager.Files(s.db).FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}

	summary := &RotationSummary{}

	for _, record := range records {
		if err := s.rotateOne(ctx, ownerID, record, oldSecret, newSecret); err != nil {
			s.logger.Error(ctx, "file rotation failed, skipping",
				"owner", ownerID, "id", record.ID, "name", record.FileName, "error", err)
			summary.Failures = append(summary.Failures, RotationFailure{
				FileID:   record.ID,
				FileName: record.FileName,
				Err:      err,
			})
			continue
		}
		summary.Rotated++
	}

	s.logger.Info(ctx, "secret rotation finished",
		"owner", ownerID, "rotated", summary.Rotated, "failed", len(summary.Failures))
	return summary, nil
}

func (s *FileService) rotateOne(ctx context.Context, ownerID int64, record *models.StoredFile, oldSecret, newSecret []byte) error {
	blob, err := s.blobs.Read(ctx, record.StoragePath, record.FileName)
	if err != nil {
		return fmt.Errorf("reading blob: %w", err)
	}

	plaintext, err := decryptBlob(blob, oldSecret)
	if err != nil {
		return fmt.Errorf("decrypting: %w", err)
	}

	reencrypted, err := encryptBlob(plaintext, newSecret)
	if err != nil {
		return fmt.Errorf("re-encrypting: %w", err)
	}

	if _, err := s.blobs.Write(ctx, ownerID, record.FileName, reencrypted); err != nil {
		return fmt.Errorf("writing blob: %w", err)
	}
	return nil
}
