// Package blobstore holds encrypted file blobs, one namespace per account.
// Two backends exist: a local directory tree (one subdirectory per owner)
// and an S3-compatible bucket (one key prefix per owner).
package blobstore

import "context"

// Store is the blob storage contract used by the file service.
type Store interface {
	// Write stores data under the owner's namespace, creating it if needed,
	// and returns the storage path (directory or key prefix) used.
	// A partially written blob is never observable as a complete one.
	Write(ctx context.Context, ownerID int64, fileName string, data []byte) (string, error)

	// Read returns the blob's contents. Returns common.ErrNotFound when absent.
	Read(ctx context.Context, storagePath, fileName string) ([]byte, error)

	// Remove deletes the blob. Returns common.ErrNotFound when absent; the
	// caller decides whether that is fatal.
	Remove(ctx context.Context, storagePath, fileName string) error

	// RemoveOwnerDir removes the owner's namespace. On the disk backend this
	// is a non-recursive delete and only succeeds once the directory is
	// empty; the returned error is advisory and callers log it at most.
	RemoveOwnerDir(ctx context.Context, ownerID int64) error
}
