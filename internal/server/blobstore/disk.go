package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/vyacheslafka/cloudstorage-server/internal/common"
)

// DiskStore keeps blobs on a local directory tree: <root>/<ownerID>/<fileName>.
type DiskStore struct {
	root string
}

// NewDiskStore constructs a DiskStore rooted at root. The root itself is
// created lazily on first write.
func NewDiskStore(root string) *DiskStore {
	return &DiskStore{root: root}
}

func (s *DiskStore) ownerDir(ownerID int64) string {
	return filepath.Join(s.root, strconv.FormatInt(ownerID, 10))
}

// Write creates the owner's directory if missing and writes the blob through
// a temp file plus rename, so readers never observe a partial blob.
func (s *DiskStore) Write(ctx context.Context, ownerID int64, fileName string, data []byte) (string, error) {
	dir := s.ownerDir(ownerID)
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("close temp: %w", err)
	}

	if err := os.Rename(tmpName, filepath.Join(dir, fileName)); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("rename: %w", err)
	}

	return dir, nil
}

// Read returns the blob's contents, or common.ErrNotFound when absent.
func (s *DiskStore) Read(ctx context.Context, storagePath, fileName string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(storagePath, fileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("read blob: %w", err)
	}
	return data, nil
}

// Remove deletes the blob, or returns common.ErrNotFound when absent.
func (s *DiskStore) Remove(ctx context.Context, storagePath, fileName string) error {
	if err := os.Remove(filepath.Join(storagePath, fileName)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return common.ErrNotFound
		}
		return fmt.Errorf("remove blob: %w", err)
	}
	return nil
}

// RemoveOwnerDir removes the owner's directory non-recursively. It fails when
// the directory still contains files; callers treat that as advisory.
func (s *DiskStore) RemoveOwnerDir(ctx context.Context, ownerID int64) error {
	if err := os.Remove(s.ownerDir(ownerID)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return common.ErrNotFound
		}
		return fmt.Errorf("remove owner dir: %w", err)
	}
	return nil
}
