package models

import (
	"math"
	"time"
)

// StoredFile describes one uploaded object. The encrypted blob lives in the
// blob store under StoragePath; SizeBytes is the plaintext length.
type StoredFile struct {
	ID        int64
	OwnerID   int64
	FileName  string
	SizeBytes int64
	// SizeDisplay is the size in megabytes rounded up to two decimals.
	// Derived from SizeBytes, kept only for listing pages.
	SizeDisplay float64
	// StoragePath is the directory (or key prefix) holding the blob,
	// always <root>/<ownerID>.
	StoragePath string
	UploadedAt  time.Time
}

// DisplaySize converts a byte count to megabytes rounded up to two decimals,
// so even a one-byte file shows as 0.01 MB.
func DisplaySize(sizeBytes int64) float64 {
	return math.Ceil(float64(sizeBytes)/1_000_000*100) / 100
}
