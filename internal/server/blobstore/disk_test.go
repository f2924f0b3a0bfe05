package blobstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vyacheslafka/cloudstorage-server/internal/common"
)

func TestDiskStore_WriteRead(t *testing.T) {
	ctx := context.Background()
	store := NewDiskStore(t.TempDir())

	dir, err := store.Write(ctx, 7, "report.pdf", []byte("ciphertext"))
	require.NoError(t, err)
	assert.Equal(t, "7", filepath.Base(dir))

	got, err := store.Read(ctx, dir, "report.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("ciphertext"), got)
}

func TestDiskStore_WriteOverwrites(t *testing.T) {
	ctx := context.Background()
	store := NewDiskStore(t.TempDir())

	dir, err := store.Write(ctx, 7, "a.txt", []byte("v1"))
	require.NoError(t, err)
	_, err = store.Write(ctx, 7, "a.txt", []byte("v2"))
	require.NoError(t, err)

	got, err := store.Read(ctx, dir, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)
}

func TestDiskStore_WriteLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	store := NewDiskStore(t.TempDir())

	dir, err := store.Write(ctx, 7, "a.txt", []byte("data"))
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.txt", entries[0].Name())
}

func TestDiskStore_ReadMissing(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store := NewDiskStore(root)

	_, err := store.Read(ctx, filepath.Join(root, "7"), "ghost.txt")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDiskStore_RemoveMissing(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store := NewDiskStore(root)

	err := store.Remove(ctx, filepath.Join(root, "7"), "ghost.txt")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDiskStore_Remove(t *testing.T) {
	ctx := context.Background()
	store := NewDiskStore(t.TempDir())

	dir, err := store.Write(ctx, 7, "a.txt", []byte("data"))
	require.NoError(t, err)

	require.NoError(t, store.Remove(ctx, dir, "a.txt"))

	_, err = store.Read(ctx, dir, "a.txt")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDiskStore_RemoveOwnerDir(t *testing.T) {
	ctx := context.Background()
	store := NewDiskStore(t.TempDir())

	dir, err := store.Write(ctx, 7, "a.txt", []byte("data"))
	require.NoError(t, err)

	// Still holds a blob: non-recursive delete must fail.
	err = store.RemoveOwnerDir(ctx, 7)
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, store.Remove(ctx, dir, "a.txt"))
	require.NoError(t, store.RemoveOwnerDir(ctx, 7))

	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestDiskStore_RemoveOwnerDirMissing(t *testing.T) {
	ctx := context.Background()
	store := NewDiskStore(t.TempDir())

	err := store.RemoveOwnerDir(ctx, 404)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDiskStore_OwnersIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewDiskStore(t.TempDir())

	dir7, err := store.Write(ctx, 7, "a.txt", []byte("seven"))
	require.NoError(t, err)
	dir9, err := store.Write(ctx, 9, "a.txt", []byte("nine"))
	require.NoError(t, err)

	require.NotEqual(t, dir7, dir9)

	got7, err := store.Read(ctx, dir7, "a.txt")
	require.NoError(t, err)
	got9, err := store.Read(ctx, dir9, "a.txt")
	require.NoError(t, err)

	assert.Equal(t, []byte("seven"), got7)
	assert.Equal(t, []byte("nine"), got9)
}
