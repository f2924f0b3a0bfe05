package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/vyacheslafka/cloudstorage-server/internal/common"
	"github.com/vyacheslafka/cloudstorage-server/internal/dbx"
	"github.com/vyacheslafka/cloudstorage-server/internal/logging"
	"github.com/vyacheslafka/cloudstorage-server/internal/server/models"
	"github.com/vyacheslafka/cloudstorage-server/internal/server/repositories/accounts"
	"github.com/vyacheslafka/cloudstorage-server/internal/server/repositories/files"
)

// --- in-memory repositories backing service tests ---

type fakeFilesRepo struct {
	mu      sync.Mutex
	nextID  int64
	records map[int64]models.StoredFile

	saveErr   error
	deleteErr error
}

func newFakeFilesRepo() *fakeFilesRepo {
	return &fakeFilesRepo{records: make(map[int64]models.StoredFile)}
}

func (f *fakeFilesRepo) Save(ctx context.Context, file *models.StoredFile) (*models.StoredFile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.nextID++
	file.ID = f.nextID
	f.records[file.ID] = *file
	return file, nil
}

func (f *fakeFilesRepo) FindByOwner(ctx context.Context, ownerID int64) ([]*models.StoredFile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*models.StoredFile
	for _, r := range f.records {
		if r.OwnerID == ownerID {
			cp := r
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (f *fakeFilesRepo) FindByOwnerAndName(ctx context.Context, ownerID int64, fileName string) (*models.StoredFile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.OwnerID == ownerID && r.FileName == fileName {
			cp := r
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeFilesRepo) FindByIDAndOwner(ctx context.Context, id int64, ownerID int64) (*models.StoredFile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.records[id]; ok && r.OwnerID == ownerID {
		cp := r
		return &cp, nil
	}
	return nil, common.ErrNotFound
}

func (f *fakeFilesRepo) DeleteByID(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.records, id)
	return nil
}

type fakeAccountsRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]models.Account
}

func newFakeAccountsRepo() *fakeAccountsRepo {
	return &fakeAccountsRepo{rows: make(map[int64]models.Account)}
}

func (f *fakeAccountsRepo) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	account.ID = f.nextID
	f.rows[account.ID] = *account
	return account, nil
}

func (f *fakeAccountsRepo) FindByID(ctx context.Context, id int64) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.rows[id]; ok {
		cp := a
		return &cp, nil
	}
	return nil, common.ErrNotFound
}

func (f *fakeAccountsRepo) FindByName(ctx context.Context, name string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.rows {
		if a.Name == name {
			cp := a
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeAccountsRepo) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.rows {
		if a.Email == email {
			cp := a
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeAccountsRepo) UpdateName(ctx context.Context, id int64, name string) error {
	return f.update(id, func(a *models.Account) { a.Name = name })
}

func (f *fakeAccountsRepo) UpdateEmail(ctx context.Context, id int64, email string) error {
	return f.update(id, func(a *models.Account) { a.Email = email })
}

func (f *fakeAccountsRepo) UpdatePasswordHash(ctx context.Context, id int64, hash []byte) error {
	return f.update(id, func(a *models.Account) { a.PasswordHash = hash })
}

func (f *fakeAccountsRepo) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeAccountsRepo) update(id int64, fn func(*models.Account)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.rows[id]
	if !ok {
		return common.ErrNotFound
	}
	fn(&a)
	f.rows[id] = a
	return nil
}

type fakeRepoManager struct {
	files    files.Repository
	accounts accounts.Repository
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *fakeRepoManager) Files(dbx.DBTX) files.Repository { return m.files }

func (m *fakeRepoManager) Accounts(dbx.DBTX) accounts.Repository { return m.accounts }

func testLogger(t *testing.T) logging.Logger {
	t.Helper()
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
