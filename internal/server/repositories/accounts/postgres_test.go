package accounts

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/vyacheslafka/cloudstorage-server/internal/common"
	"github.com/vyacheslafka/cloudstorage-server/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

var accountColumns = []string{"id", "name", "email", "password_hash", "role", "created_at"}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+accounts\s*\(name,\s*email,\s*password_hash,\s*role\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*RETURNING\s+id,\s*created_at\s*$`

	created := time.Now()
	rows := sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(42), created)
	mock.ExpectQuery(q).
		WithArgs("alice", "alice@example.com", []byte("hash"), "user").
		WillReturnRows(rows)

	a := &models.Account{Name: "alice", Email: "alice@example.com", PasswordHash: []byte("hash"), Role: "user"}
	got, err := repo.Create(context.Background(), a)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 42 || !got.CreatedAt.Equal(created) {
		t.Fatalf("unexpected account: %+v", got)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+accounts`).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.Account{Name: "alice"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestFindByName_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.+\s+FROM\s+accounts\s+WHERE\s+name\s*=\s*\$1\s*$`

	rows := sqlmock.NewRows(accountColumns).
		AddRow(int64(7), "alice", "alice@example.com", []byte("hash"), "user", time.Now())
	mock.ExpectQuery(q).WithArgs("alice").WillReturnRows(rows)

	got, err := repo.FindByName(context.Background(), "alice")
	if err != nil {
		t.Fatalf("FindByName error: %v", err)
	}
	if got.ID != 7 || got.Email != "alice@example.com" {
		t.Fatalf("unexpected account: %+v", got)
	}
}

func TestFindByName_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+.+\s+FROM\s+accounts\s+WHERE\s+name`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByName(context.Background(), "ghost")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestFindByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.+\s+FROM\s+accounts\s+WHERE\s+email\s*=\s*\$1\s*$`

	rows := sqlmock.NewRows(accountColumns).
		AddRow(int64(7), "alice", "alice@example.com", []byte("hash"), "user", time.Now())
	mock.ExpectQuery(q).WithArgs("alice@example.com").WillReturnRows(rows)

	got, err := repo.FindByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("FindByEmail error: %v", err)
	}
	if got.Name != "alice" {
		t.Fatalf("unexpected account: %+v", got)
	}
}

func TestUpdatePasswordHash(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+accounts\s+SET\s+password_hash\s*=\s*\$2\s+WHERE\s+id\s*=\s*\$1\s*$`

	mock.ExpectExec(q).
		WithArgs(int64(7), []byte("newhash")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdatePasswordHash(context.Background(), 7, []byte("newhash")); err != nil {
		t.Fatalf("UpdatePasswordHash error: %v", err)
	}
}

func TestUpdateName_NoRow(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^UPDATE\s+accounts\s+SET\s+name`).
		WithArgs(int64(404), "ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateName(context.Background(), 404, "ghost")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+accounts\s+WHERE\s+id\s*=\s*\$1\s*$`

	mock.ExpectExec(q).WithArgs(int64(7)).WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), 7); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestDelete_NoRow(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+accounts`).
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 404)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}
