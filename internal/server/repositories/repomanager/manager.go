package repomanager

import (
	"context"
	"database/sql"

	"github.com/vyacheslafka/cloudstorage-server/internal/dbx"
	"github.com/vyacheslafka/cloudstorage-server/internal/server/repositories/accounts"
	"github.com/vyacheslafka/cloudstorage-server/internal/server/repositories/files"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Files(db dbx.DBTX) files.Repository
}
