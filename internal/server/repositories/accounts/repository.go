package accounts

import (
	"context"

	"github.com/vyacheslafka/cloudstorage-server/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	FindByID(ctx context.Context, id int64) (*models.Account, error)
	FindByName(ctx context.Context, name string) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	UpdateName(ctx context.Context, id int64, name string) error
	UpdateEmail(ctx context.Context, id int64, email string) error
	UpdatePasswordHash(ctx context.Context, id int64, hash []byte) error
	Delete(ctx context.Context, id int64) error
}
