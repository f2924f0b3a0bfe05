package files

import (
	"context"

	"github.com/vyacheslafka/cloudstorage-server/internal/server/models"
)

type Repository interface {
	Save(ctx context.Context, file *models.StoredFile) (*models.StoredFile, error)
	FindByOwner(ctx context.Context, ownerID int64) ([]*models.StoredFile, error)
	FindByOwnerAndName(ctx context.Context, ownerID int64, fileName string) (*models.StoredFile, error)
	FindByIDAndOwner(ctx context.Context, id int64, ownerID int64) (*models.StoredFile, error)
	DeleteByID(ctx context.Context, id int64) error
}
