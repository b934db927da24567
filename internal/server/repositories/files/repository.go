package files

import (
	"context"

	"github.com/dmitrijs2005/filehost/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, file *models.File) (*models.File, error)
	ListByOwner(ctx context.Context, userID int64) ([]*models.File, error)
	GetByIDAndOwner(ctx context.Context, id, userID int64) (*models.File, error)
	DeleteByIDAndOwner(ctx context.Context, id, userID int64) error
	ListStoredNames(ctx context.Context) ([]*models.File, error)
}
