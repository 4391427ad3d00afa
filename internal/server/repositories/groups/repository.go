package groups

import (
	"context"

	"github.com/dmitrijs2005/yatube/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, group *models.Group) (*models.Group, error)
	GetByID(ctx context.Context, id int64) (*models.Group, error)
	GetBySlug(ctx context.Context, slug string) (*models.Group, error)
	List(ctx context.Context) ([]*models.Group, error)
	DeleteBySlug(ctx context.Context, slug string) (int64, error)
}
