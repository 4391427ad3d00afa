package users

import (
	"context"

	"github.com/dmitrijs2005/yatube/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	DeleteByUsername(ctx context.Context, username string) (int64, error)
}
