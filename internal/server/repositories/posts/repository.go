package posts

import (
	"context"

	"github.com/dmitrijs2005/yatube/internal/server/models"
)

// Filter narrows a post listing. Zero fields do not filter.
//
// FollowerID selects posts whose author is followed by that user.
type Filter struct {
	AuthorID   int64
	GroupID    int64
	FollowerID int64
}

type Repository interface {
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	GetByAuthorAndID(ctx context.Context, username string, id int64) (*models.Post, error)
	List(ctx context.Context, filter Filter, limit, offset int) ([]*models.Post, error)
	Count(ctx context.Context, filter Filter) (int, error)
}
