package follows

import (
	"context"

	"github.com/dmitrijs2005/yatube/internal/server/models"
)

type Repository interface {
	// GetOrCreate returns the follow for the pair, creating it when absent.
	// created reports whether a new row was inserted.
	GetOrCreate(ctx context.Context, userID, authorID int64) (follow *models.Follow, created bool, err error)
	// Delete removes every follow for the pair and returns how many went.
	Delete(ctx context.Context, userID, authorID int64) (int64, error)
	Exists(ctx context.Context, userID, authorID int64) (bool, error)
}
