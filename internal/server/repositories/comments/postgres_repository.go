package comments

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/yatube/internal/dbx"
	"github.com/dmitrijs2005/yatube/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	query :=
		`INSERT INTO comments (post_id, author_id, text)
		 VALUES ($1, $2, $3)
		 RETURNING id, created
		 `

	err := r.db.QueryRowContext(ctx, query,
		comment.PostID, comment.AuthorID, comment.Text).Scan(&comment.ID, &comment.Created)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return comment, nil
}

// ListByPost returns the comments of a post with their authors, oldest first.
func (r *PostgresRepository) ListByPost(ctx context.Context, postID int64) ([]*models.Comment, error) {
	query :=
		`SELECT c.id, c.post_id, c.author_id, c.text, c.created, u.username
		 FROM comments c
		 JOIN users u ON u.id = c.author_id
		 WHERE c.post_id = $1
		 ORDER BY c.created, c.id
		 `

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to select comments: %w", err)
	}
	defer rows.Close()

	var result []*models.Comment
	for rows.Next() {
		c := &models.Comment{}
		var username string
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Text, &c.Created, &username); err != nil {
			return nil, err
		}
		c.Author = &models.User{ID: c.AuthorID, UserName: username}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
