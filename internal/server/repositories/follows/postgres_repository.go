package follows

import (
	"context"
	"database/sql"
	"errors"
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

func (r *PostgresRepository) GetOrCreate(ctx context.Context, userID, authorID int64) (*models.Follow, bool, error) {
	f := &models.Follow{UserID: userID, AuthorID: authorID}

	insert :=
		`INSERT INTO follows (user_id, author_id)
		 VALUES ($1, $2)
		 ON CONFLICT ON CONSTRAINT unique_follows DO NOTHING
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, insert, userID, authorID).Scan(&f.ID, &f.CreatedAt)
	if err == nil {
		return f, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("db error: %w", err)
	}

	// the pair already exists
	query := `SELECT id, created_at FROM follows WHERE user_id = $1 AND author_id = $2`
	if err := r.db.QueryRowContext(ctx, query, userID, authorID).Scan(&f.ID, &f.CreatedAt); err != nil {
		return nil, false, fmt.Errorf("db error: %w", err)
	}
	return f, false, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, authorID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM follows WHERE user_id = $1 AND author_id = $2`, userID, authorID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, userID, authorID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM follows WHERE user_id = $1 AND author_id = $2)`

	var ok bool
	if err := r.db.QueryRowContext(ctx, query, userID, authorID).Scan(&ok); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return ok, nil
}
