package groups

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/yatube/internal/common"
	"github.com/dmitrijs2005/yatube/internal/dbx"
	"github.com/dmitrijs2005/yatube/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a group. A slug that is already taken yields
// common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, group *models.Group) (*models.Group, error) {
	query :=
		`INSERT INTO groups (title, slug, description)
		 VALUES ($1, $2, $3)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query, group.Title, group.Slug, group.Description).Scan(&group.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return group, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Group, error) {
	query := `SELECT id, title, slug, description FROM groups WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) GetBySlug(ctx context.Context, slug string) (*models.Group, error) {
	query := `SELECT id, title, slug, description FROM groups WHERE slug = $1`
	return r.getOne(ctx, query, slug)
}

// List returns all groups ordered by title, for the group picker.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Group, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, slug, description FROM groups ORDER BY title, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select groups: %w", err)
	}
	defer rows.Close()

	var result []*models.Group
	for rows.Next() {
		g := &models.Group{}
		if err := rows.Scan(&g.ID, &g.Title, &g.Slug, &g.Description); err != nil {
			return nil, err
		}
		result = append(result, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// DeleteBySlug removes a group. Its posts stay and lose their group.
func (r *PostgresRepository) DeleteBySlug(ctx context.Context, slug string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM groups WHERE slug = $1`, slug)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.Group, error) {
	g := &models.Group{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&g.ID, &g.Title, &g.Slug, &g.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return g, nil
}
