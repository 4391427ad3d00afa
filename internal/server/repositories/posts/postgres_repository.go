package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/yatube/internal/common"
	"github.com/dmitrijs2005/yatube/internal/dbx"
	"github.com/dmitrijs2005/yatube/internal/server/models"
)

// selectPosts yields posts with their author and group in the column order
// scanPost expects.
const selectPosts = `SELECT p.id, p.text, p.pub_date, p.author_id, p.group_id, p.image,
		u.username,
		g.title, g.slug, g.description
	FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN groups g ON g.id = p.group_id`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the post and fills in ID and PubDate.
func (r *PostgresRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	query :=
		`INSERT INTO posts (text, author_id, group_id, image)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, pub_date
		 `

	err := r.db.QueryRowContext(ctx, query,
		post.Text, post.AuthorID, post.GroupID, post.Image).Scan(&post.ID, &post.PubDate)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return post, nil
}

// Update stores the editable fields of an existing post. Author and
// publication date never change.
func (r *PostgresRepository) Update(ctx context.Context, post *models.Post) error {
	query := `UPDATE posts SET text = $1, group_id = $2, image = $3 WHERE id = $4`

	res, err := r.db.ExecContext(ctx, query, post.Text, post.GroupID, post.Image, post.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	query := selectPosts + ` WHERE p.id = $1`
	return r.getOne(ctx, query, id)
}

// GetByAuthorAndID finds a post by id, requiring it to belong to username.
func (r *PostgresRepository) GetByAuthorAndID(ctx context.Context, username string, id int64) (*models.Post, error) {
	query := selectPosts + ` WHERE p.id = $1 AND u.username = $2`
	return r.getOne(ctx, query, id, username)
}

// List returns a window of matching posts, newest first.
func (r *PostgresRepository) List(ctx context.Context, filter Filter, limit, offset int) ([]*models.Post, error) {
	where, args := filter.clause()
	query := fmt.Sprintf("%s%s ORDER BY p.pub_date DESC, p.id DESC LIMIT $%d OFFSET $%d",
		selectPosts, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select posts: %w", err)
	}
	defer rows.Close()

	var result []*models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PostgresRepository) Count(ctx context.Context, filter Filter) (int, error) {
	where, args := filter.clause()
	query := "SELECT COUNT(*) FROM posts p" + where

	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, args ...any) (*models.Post, error) {
	p, err := scanPost(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(s scanner) (*models.Post, error) {
	var (
		p                  models.Post
		username           string
		groupID            sql.NullInt64
		title, slug, descr sql.NullString
	)

	err := s.Scan(&p.ID, &p.Text, &p.PubDate, &p.AuthorID, &groupID, &p.Image,
		&username, &title, &slug, &descr)
	if err != nil {
		return nil, err
	}

	p.Author = &models.User{ID: p.AuthorID, UserName: username}
	if groupID.Valid {
		id := groupID.Int64
		p.GroupID = &id
		p.Group = &models.Group{ID: id, Title: title.String, Slug: slug.String, Description: descr.String}
	}

	return &p, nil
}

// clause renders the filter as a WHERE suffix over posts aliased p.
func (f Filter) clause() (string, []any) {
	var (
		conds []string
		args  []any
	)

	if f.AuthorID != 0 {
		args = append(args, f.AuthorID)
		conds = append(conds, fmt.Sprintf("p.author_id = $%d", len(args)))
	}
	if f.GroupID != 0 {
		args = append(args, f.GroupID)
		conds = append(conds, fmt.Sprintf("p.group_id = $%d", len(args)))
	}
	if f.FollowerID != 0 {
		args = append(args, f.FollowerID)
		conds = append(conds, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM follows f WHERE f.author_id = p.author_id AND f.user_id = $%d)", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
