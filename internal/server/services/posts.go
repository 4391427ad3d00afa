// Package services contains server-side business logic. Every use case
// takes the acting user explicitly, consults the policy before mutating
// anything and reports outcomes through the sentinel errors in
// internal/common and *forms.ValidationError.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/yatube/internal/common"
	"github.com/dmitrijs2005/yatube/internal/dbx"
	"github.com/dmitrijs2005/yatube/internal/server/config"
	"github.com/dmitrijs2005/yatube/internal/server/forms"
	"github.com/dmitrijs2005/yatube/internal/server/models"
	"github.com/dmitrijs2005/yatube/internal/server/paginator"
	"github.com/dmitrijs2005/yatube/internal/server/policy"
	"github.com/dmitrijs2005/yatube/internal/server/repositories/posts"
	"github.com/dmitrijs2005/yatube/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/yatube/internal/server/storage"
)

// PostPage is one page of a post listing.
type PostPage = paginator.Page[*models.Post]

// GroupPosts is a group with one page of its posts.
type GroupPosts struct {
	Group *models.Group
	Page  *PostPage
}

// Profile is an author page. Following reports whether the viewer follows
// the author.
type Profile struct {
	Author    *models.User
	Page      *PostPage
	PostCount int
	Following bool
}

// PostDetail is a single post with its comments, oldest first.
type PostDetail struct {
	Post     *models.Post
	Author   *models.User
	Comments []*models.Comment
}

// PostService implements reading, publishing, editing and commenting on
// posts.
type PostService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	images      storage.ImageStore
	perPage     int
}

func NewPostService(db *sql.DB, m repomanager.RepositoryManager, images storage.ImageStore, cfg *config.Config) *PostService {
	return &PostService{
		db:          db,
		repomanager: m,
		images:      images,
		perPage:     perPageOf(cfg),
	}
}

func perPageOf(cfg *config.Config) int {
	if cfg == nil || cfg.PostsPerPage < 1 {
		return common.DefaultPostsPerPage
	}
	return cfg.PostsPerPage
}

// listPage counts the posts matching filter and fetches the requested page,
// resolving out-of-range numbers to the last page.
func listPage(ctx context.Context, repo posts.Repository, filter posts.Filter, perPage, number int) (*PostPage, error) {
	count, err := repo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	p := paginator.New(count, perPage)
	offset, limit := p.Bounds(number)

	items, err := repo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}

	return paginator.NewPage(items, number, p), nil
}

// ListPosts returns a page of all posts, newest first.
func (s *PostService) ListPosts(ctx context.Context, page int) (*PostPage, error) {
	return listPage(ctx, s.repomanager.Posts(s.db), posts.Filter{}, s.perPage, page)
}

// GroupPosts returns the group identified by slug with a page of its posts.
func (s *PostService) GroupPosts(ctx context.Context, slug string, page int) (*GroupPosts, error) {
	group, err := s.repomanager.Groups(s.db).GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	pg, err := listPage(ctx, s.repomanager.Posts(s.db), posts.Filter{GroupID: group.ID}, s.perPage, page)
	if err != nil {
		return nil, err
	}

	return &GroupPosts{Group: group, Page: pg}, nil
}

// Profile returns the author page of username as seen by actor.
func (s *PostService) Profile(ctx context.Context, actor models.Actor, username string, page int) (*Profile, error) {
	author, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	pg, err := listPage(ctx, s.repomanager.Posts(s.db), posts.Filter{AuthorID: author.ID}, s.perPage, page)
	if err != nil {
		return nil, err
	}

	profile := &Profile{Author: author, Page: pg, PostCount: pg.Paginator.Count}

	if actor.IsAuthenticated() && !actor.Is(author.ID) {
		profile.Following, err = s.repomanager.Follows(s.db).Exists(ctx, actor.ID(), author.ID)
		if err != nil {
			return nil, err
		}
	}

	return profile, nil
}

// PostView returns the post id written by username. A post that exists
// under another author is not found.
func (s *PostService) PostView(ctx context.Context, username string, postID int64) (*PostDetail, error) {
	post, err := s.repomanager.Posts(s.db).GetByAuthorAndID(ctx, username, postID)
	if err != nil {
		return nil, err
	}

	comments, err := s.repomanager.Comments(s.db).ListByPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	return &PostDetail{Post: post, Author: post.Author, Comments: comments}, nil
}

// PostForEdit returns the post to prefill the edit form. Anyone but the
// author gets common.ErrorForbidden.
func (s *PostService) PostForEdit(ctx context.Context, actor models.Actor, username string, postID int64) (*models.Post, error) {
	post, err := s.repomanager.Posts(s.db).GetByAuthorAndID(ctx, username, postID)
	if err != nil {
		return nil, err
	}
	if !policy.CanEditPost(actor, post) {
		return nil, common.ErrorForbidden
	}
	return post, nil
}

// Groups lists the groups a post can be filed under.
func (s *PostService) Groups(ctx context.Context) ([]*models.Group, error) {
	return s.repomanager.Groups(s.db).List(ctx)
}

// CreatePost publishes the form as a new post by actor.
func (s *PostService) CreatePost(ctx context.Context, actor models.Actor, form *forms.PostForm) (*models.Post, error) {
	if !policy.CanCreatePost(actor) {
		return nil, common.ErrorUnauthorized
	}

	draft, err := s.validatePost(ctx, form)
	if err != nil {
		return nil, err
	}

	post := &models.Post{Text: draft.Text, AuthorID: actor.ID(), GroupID: draft.GroupID}
	if draft.Image != nil {
		if post.Image, err = s.images.Save(ctx, draft.Image); err != nil {
			return nil, err
		}
	}

	created, err := s.repomanager.Posts(s.db).Create(ctx, post)
	if err != nil {
		return nil, s.dropImage(ctx, post.Image, err)
	}
	return created, nil
}

// dropImage deletes a picture stored for a post that was never saved.
// A failed delete is joined to cause.
func (s *PostService) dropImage(ctx context.Context, key string, cause error) error {
	if key == "" {
		return cause
	}
	return errors.Join(cause, s.images.Delete(ctx, key))
}

// EditPost applies the form to the post id written by username. Only the
// author may edit; the image is replaced when a new one is uploaded,
// removed when ClearImage is set and kept otherwise.
func (s *PostService) EditPost(ctx context.Context, actor models.Actor, username string, postID int64, form *forms.PostForm) (*models.Post, error) {
	post, err := s.PostForEdit(ctx, actor, username, postID)
	if err != nil {
		return nil, err
	}

	draft, err := s.validatePost(ctx, form)
	if err != nil {
		return nil, err
	}

	var image string
	if draft.Image != nil {
		if image, err = s.images.Save(ctx, draft.Image); err != nil {
			return nil, err
		}
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Posts(tx)

		current, err := repo.GetByID(ctx, post.ID)
		if err != nil {
			return err
		}

		current.Text = draft.Text
		current.GroupID = draft.GroupID
		switch {
		case image != "":
			current.Image = image
		case draft.ClearImage:
			current.Image = ""
		}

		if err := repo.Update(ctx, current); err != nil {
			return err
		}
		post = current
		return nil
	})
	if err != nil {
		return nil, s.dropImage(ctx, image, fmt.Errorf("error updating post: %w", err))
	}

	return post, nil
}

// AddComment attaches the form text to the post id written by username.
// An empty comment yields *forms.ValidationError and changes nothing.
func (s *PostService) AddComment(ctx context.Context, actor models.Actor, username string, postID int64, form *forms.CommentForm) (*models.Comment, error) {
	post, err := s.repomanager.Posts(s.db).GetByAuthorAndID(ctx, username, postID)
	if err != nil {
		return nil, err
	}
	if !policy.CanComment(actor) {
		return nil, common.ErrorUnauthorized
	}

	text, err := form.Validate()
	if err != nil {
		return nil, err
	}

	return s.repomanager.Comments(s.db).Create(ctx, &models.Comment{
		PostID:   post.ID,
		AuthorID: actor.ID(),
		Text:     text,
	})
}

// validatePost validates the form and checks that the chosen group exists.
func (s *PostService) validatePost(ctx context.Context, form *forms.PostForm) (*forms.PostDraft, error) {
	draft, err := form.Validate()
	if err != nil {
		return nil, err
	}

	if draft.GroupID != nil {
		_, err := s.repomanager.Groups(s.db).GetByID(ctx, *draft.GroupID)
		if errors.Is(err, common.ErrorNotFound) {
			return nil, form.RejectGroup()
		}
		if err != nil {
			return nil, err
		}
	}

	return draft, nil
}
