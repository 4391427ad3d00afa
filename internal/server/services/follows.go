package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/yatube/internal/common"
	"github.com/dmitrijs2005/yatube/internal/server/config"
	"github.com/dmitrijs2005/yatube/internal/server/models"
	"github.com/dmitrijs2005/yatube/internal/server/policy"
	"github.com/dmitrijs2005/yatube/internal/server/repositories/posts"
	"github.com/dmitrijs2005/yatube/internal/server/repositories/repomanager"
)

// FollowService manages subscriptions and the feed they produce.
type FollowService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	perPage     int
}

func NewFollowService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *FollowService {
	return &FollowService{db: db, repomanager: m, perPage: perPageOf(cfg)}
}

// FollowIndex returns a page of posts by the authors actor follows.
func (s *FollowService) FollowIndex(ctx context.Context, actor models.Actor, page int) (*PostPage, error) {
	if !actor.IsAuthenticated() {
		return nil, common.ErrorUnauthorized
	}
	return listPage(ctx, s.repomanager.Posts(s.db), posts.Filter{FollowerID: actor.ID()}, s.perPage, page)
}

// Follow subscribes actor to username. Following twice keeps one
// subscription and following yourself does nothing; created reports
// whether a new subscription was made.
func (s *FollowService) Follow(ctx context.Context, actor models.Actor, username string) (created bool, err error) {
	author, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	if !actor.IsAuthenticated() {
		return false, common.ErrorUnauthorized
	}
	if !policy.CanFollow(actor, author) {
		return false, nil
	}

	_, created, err = s.repomanager.Follows(s.db).GetOrCreate(ctx, actor.ID(), author.ID)
	return created, err
}

// Unfollow removes every subscription of actor to username and reports how
// many were removed.
func (s *FollowService) Unfollow(ctx context.Context, actor models.Actor, username string) (int64, error) {
	author, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		return 0, err
	}
	if !actor.IsAuthenticated() {
		return 0, common.ErrorUnauthorized
	}

	return s.repomanager.Follows(s.db).Delete(ctx, actor.ID(), author.ID)
}
