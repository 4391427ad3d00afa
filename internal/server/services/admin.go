package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/yatube/internal/common"
	"github.com/dmitrijs2005/yatube/internal/server/forms"
	"github.com/dmitrijs2005/yatube/internal/server/models"
	"github.com/dmitrijs2005/yatube/internal/server/repositories/repomanager"
)

// AdminService holds the out-of-band operations behind yatubectl: schema
// migrations, group management and user accounts.
type AdminService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	users       *UserService
}

func NewAdminService(db *sql.DB, m repomanager.RepositoryManager, us *UserService) *AdminService {
	return &AdminService{db: db, repomanager: m, users: us}
}

func (s *AdminService) Migrate(ctx context.Context) error {
	return s.repomanager.RunMigrations(ctx, s.db)
}

func (s *AdminService) MigrationStatus(ctx context.Context) error {
	return s.repomanager.MigrationStatus(ctx, s.db)
}

// CreateGroup validates form and stores the group. A taken slug is
// reported as a form error.
func (s *AdminService) CreateGroup(ctx context.Context, form *forms.GroupForm) (*models.Group, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	g, err := s.repomanager.Groups(s.db).Create(ctx, &models.Group{
		Title:       form.Title,
		Slug:        form.Slug,
		Description: form.Description,
	})
	if errors.Is(err, common.ErrorAlreadyExists) {
		return nil, form.RejectSlug()
	}
	if err != nil {
		return nil, fmt.Errorf("error creating group: %w", err)
	}
	return g, nil
}

func (s *AdminService) ListGroups(ctx context.Context) ([]*models.Group, error) {
	return s.repomanager.Groups(s.db).List(ctx)
}

// DeleteGroup removes the group; its posts stay without a group.
func (s *AdminService) DeleteGroup(ctx context.Context, slug string) error {
	n, err := s.repomanager.Groups(s.db).DeleteBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// CreateUser registers an account with the same rules as the signup page.
func (s *AdminService) CreateUser(ctx context.Context, username string, password []byte) (*models.User, error) {
	form := &forms.SignupForm{Username: username, Password: string(password), Password2: string(password)}
	return s.users.Signup(ctx, form)
}

// DeleteUser removes the account together with its posts, comments and
// subscriptions.
func (s *AdminService) DeleteUser(ctx context.Context, username string) error {
	n, err := s.repomanager.Users(s.db).DeleteByUsername(ctx, username)
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
