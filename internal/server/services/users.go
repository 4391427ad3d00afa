package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/yatube/internal/common"
	"github.com/dmitrijs2005/yatube/internal/cryptox"
	"github.com/dmitrijs2005/yatube/internal/server/auth"
	"github.com/dmitrijs2005/yatube/internal/server/config"
	"github.com/dmitrijs2005/yatube/internal/server/forms"
	"github.com/dmitrijs2005/yatube/internal/server/models"
	"github.com/dmitrijs2005/yatube/internal/server/repositories/repomanager"
)

// UserService provides authentication-related operations:
// - Signup: create users from the signup form
// - Login: verify credentials and mint a session token
// - Authenticate: resolve a session token to the acting user
type UserService struct {
	db                      *sql.DB
	repomanager             repomanager.RepositoryManager
	jwtSecret               []byte
	sessionValidityDuration time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                      db,
		repomanager:             m,
		jwtSecret:               []byte(cfg.SecretKey),
		sessionValidityDuration: cfg.SessionValidityDuration,
	}
}

// Register stores a user with a fresh password verifier. A taken username
// yields common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, username string, password []byte) (*models.User, error) {
	salt, verifier := cryptox.NewVerifier(password)
	user := &models.User{UserName: username, Salt: salt, Verifier: verifier}

	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Signup validates the form and registers the user.
func (s *UserService) Signup(ctx context.Context, form *forms.SignupForm) (*models.User, error) {
	username, err := form.Validate()
	if err != nil {
		return nil, err
	}

	u, err := s.Register(ctx, username, []byte(form.Password))
	if errors.Is(err, common.ErrorAlreadyExists) {
		return nil, form.RejectUsername()
	}
	return u, err
}

// Login checks the credentials and returns a session token. Bad
// credentials yield an error matching both common.ErrorUnauthorized and
// *forms.ValidationError.
func (s *UserService) Login(ctx context.Context, form *forms.LoginForm) (string, error) {
	if err := form.Validate(); err != nil {
		return "", err
	}

	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, form.Username)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			return "", err
		}
		// spend the same effort as a real check
		cryptox.CheckPassword([]byte(form.Password), s.getRandomSalt(), nil)
		return "", fmt.Errorf("%w: %w", common.ErrorUnauthorized, form.RejectCredentials())
	}

	if !cryptox.CheckPassword([]byte(form.Password), user.Salt, user.Verifier) {
		return "", fmt.Errorf("%w: %w", common.ErrorUnauthorized, form.RejectCredentials())
	}

	return s.IssueToken(user.ID)
}

// IssueToken mints a session token for userID.
func (s *UserService) IssueToken(userID int64) (string, error) {
	token, err := auth.GenerateToken(userID, s.jwtSecret, s.sessionValidityDuration)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

// Authenticate resolves a session token to the acting user. A token that
// does not lead to an existing user gives the anonymous actor; only store
// failures are returned as errors.
func (s *UserService) Authenticate(ctx context.Context, token string) (models.Actor, error) {
	if token == "" {
		return models.Anonymous(), nil
	}

	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return models.Anonymous(), nil
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return models.Anonymous(), nil
		}
		return models.Anonymous(), err
	}

	return models.AsUser(user), nil
}

// SessionValidity is how long an issued token stays valid.
func (s *UserService) SessionValidity() time.Duration {
	return s.sessionValidityDuration
}

func (s *UserService) getRandomSalt() []byte { return common.GenerateRandByteArray(cryptox.SaltSize) }
