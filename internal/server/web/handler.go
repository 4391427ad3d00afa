// Package web serves the Yatube site over HTTP with gin. Handlers only
// translate between HTTP and the services: every outcome is a rendered
// page, a redirect or a not-found page, and anything unexpected is left
// to the error middleware, which answers 500.
package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dmitrijs2005/yatube/internal/common"
	"github.com/dmitrijs2005/yatube/internal/logging"
	"github.com/dmitrijs2005/yatube/internal/server/forms"
	"github.com/dmitrijs2005/yatube/internal/server/models"
	"github.com/dmitrijs2005/yatube/internal/server/paginator"
	"github.com/dmitrijs2005/yatube/internal/server/services"
	"github.com/dmitrijs2005/yatube/internal/server/storage"
	"github.com/gin-gonic/gin"
)

type PostService interface {
	ListPosts(ctx context.Context, page int) (*services.PostPage, error)
	GroupPosts(ctx context.Context, slug string, page int) (*services.GroupPosts, error)
	Profile(ctx context.Context, actor models.Actor, username string, page int) (*services.Profile, error)
	PostView(ctx context.Context, username string, postID int64) (*services.PostDetail, error)
	PostForEdit(ctx context.Context, actor models.Actor, username string, postID int64) (*models.Post, error)
	Groups(ctx context.Context) ([]*models.Group, error)
	CreatePost(ctx context.Context, actor models.Actor, form *forms.PostForm) (*models.Post, error)
	EditPost(ctx context.Context, actor models.Actor, username string, postID int64, form *forms.PostForm) (*models.Post, error)
	AddComment(ctx context.Context, actor models.Actor, username string, postID int64, form *forms.CommentForm) (*models.Comment, error)
}

type FollowService interface {
	FollowIndex(ctx context.Context, actor models.Actor, page int) (*services.PostPage, error)
	Follow(ctx context.Context, actor models.Actor, username string) (bool, error)
	Unfollow(ctx context.Context, actor models.Actor, username string) (int64, error)
}

type UserService interface {
	Signup(ctx context.Context, form *forms.SignupForm) (*models.User, error)
	Login(ctx context.Context, form *forms.LoginForm) (string, error)
	IssueToken(userID int64) (string, error)
	Authenticate(ctx context.Context, token string) (models.Actor, error)
	SessionValidity() time.Duration
}

type Handler struct {
	posts    PostService
	follows  FollowService
	users    UserService
	images   storage.ImageStore
	renderer Renderer
	logger   logging.Logger
}

func NewHandler(ps PostService, fs FollowService, us UserService, images storage.ImageStore, r Renderer, l logging.Logger) *Handler {
	return &Handler{
		posts:    ps,
		follows:  fs,
		users:    us,
		images:   images,
		renderer: r,
		logger:   l.With("module", "web"),
	}
}

// render adds the acting user to data and hands it to the renderer.
func (h *Handler) render(c *gin.Context, code int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["actor"] = actorFrom(c)
	h.renderer.Render(c, code, name, data)
}

func (h *Handler) notFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, "404.html", gin.H{"path": c.Request.URL.Path})
	c.Abort()
}

func (h *Handler) serverError(c *gin.Context) {
	h.render(c, http.StatusInternalServerError, "500.html", nil)
}

// fail maps a service error onto the response: not found, a login
// redirect, or a fault for the error middleware.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		h.notFound(c)
	case errors.Is(err, common.ErrorUnauthorized):
		redirectToLogin(c)
	default:
		_ = c.Error(err)
		c.Abort()
	}
}

func isValidation(err error) bool {
	var ve *forms.ValidationError
	return errors.As(err, &ve)
}

// postID parses the post_id path parameter; a malformed id is not found.
func postID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("post_id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func profilePath(username string) string {
	return "/" + url.PathEscape(username) + "/"
}

func postPath(username string, id int64) string {
	return profilePath(username) + strconv.FormatInt(id, 10) + "/"
}

func pageNumber(c *gin.Context) int {
	return paginator.ParseNumber(c.Query("page"))
}
