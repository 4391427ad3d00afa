package web

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/yatube/internal/common"
	"github.com/dmitrijs2005/yatube/internal/server/models"
	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

// loginPath is where anonymous users are sent from login-only pages.
const loginPath = "/auth/login/"

func actorFrom(c *gin.Context) models.Actor {
	if v, ok := c.Get(actorKey); ok {
		if a, ok := v.(models.Actor); ok {
			return a
		}
	}
	return models.Anonymous()
}

// authenticate resolves the session cookie to the acting user.
func (h *Handler) authenticate(c *gin.Context) {
	token, _ := c.Cookie(common.AccessTokenCookieName)

	actor, err := h.users.Authenticate(c.Request.Context(), token)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	c.Set(actorKey, actor)
	c.Next()
}

// requireLogin sends anonymous users to the login page, remembering where
// they were going.
func (h *Handler) requireLogin(c *gin.Context) {
	if !actorFrom(c).IsAuthenticated() {
		redirectToLogin(c)
		return
	}
	c.Next()
}

func redirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusFound, loginPath+"?"+url.Values{"next": {c.Request.URL.RequestURI()}}.Encode())
	c.Abort()
}

// safeNext returns next when it is a local path, otherwise "/".
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

// errorHandler turns errors left by handlers into the 500 page.
func (h *Handler) errorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 {
		return
	}

	h.logger.Error(c.Request.Context(), "request failed",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"error", c.Errors.String())

	if !c.Writer.Written() {
		h.serverError(c)
	}
}

func (h *Handler) recovery(c *gin.Context, err any) {
	h.logger.Error(c.Request.Context(), "panic recovered", "path", c.Request.URL.Path, "panic", err)
	if !c.Writer.Written() {
		h.serverError(c)
	}
	c.Abort()
}

func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()

	h.logger.Info(c.Request.Context(), "request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"duration", time.Since(start))
}
