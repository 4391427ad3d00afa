package web

import (
	"github.com/dmitrijs2005/yatube/internal/server/forms"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the engine with the middleware chain and all routes.
// Fixed prefixes are registered next to the author catch-all; gin prefers
// static segments.
func NewRouter(h *Handler) (*gin.Engine, error) {
	tmpl, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.MaxMultipartMemory = forms.MaxImageSize
	r.RedirectTrailingSlash = true

	r.Use(gin.CustomRecovery(h.recovery), h.requestLogger, h.errorHandler, h.authenticate)

	r.GET("/", h.index)
	r.GET("/new/", h.requireLogin, h.newPost)
	r.POST("/new/", h.requireLogin, h.newPost)
	r.GET("/follow/", h.requireLogin, h.followIndex)
	r.GET("/group/:slug/", h.groupPosts)
	r.GET("/media/*key", h.media)

	auth := r.Group("/auth")
	{
		auth.GET("/signup/", h.signup)
		auth.POST("/signup/", h.signup)
		auth.GET("/login/", h.login)
		auth.POST("/login/", h.login)
		auth.GET("/logout/", h.logout)
	}

	r.GET("/:username/", h.profile)
	r.GET("/:username/follow/", h.requireLogin, h.profileFollow)
	r.GET("/:username/unfollow/", h.requireLogin, h.profileUnfollow)
	r.GET("/:username/:post_id/", h.postView)
	r.GET("/:username/:post_id/edit/", h.requireLogin, h.postEdit)
	r.POST("/:username/:post_id/edit/", h.requireLogin, h.postEdit)
	r.POST("/:username/:post_id/comment/", h.requireLogin, h.addComment)

	r.NoRoute(h.notFound)

	return r, nil
}
