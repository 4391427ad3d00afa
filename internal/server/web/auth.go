package web

import (
	"net/http"

	"github.com/dmitrijs2005/yatube/internal/common"
	"github.com/dmitrijs2005/yatube/internal/server/forms"
	"github.com/gin-gonic/gin"
)

func (h *Handler) signup(c *gin.Context) {
	form := &forms.SignupForm{}

	if c.Request.Method == http.MethodPost {
		form.Username = c.PostForm("username")
		form.Password = c.PostForm("password1")
		form.Password2 = c.PostForm("password2")

		u, err := h.users.Signup(c.Request.Context(), form)
		if err == nil {
			if err := h.startSession(c, u.ID); err != nil {
				h.fail(c, err)
				return
			}
			c.Redirect(http.StatusFound, "/")
			return
		}
		if !isValidation(err) {
			h.fail(c, err)
			return
		}
	}

	h.render(c, http.StatusOK, "signup.html", gin.H{"form": form})
}

func (h *Handler) login(c *gin.Context) {
	form := &forms.LoginForm{}
	next := c.Query("next")

	if c.Request.Method == http.MethodPost {
		form.Username = c.PostForm("username")
		form.Password = c.PostForm("password")
		if v := c.PostForm("next"); v != "" {
			next = v
		}

		token, err := h.users.Login(c.Request.Context(), form)
		// bad credentials are both unauthorized and a form error
		if err == nil {
			h.setSessionCookie(c, token)
			c.Redirect(http.StatusFound, safeNext(next))
			return
		}
		if !isValidation(err) {
			h.fail(c, err)
			return
		}
	}

	h.render(c, http.StatusOK, "login.html", gin.H{"form": form, "next": next})
}

func (h *Handler) logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(common.AccessTokenCookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) startSession(c *gin.Context, userID int64) error {
	token, err := h.users.IssueToken(userID)
	if err != nil {
		return err
	}
	h.setSessionCookie(c, token)
	return nil
}

func (h *Handler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(common.AccessTokenCookieName, token, int(h.users.SessionValidity().Seconds()), "/", "", false, true)
}
