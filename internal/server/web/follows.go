package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const followIndexPath = "/follow/"

// followIndex is the feed of authors the user follows.
func (h *Handler) followIndex(c *gin.Context) {
	page, err := h.follows.FollowIndex(c.Request.Context(), actorFrom(c), pageNumber(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "follow.html", gin.H{"page": page, "paginator": page.Paginator})
}

func (h *Handler) profileFollow(c *gin.Context) {
	if _, err := h.follows.Follow(c.Request.Context(), actorFrom(c), c.Param("username")); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, followIndexPath)
}

func (h *Handler) profileUnfollow(c *gin.Context) {
	if _, err := h.follows.Unfollow(c.Request.Context(), actorFrom(c), c.Param("username")); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, followIndexPath)
}
