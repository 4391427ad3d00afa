package web

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// media streams an uploaded picture from the image store.
func (h *Handler) media(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		h.notFound(c)
		return
	}

	body, contentType, err := h.images.Open(c.Request.Context(), key)
	if err != nil {
		h.fail(c, err)
		return
	}
	defer body.Close()

	c.DataFromReader(http.StatusOK, -1, contentType, body, nil)
}
