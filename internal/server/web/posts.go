package web

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/yatube/internal/common"
	"github.com/dmitrijs2005/yatube/internal/server/forms"
	"github.com/gin-gonic/gin"
)

// index shows the latest posts of all authors.
func (h *Handler) index(c *gin.Context) {
	page, err := h.posts.ListPosts(c.Request.Context(), pageNumber(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "index.html", gin.H{"page": page, "paginator": page.Paginator})
}

func (h *Handler) groupPosts(c *gin.Context) {
	res, err := h.posts.GroupPosts(c.Request.Context(), c.Param("slug"), pageNumber(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "group.html", gin.H{
		"group":     res.Group,
		"page":      res.Page,
		"paginator": res.Page.Paginator,
	})
}

func (h *Handler) profile(c *gin.Context) {
	res, err := h.posts.Profile(c.Request.Context(), actorFrom(c), c.Param("username"), pageNumber(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "profile.html", gin.H{
		"author":     res.Author,
		"page":       res.Page,
		"paginator":  res.Page.Paginator,
		"post_count": res.PostCount,
		"following":  res.Following,
	})
}

func (h *Handler) postView(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		h.notFound(c)
		return
	}

	res, err := h.posts.PostView(c.Request.Context(), c.Param("username"), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "post.html", gin.H{
		"post":     res.Post,
		"author":   res.Author,
		"comments": res.Comments,
		"form":     &forms.CommentForm{},
	})
}

// newPost shows the empty form on GET and publishes on POST.
func (h *Handler) newPost(c *gin.Context) {
	ctx := c.Request.Context()
	form := &forms.PostForm{}

	if c.Request.Method == http.MethodPost {
		if err := bindPostForm(c, form); err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		_, err := h.posts.CreatePost(ctx, actorFrom(c), form)
		if err == nil {
			c.Redirect(http.StatusFound, "/")
			return
		}
		if !isValidation(err) {
			h.fail(c, err)
			return
		}
	}

	groups, err := h.posts.Groups(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "new_post.html", gin.H{"form": form, "groups": groups})
}

// postEdit reuses the new post template with the post prefilled. Anyone
// but the author is sent back to the post.
func (h *Handler) postEdit(c *gin.Context) {
	ctx := c.Request.Context()
	username := c.Param("username")

	id, ok := postID(c)
	if !ok {
		h.notFound(c)
		return
	}

	post, err := h.posts.PostForEdit(ctx, actorFrom(c), username, id)
	if errors.Is(err, common.ErrorForbidden) {
		c.Redirect(http.StatusFound, postPath(username, id))
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	form := &forms.PostForm{Text: post.Text}
	if post.GroupID != nil {
		form.Group = strconv.FormatInt(*post.GroupID, 10)
	}

	if c.Request.Method == http.MethodPost {
		form = &forms.PostForm{}
		if err := bindPostForm(c, form); err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		_, err := h.posts.EditPost(ctx, actorFrom(c), username, id, form)
		switch {
		case err == nil, errors.Is(err, common.ErrorForbidden):
			c.Redirect(http.StatusFound, postPath(username, id))
			return
		case !isValidation(err):
			h.fail(c, err)
			return
		}
	}

	groups, err := h.posts.Groups(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "new_post.html", gin.H{"form": form, "groups": groups, "post": post})
}

// addComment always lands back on the post; an empty comment is dropped.
func (h *Handler) addComment(c *gin.Context) {
	username := c.Param("username")
	id, ok := postID(c)
	if !ok {
		h.notFound(c)
		return
	}

	form := &forms.CommentForm{Text: c.PostForm("text")}
	_, err := h.posts.AddComment(c.Request.Context(), actorFrom(c), username, id, form)
	if err != nil && !isValidation(err) {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, postPath(username, id))
}

// bindPostForm reads the post form fields and the optional image from a
// urlencoded or multipart body.
func bindPostForm(c *gin.Context, form *forms.PostForm) error {
	form.Group = c.PostForm("group")
	form.Text = c.PostForm("text")
	form.ClearImage = c.PostForm("image-clear") != ""

	fh, err := c.FormFile("image")
	if err != nil {
		// missing file or not a multipart body
		return nil
	}

	upload, err := readUpload(fh)
	if err != nil {
		return err
	}
	form.Image = upload
	return nil
}

// readUpload reads at most one byte past forms.MaxImageSize, so an
// oversized file is reported by the form instead of being cut short.
func readUpload(fh *multipart.FileHeader) (*forms.Upload, error) {
	upload := &forms.Upload{Filename: fh.Filename, Size: fh.Size}
	if upload.TooLarge() {
		return upload, nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	upload.Data, err = io.ReadAll(io.LimitReader(f, forms.MaxImageSize+1))
	if err != nil {
		return nil, err
	}
	return upload, nil
}
