package web

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/yatube/internal/common"
	"github.com/dmitrijs2005/yatube/internal/logging"
	"github.com/dmitrijs2005/yatube/internal/server/forms"
	"github.com/dmitrijs2005/yatube/internal/server/models"
	"github.com/dmitrijs2005/yatube/internal/server/paginator"
	"github.com/dmitrijs2005/yatube/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type fakePosts struct {
	page    *services.PostPage
	group   *services.GroupPosts
	profile *services.Profile
	detail  *services.PostDetail
	editing *models.Post
	groups  []*models.Group

	readErr    error
	panicMsg   string
	editForErr error
	createErr  error
	editErr    error
	commentErr error

	lastPage int
	created  *forms.PostForm
	edited   *forms.PostForm
	comment  *forms.CommentForm
}

func (f *fakePosts) ListPosts(ctx context.Context, page int) (*services.PostPage, error) {
	f.lastPage = page
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	return f.page, f.readErr
}

func (f *fakePosts) GroupPosts(ctx context.Context, slug string, page int) (*services.GroupPosts, error) {
	f.lastPage = page
	return f.group, f.readErr
}

func (f *fakePosts) Profile(ctx context.Context, actor models.Actor, username string, page int) (*services.Profile, error) {
	f.lastPage = page
	return f.profile, f.readErr
}

func (f *fakePosts) PostView(ctx context.Context, username string, postID int64) (*services.PostDetail, error) {
	return f.detail, f.readErr
}

func (f *fakePosts) PostForEdit(ctx context.Context, actor models.Actor, username string, postID int64) (*models.Post, error) {
	return f.editing, f.editForErr
}

func (f *fakePosts) Groups(ctx context.Context) ([]*models.Group, error) {
	return f.groups, nil
}

func (f *fakePosts) CreatePost(ctx context.Context, actor models.Actor, form *forms.PostForm) (*models.Post, error) {
	f.created = form
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Post{ID: 1, Text: form.Text, AuthorID: actor.ID()}, nil
}

func (f *fakePosts) EditPost(ctx context.Context, actor models.Actor, username string, postID int64, form *forms.PostForm) (*models.Post, error) {
	f.edited = form
	if f.editErr != nil {
		return nil, f.editErr
	}
	return &models.Post{ID: postID, Text: form.Text, AuthorID: actor.ID()}, nil
}

func (f *fakePosts) AddComment(ctx context.Context, actor models.Actor, username string, postID int64, form *forms.CommentForm) (*models.Comment, error) {
	f.comment = form
	if f.commentErr != nil {
		return nil, f.commentErr
	}
	return &models.Comment{ID: 1, PostID: postID, Text: form.Text}, nil
}

type fakeFollows struct {
	page *services.PostPage
	err  error

	followed   []string
	unfollowed []string
}

func (f *fakeFollows) FollowIndex(ctx context.Context, actor models.Actor, page int) (*services.PostPage, error) {
	return f.page, f.err
}

func (f *fakeFollows) Follow(ctx context.Context, actor models.Actor, username string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.followed = append(f.followed, username)
	return true, nil
}

func (f *fakeFollows) Unfollow(ctx context.Context, actor models.Actor, username string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.unfollowed = append(f.unfollowed, username)
	return 1, nil
}

type fakeUsers struct {
	sessions map[string]*models.User
	authErr  error

	signupUser *models.User
	signupErr  error
	loginToken string
	loginErr   error
}

func (f *fakeUsers) Signup(ctx context.Context, form *forms.SignupForm) (*models.User, error) {
	return f.signupUser, f.signupErr
}

func (f *fakeUsers) Login(ctx context.Context, form *forms.LoginForm) (string, error) {
	return f.loginToken, f.loginErr
}

func (f *fakeUsers) IssueToken(userID int64) (string, error) {
	return "issued-token", nil
}

func (f *fakeUsers) Authenticate(ctx context.Context, token string) (models.Actor, error) {
	if f.authErr != nil {
		return models.Anonymous(), f.authErr
	}
	if u, ok := f.sessions[token]; ok {
		return models.AsUser(u), nil
	}
	return models.Anonymous(), nil
}

func (f *fakeUsers) SessionValidity() time.Duration { return time.Hour }

type fakeImages struct {
	data        map[string]string
	contentType string
}

func (f *fakeImages) Save(ctx context.Context, img *forms.Image) (string, error) {
	return "posts/" + img.Filename, nil
}

func (f *fakeImages) Delete(ctx context.Context, key string) error {
	delete(f.data, key)
	return nil
}

func (f *fakeImages) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	d, ok := f.data[key]
	if !ok {
		return nil, "", common.ErrorNotFound
	}
	return io.NopCloser(strings.NewReader(d)), f.contentType, nil
}

type rendered struct {
	code int
	name string
	data gin.H
}

// recordingRenderer keeps the template name and context of every page.
type recordingRenderer struct {
	pages []rendered
}

func (r *recordingRenderer) Render(c *gin.Context, code int, name string, data gin.H) {
	r.pages = append(r.pages, rendered{code: code, name: name, data: data})
	c.String(code, name)
}

func (r *recordingRenderer) last(t *testing.T) rendered {
	t.Helper()
	require.NotEmpty(t, r.pages, "nothing rendered")
	return r.pages[len(r.pages)-1]
}

type fixture struct {
	router   *gin.Engine
	posts    *fakePosts
	follows  *fakeFollows
	users    *fakeUsers
	images   *fakeImages
	renderer *recordingRenderer

	leo *models.User
	bob *models.User
}

const (
	leoToken = "leo-token"
	bobToken = "bob-token"
)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &fixture{
		posts:    &fakePosts{},
		follows:  &fakeFollows{},
		images:   &fakeImages{data: map[string]string{}},
		renderer: &recordingRenderer{},
		leo:      &models.User{ID: 1, UserName: "leo"},
		bob:      &models.User{ID: 2, UserName: "bob"},
	}
	f.users = &fakeUsers{sessions: map[string]*models.User{leoToken: f.leo, bobToken: f.bob}}

	h := NewHandler(f.posts, f.follows, f.users, f.images, f.renderer, logging.Discard())
	router, err := NewRouter(h)
	require.NoError(t, err)
	f.router = router
	return f
}

// do sends a request, with a session cookie when token is set and a
// urlencoded body when form is non-nil.
func (f *fixture) do(method, target string, form url.Values, token string) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: common.AccessTokenCookieName, Value: token})
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

// doMultipart posts fields plus one "image" file the way a browser
// submits the post form.
func (f *fixture) doMultipart(t *testing.T, target string, fields url.Values, filename string, data []byte, token string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, values := range fields {
		for _, v := range values {
			require.NoError(t, mw.WriteField(name, v))
		}
	}
	fw, err := mw.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.AddCookie(&http.Cookie{Name: common.AccessTokenCookieName, Value: token})
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

// invalidField is what a service returns when one form field fails.
func invalidField(field, msg string) *forms.ValidationError {
	fe := forms.FieldErrors{}
	fe.Add(field, msg)
	return &forms.ValidationError{Fields: fe}
}

func samplePosts(author *models.User, n int) []*models.Post {
	out := make([]*models.Post, 0, n)
	for i := n; i >= 1; i-- {
		out = append(out, &models.Post{
			ID:       int64(i),
			Text:     "post text",
			PubDate:  time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
			AuthorID: author.ID,
			Author:   author,
		})
	}
	return out
}

func samplePage(author *models.User, n, number int) *services.PostPage {
	return paginator.Paginate(samplePosts(author, n), 10, number)
}
