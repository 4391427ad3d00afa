package services

import (
	"context"
	"database/sql"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/yatube/internal/common"
	"github.com/dmitrijs2005/yatube/internal/dbx"
	"github.com/dmitrijs2005/yatube/internal/server/forms"
	"github.com/dmitrijs2005/yatube/internal/server/models"
	"github.com/dmitrijs2005/yatube/internal/server/repositories/comments"
	"github.com/dmitrijs2005/yatube/internal/server/repositories/follows"
	"github.com/dmitrijs2005/yatube/internal/server/repositories/groups"
	"github.com/dmitrijs2005/yatube/internal/server/repositories/posts"
	"github.com/dmitrijs2005/yatube/internal/server/repositories/users"
)

// memStore is an in-memory stand-in for the database behind every fake
// repository. err, when set, is returned by every operation.
type memStore struct {
	mu       sync.Mutex
	nextID   int64
	users    []*models.User
	groups   []*models.Group
	posts    []*models.Post
	comments []*models.Comment
	follows  []*models.Follow
	err      error
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) addUser(name string) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &models.User{ID: s.id(), UserName: name}
	s.users = append(s.users, u)
	return u
}

func (s *memStore) addGroup(slug string) *models.Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := &models.Group{ID: s.id(), Slug: slug, Title: slug}
	s.groups = append(s.groups, g)
	return g
}

func (s *memStore) addPost(author *models.User, text string, group *models.Group) *models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &models.Post{ID: s.id(), Text: text, AuthorID: author.ID, PubDate: time.Now()}
	if group != nil {
		p.GroupID = &group.ID
	}
	s.posts = append(s.posts, p)
	return p
}

func (s *memStore) postCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.posts)
}

func (s *memStore) followCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.follows)
}

func (s *memStore) userByID(id int64) *models.User {
	for _, u := range s.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (s *memStore) groupByID(id int64) *models.Group {
	for _, g := range s.groups {
		if g.ID == id {
			return g
		}
	}
	return nil
}

// joined returns a copy of p with Author and Group filled in.
func (s *memStore) joined(p *models.Post) *models.Post {
	cp := *p
	if u := s.userByID(p.AuthorID); u != nil {
		cp.Author = &models.User{ID: u.ID, UserName: u.UserName}
	}
	if p.GroupID != nil {
		id := *p.GroupID
		cp.GroupID = &id
		cp.Group = s.groupByID(id)
	}
	return &cp
}

// fakeManager implements repomanager.RepositoryManager over a memStore and
// counts migration runs.
type fakeManager struct {
	s          *memStore
	migrations int
}

func (m *fakeManager) RunMigrations(context.Context, *sql.DB) error {
	m.migrations++
	return m.s.err
}

func (m *fakeManager) MigrationStatus(context.Context, *sql.DB) error {
	return m.s.err
}

func (m *fakeManager) Users(dbx.DBTX) users.Repository {
	return &fakeUsers{m.s}
}

func (m *fakeManager) Groups(dbx.DBTX) groups.Repository {
	return &fakeGroups{m.s}
}

func (m *fakeManager) Posts(dbx.DBTX) posts.Repository {
	return &fakePosts{m.s}
}

func (m *fakeManager) Comments(dbx.DBTX) comments.Repository {
	return &fakeComments{m.s}
}

func (m *fakeManager) Follows(dbx.DBTX) follows.Repository {
	return &fakeFollows{m.s}
}

type fakeUsers struct{ s *memStore }

func (f *fakeUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return nil, f.s.err
	}
	for _, x := range f.s.users {
		if x.UserName == u.UserName {
			return nil, common.ErrorAlreadyExists
		}
	}
	u.ID = f.s.id()
	u.CreatedAt = time.Now()
	f.s.users = append(f.s.users, u)
	return u, nil
}

func (f *fakeUsers) GetByID(ctx context.Context, id int64) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return nil, f.s.err
	}
	if u := f.s.userByID(id); u != nil {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return nil, f.s.err
	}
	for _, u := range f.s.users {
		if u.UserName == username {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsers) DeleteByUsername(ctx context.Context, username string) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for i, u := range f.s.users {
		if u.UserName == username {
			f.s.users = append(f.s.users[:i], f.s.users[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

type fakeGroups struct{ s *memStore }

func (f *fakeGroups) Create(ctx context.Context, g *models.Group) (*models.Group, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return nil, f.s.err
	}
	for _, x := range f.s.groups {
		if x.Slug == g.Slug {
			return nil, common.ErrorAlreadyExists
		}
	}
	g.ID = f.s.id()
	f.s.groups = append(f.s.groups, g)
	return g, nil
}

func (f *fakeGroups) GetByID(ctx context.Context, id int64) (*models.Group, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return nil, f.s.err
	}
	if g := f.s.groupByID(id); g != nil {
		return g, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeGroups) GetBySlug(ctx context.Context, slug string) (*models.Group, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return nil, f.s.err
	}
	for _, g := range f.s.groups {
		if g.Slug == slug {
			return g, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeGroups) List(ctx context.Context) ([]*models.Group, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return append([]*models.Group(nil), f.s.groups...), f.s.err
}

func (f *fakeGroups) DeleteBySlug(ctx context.Context, slug string) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return 0, f.s.err
	}
	for i, g := range f.s.groups {
		if g.Slug == slug {
			f.s.groups = append(f.s.groups[:i], f.s.groups[i+1:]...)
			for _, p := range f.s.posts {
				if p.GroupID != nil && *p.GroupID == g.ID {
					p.GroupID = nil
				}
			}
			return 1, nil
		}
	}
	return 0, nil
}

type fakePosts struct{ s *memStore }

func (f *fakePosts) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return nil, f.s.err
	}
	p.ID = f.s.id()
	p.PubDate = time.Now()
	stored := *p
	f.s.posts = append(f.s.posts, &stored)
	return p, nil
}

func (f *fakePosts) Update(ctx context.Context, p *models.Post) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return f.s.err
	}
	for _, x := range f.s.posts {
		if x.ID == p.ID {
			x.Text, x.GroupID, x.Image = p.Text, p.GroupID, p.Image
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakePosts) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return nil, f.s.err
	}
	for _, p := range f.s.posts {
		if p.ID == id {
			return f.s.joined(p), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakePosts) GetByAuthorAndID(ctx context.Context, username string, id int64) (*models.Post, error) {
	p, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Author == nil || p.Author.UserName != username {
		return nil, common.ErrorNotFound
	}
	return p, nil
}

func (f *fakePosts) match(filter posts.Filter) []*models.Post {
	var out []*models.Post
	for _, p := range f.s.posts {
		if filter.AuthorID != 0 && p.AuthorID != filter.AuthorID {
			continue
		}
		if filter.GroupID != 0 && (p.GroupID == nil || *p.GroupID != filter.GroupID) {
			continue
		}
		if filter.FollowerID != 0 && !f.follows(filter.FollowerID, p.AuthorID) {
			continue
		}
		out = append(out, f.s.joined(p))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].PubDate.Equal(out[j].PubDate) {
			return out[i].PubDate.After(out[j].PubDate)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (f *fakePosts) follows(userID, authorID int64) bool {
	for _, fl := range f.s.follows {
		if fl.UserID == userID && fl.AuthorID == authorID {
			return true
		}
	}
	return false
}

func (f *fakePosts) List(ctx context.Context, filter posts.Filter, limit, offset int) ([]*models.Post, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return nil, f.s.err
	}
	all := f.match(filter)
	if offset > len(all) {
		offset = len(all)
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (f *fakePosts) Count(ctx context.Context, filter posts.Filter) (int, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return 0, f.s.err
	}
	return len(f.match(filter)), nil
}

type fakeComments struct{ s *memStore }

func (f *fakeComments) Create(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return nil, f.s.err
	}
	c.ID = f.s.id()
	c.Created = time.Now()
	f.s.comments = append(f.s.comments, c)
	return c, nil
}

func (f *fakeComments) ListByPost(ctx context.Context, postID int64) ([]*models.Comment, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return nil, f.s.err
	}
	var out []*models.Comment
	for _, c := range f.s.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeFollows struct{ s *memStore }

func (f *fakeFollows) GetOrCreate(ctx context.Context, userID, authorID int64) (*models.Follow, bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return nil, false, f.s.err
	}
	for _, fl := range f.s.follows {
		if fl.UserID == userID && fl.AuthorID == authorID {
			return fl, false, nil
		}
	}
	fl := &models.Follow{ID: f.s.id(), UserID: userID, AuthorID: authorID, CreatedAt: time.Now()}
	f.s.follows = append(f.s.follows, fl)
	return fl, true, nil
}

func (f *fakeFollows) Delete(ctx context.Context, userID, authorID int64) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return 0, f.s.err
	}
	var n int64
	kept := f.s.follows[:0]
	for _, fl := range f.s.follows {
		if fl.UserID == userID && fl.AuthorID == authorID {
			n++
			continue
		}
		kept = append(kept, fl)
	}
	f.s.follows = kept
	return n, nil
}

func (f *fakeFollows) Exists(ctx context.Context, userID, authorID int64) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return false, f.s.err
	}
	for _, fl := range f.s.follows {
		if fl.UserID == userID && fl.AuthorID == authorID {
			return true, nil
		}
	}
	return false, nil
}

// fakeImages records saved and deleted pictures. afterSave runs once a
// picture is stored.
type fakeImages struct {
	saved     []*forms.Image
	deleted   []string
	err       error
	deleteErr error
	afterSave func()
}

func (f *fakeImages) Save(ctx context.Context, img *forms.Image) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.saved = append(f.saved, img)
	if f.afterSave != nil {
		f.afterSave()
	}
	return "posts/" + img.Filename, nil
}

func (f *fakeImages) Delete(ctx context.Context, key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeImages) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	return nil, "", common.ErrorNotFound
}

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}
