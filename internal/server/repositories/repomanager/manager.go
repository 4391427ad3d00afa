package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/yatube/internal/dbx"
	"github.com/dmitrijs2005/yatube/internal/server/repositories/comments"
	"github.com/dmitrijs2005/yatube/internal/server/repositories/follows"
	"github.com/dmitrijs2005/yatube/internal/server/repositories/groups"
	"github.com/dmitrijs2005/yatube/internal/server/repositories/posts"
	"github.com/dmitrijs2005/yatube/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	MigrationStatus(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Groups(db dbx.DBTX) groups.Repository
	Posts(db dbx.DBTX) posts.Repository
	Comments(db dbx.DBTX) comments.Repository
	Follows(db dbx.DBTX) follows.Repository
}
