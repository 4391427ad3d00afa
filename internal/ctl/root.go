// Package ctl implements yatubectl, the administration tool that works on
// the database directly: migrations, groups and user accounts.
package ctl

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/yatube/internal/server/config"
	"github.com/dmitrijs2005/yatube/internal/server/forms"
	"github.com/dmitrijs2005/yatube/internal/server/models"
	"github.com/spf13/cobra"
)

// Admin is the set of operations the commands run.
type Admin interface {
	Migrate(ctx context.Context) error
	MigrationStatus(ctx context.Context) error
	CreateGroup(ctx context.Context, form *forms.GroupForm) (*models.Group, error)
	ListGroups(ctx context.Context) ([]*models.Group, error)
	DeleteGroup(ctx context.Context, slug string) error
	CreateUser(ctx context.Context, username string, password []byte) (*models.User, error)
	DeleteUser(ctx context.Context, username string) error
}

// Opener connects to the database at dsn. The returned func releases the
// connection.
type Opener func(ctx context.Context, dsn string) (Admin, func() error, error)

type cli struct {
	open  Opener
	dbURL string
}

// NewRootCommand builds the yatubectl command tree.
func NewRootCommand(open Opener) *cobra.Command {
	c := &cli{open: open}

	defaults := &config.Config{}
	defaults.LoadDefaults()

	root := &cobra.Command{
		Use:           "yatubectl",
		Short:         "Yatube administration",
		Long:          "yatubectl manages the Yatube database: schema migrations, groups and user accounts.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&c.dbURL, "db", defaults.DatabaseDSN, "Database connection URL")

	root.AddCommand(c.migrateCommand(), c.groupCommand(), c.userCommand())
	return root
}

// withAdmin opens the database for the duration of fn.
func (c *cli) withAdmin(cmd *cobra.Command, fn func(ctx context.Context, a Admin) error) error {
	if c.dbURL == "" {
		return fmt.Errorf("--db flag is required")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, closeFn, err := c.open(ctx, c.dbURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer closeFn()

	return describe(fn(ctx, a))
}

// describe spells out form errors, which otherwise only name the fields.
func describe(err error) error {
	var ve *forms.ValidationError
	if !errors.As(err, &ve) {
		return err
	}

	fields := make([]string, 0, len(ve.Fields))
	for f := range ve.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s: %s", f, strings.Join(ve.Fields[f], " "))
	}
	return errors.New(b.String())
}
