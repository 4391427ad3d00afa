package ctl

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/yatube/internal/server/forms"
	"github.com/spf13/cobra"
)

func (c *cli) groupCommand() *cobra.Command {
	groupCmd := &cobra.Command{
		Use:   "group",
		Short: "Manage groups",
	}

	form := &forms.GroupForm{}
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a group",
		Long: `Create a group that authors can file posts under.

Examples:
  yatubectl group create --slug cats --title "Cats" --description "All about cats"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withAdmin(cmd, func(ctx context.Context, a Admin) error {
				g, err := a.CreateGroup(ctx, form)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created group %q (id %d)\n", g.Slug, g.ID)
				return nil
			})
		},
	}
	createCmd.Flags().StringVar(&form.Slug, "slug", "", "URL slug (letters, digits, - and _)")
	createCmd.Flags().StringVar(&form.Title, "title", "", "Group title")
	createCmd.Flags().StringVar(&form.Description, "description", "", "Group description")
	_ = createCmd.MarkFlagRequired("slug")
	_ = createCmd.MarkFlagRequired("title")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withAdmin(cmd, func(ctx context.Context, a Admin) error {
				groups, err := a.ListGroups(ctx)
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tSLUG\tTITLE")
				for _, g := range groups {
					fmt.Fprintf(w, "%d\t%s\t%s\n", g.ID, g.Slug, g.Title)
				}
				return w.Flush()
			})
		},
	}

	var deleteSlug string
	deleteCmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a group; its posts stay without a group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withAdmin(cmd, func(ctx context.Context, a Admin) error {
				if err := a.DeleteGroup(ctx, deleteSlug); err != nil {
					return fmt.Errorf("group %q: %w", deleteSlug, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted group %q\n", deleteSlug)
				return nil
			})
		},
	}
	deleteCmd.Flags().StringVar(&deleteSlug, "slug", "", "Slug of the group to delete")
	_ = deleteCmd.MarkFlagRequired("slug")

	groupCmd.AddCommand(createCmd, listCmd, deleteCmd)
	return groupCmd
}
