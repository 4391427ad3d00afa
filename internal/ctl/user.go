package ctl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/yatube/internal/cryptox"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// getPassword prompts twice on w and reads the password without echo.
// The caller wipes the result.
func getPassword(w io.Writer) ([]byte, error) {
	fmt.Fprint(w, "Enter password: ")
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}

	fmt.Fprint(w, "Repeat password: ")
	again, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		cryptox.WipeByteArray(pw)
		return nil, err
	}
	defer cryptox.WipeByteArray(again)

	if string(pw) != string(again) {
		cryptox.WipeByteArray(pw)
		return nil, errors.New("passwords do not match")
	}
	return pw, nil
}

func (c *cli) userCommand() *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	var createName string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user; the password is read from the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := getPassword(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cryptox.WipeByteArray(pw)

			return c.withAdmin(cmd, func(ctx context.Context, a Admin) error {
				u, err := a.CreateUser(ctx, createName, pw)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created user %q (id %d)\n", u.UserName, u.ID)
				return nil
			})
		},
	}
	createCmd.Flags().StringVar(&createName, "username", "", "Login name")
	_ = createCmd.MarkFlagRequired("username")

	var deleteName string
	deleteCmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a user with their posts, comments and subscriptions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withAdmin(cmd, func(ctx context.Context, a Admin) error {
				if err := a.DeleteUser(ctx, deleteName); err != nil {
					return fmt.Errorf("user %q: %w", deleteName, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted user %q\n", deleteName)
				return nil
			})
		},
	}
	deleteCmd.Flags().StringVar(&deleteName, "username", "", "Login name of the user to delete")
	_ = deleteCmd.MarkFlagRequired("username")

	userCmd.AddCommand(createCmd, deleteCmd)
	return userCmd
}
