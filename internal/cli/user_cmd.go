package cli

import (
	"fmt"

	"github.com/alexanderramin/rkam/internal/cli/formatter"
	"github.com/alexanderramin/rkam/internal/domain"
	"github.com/spf13/cobra"
)

func newUserCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage the user directory",
	}
	cmd.AddCommand(newUserAddCmd(app), newUserListCmd(app))
	return cmd
}

func newUserAddCmd(app *App) *cobra.Command {
	var roleFlag string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Register a user with a role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, ok := domain.ParseRole(roleFlag)
			if !ok {
				return fmt.Errorf("unknown role %q: %w", roleFlag, domain.ErrValidation)
			}
			u, err := app.Users.Create(cmd.Context(), args[0], role)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s as %s (%s)\n", u.Name, u.Role, u.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&roleFlag, "role", "", "pengusul, verifikator, kepala_madrasah, komite_madrasah or bendahara")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}

func newUserListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := app.Users.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatUsers(users))
			return nil
		},
	}
}
