package cli

import (
	"fmt"

	"github.com/alexanderramin/rkam/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Load a yearly budget plan (JSON or YAML) with its budget lines and users",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Import == nil {
				return fmt.Errorf("import service is not configured")
			}
			res, err := app.Import.ImportPlan(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d budget lines and %d users from %s\n", len(res.Lines), len(res.Users), args[0])
			if len(res.Lines) > 0 {
				fmt.Fprint(out, formatter.FormatBudgetLines(res.Lines))
			}
			if len(res.Users) > 0 {
				fmt.Fprint(out, formatter.FormatUsers(res.Users))
			}
			return nil
		},
	}
}
