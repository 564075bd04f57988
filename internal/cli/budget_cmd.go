package cli

import (
	"fmt"

	"github.com/alexanderramin/rkam/internal/cli/formatter"
	"github.com/alexanderramin/rkam/internal/service"
	"github.com/spf13/cobra"
)

func newBudgetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage budget lines",
	}
	cmd.AddCommand(
		newBudgetAddCmd(app),
		newBudgetListCmd(app),
		newBudgetShowCmd(app),
		newBudgetSetCapCmd(app),
	)
	return cmd
}

func newBudgetAddCmd(app *App) *cobra.Command {
	var code, category string
	var year int
	var capAmount amountValue

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a budget line",
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := app.Budget.Create(cmd.Context(), service.CreateBudgetLineInput{
				Code:     code,
				Category: category,
				Year:     year,
				Cap:      capAmount.d,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created budget line %s (%s) with cap %s\n",
				line.Code, line.ID, formatter.Rupiah(line.Cap))
			return nil
		},
	}
	cmd.Flags().StringVar(&code, "code", "", "Budget line code")
	cmd.Flags().StringVar(&category, "category", "", "Spending category")
	cmd.Flags().IntVar(&year, "year", 0, "Fiscal year")
	cmd.Flags().Var(&capAmount, "cap", "Spending cap in rupiah")
	_ = cmd.MarkFlagRequired("code")
	_ = cmd.MarkFlagRequired("year")
	_ = cmd.MarkFlagRequired("cap")
	return cmd
}

func newBudgetListCmd(app *App) *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List budget lines with remaining amounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := app.Budget.List(cmd.Context(), year)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBudgetLines(lines))
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "Only lines of this fiscal year")
	return cmd
}

func newBudgetShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID|CODE",
		Short: "Show one budget line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := app.Budget.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatBudgetLine(line))
			return nil
		},
	}
}

func newBudgetSetCapCmd(app *App) *cobra.Command {
	var capAmount amountValue

	cmd := &cobra.Command{
		Use:   "set-cap ID|CODE",
		Short: "Change the cap of a budget line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := app.actor(ctx)
			if err != nil {
				return err
			}
			line, err := app.Budget.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if line, err = app.Budget.AdjustCap(ctx, actor, line.ID, capAmount.d); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cap of %s is now %s (remaining %s)\n",
				line.Code, formatter.Rupiah(line.Cap), formatter.Rupiah(line.Remaining()))
			return nil
		},
	}
	cmd.Flags().Var(&capAmount, "cap", "New spending cap in rupiah")
	_ = cmd.MarkFlagRequired("cap")
	return cmd
}

