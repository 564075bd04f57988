package cli

import (
	"fmt"
	"slices"

	"github.com/alexanderramin/rkam/internal/audit"
	"github.com/alexanderramin/rkam/internal/cli/formatter"
	"github.com/alexanderramin/rkam/internal/domain"
	"github.com/spf13/cobra"
)

func newAuditCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect and export the transition log",
	}
	cmd.AddCommand(newAuditListCmd(app), newAuditExportCmd(app))
	return cmd
}

func newAuditListCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the most recent transitions",
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := app.Audit.ListRecent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			slices.Reverse(events)
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHistory(events))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Number of events to show")
	return cmd
}

func newAuditExportCmd(app *App) *cobra.Command {
	var limit int
	var proposalID string

	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Append transitions to a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var events []*domain.AuditEvent
			var err error
			if proposalID != "" {
				events, err = app.Proposals.History(ctx, proposalID)
			} else {
				events, err = app.Audit.ListRecent(ctx, limit)
				slices.Reverse(events)
			}
			if err != nil {
				return err
			}
			if err := audit.AppendFile(args[0], events); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d events to %s\n", len(events), args[0])
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 1000, "Number of most recent events to export")
	cmd.Flags().StringVar(&proposalID, "proposal", "", "Export the history of one proposal")
	return cmd
}
