package cli

import (
	"context"
	"os"

	"github.com/alexanderramin/rkam/internal/cli/formatter"
	"github.com/alexanderramin/rkam/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Proposals service.ProposalService
	Payments  service.PaymentService
	Budget    service.BudgetService
	Users     service.UserService
	Audit     service.AuditService
	Import    service.ImportService

	// Serve runs the HTTP API on addr until ctx is cancelled.
	Serve     func(ctx context.Context, addr string) error
	ServeAddr string

	// Plain disables colors and borders (stdout is not a terminal).
	Plain bool

	actorID string
}

// NewRootCmd creates the top-level "rkam" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "rkam",
		Short:         "Budget proposal approvals and ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			formatter.SetPlain(app.Plain)
		},
	}
	root.PersistentFlags().StringVar(&app.actorID, "as", os.Getenv("RKAM_AS"), "User ID to act as (default $RKAM_AS)")

	root.AddCommand(
		newUserCmd(app),
		newBudgetCmd(app),
		newProposalCmd(app),
		newPaymentCmd(app),
		newAuditCmd(app),
		newImportCmd(app),
		newServeCmd(app),
	)

	return root
}
