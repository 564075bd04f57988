package cli

import (
	"fmt"

	"github.com/alexanderramin/rkam/internal/cli/formatter"
	"github.com/alexanderramin/rkam/internal/domain"
	"github.com/alexanderramin/rkam/internal/service"
	"github.com/spf13/cobra"
)

func newPaymentCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payment",
		Short: "Disburse approved proposals",
	}
	cmd.AddCommand(
		newPaymentProcessCmd(app),
		newPaymentCompleteCmd(app),
		newPaymentCancelCmd(app),
		newPaymentShowCmd(app),
	)
	return cmd
}

func printPayment(cmd *cobra.Command, res *service.PaymentResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", formatter.StyleGreen.Render("✔"), res.Message)
	fmt.Fprintf(out, "  payment  %s  %s\n", res.Payment.ID, formatter.PaymentStatusPill(res.Payment.Status))
	fmt.Fprintf(out, "  proposal %s  %s\n", res.Proposal.ID, formatter.StatusPill(res.Proposal.Status))
}

func newPaymentProcessCmd(app *App) *cobra.Command {
	var in service.ProcessPaymentInput
	var method string

	cmd := &cobra.Command{
		Use:   "process PROPOSAL_ID",
		Short: "Start paying out an approved proposal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := app.actor(ctx)
			if err != nil {
				return err
			}
			in.Method = domain.PaymentMethod(method)
			res, err := app.Payments.Process(ctx, actor, args[0], in)
			if err != nil {
				return err
			}
			printPayment(cmd, res)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.RecipientName, "recipient", "", "Recipient name")
	cmd.Flags().StringVar(&in.RecipientAccount, "account", "", "Recipient account number")
	cmd.Flags().StringVar(&in.BankName, "bank", "", "Recipient bank")
	cmd.Flags().StringVar(&method, "method", string(domain.MethodTransfer), "transfer, cash or check")
	cmd.Flags().StringVar(&in.Reference, "reference", "", "Payment reference")
	cmd.Flags().StringVar(&in.Notes, "notes", "", "Notes")
	_ = cmd.MarkFlagRequired("recipient")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("bank")
	return cmd
}

func newPaymentCompleteCmd(app *App) *cobra.Command {
	var in service.CompletePaymentInput

	cmd := &cobra.Command{
		Use:   "complete PAYMENT_ID",
		Short: "Record proof of payment and debit the budget line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := app.actor(ctx)
			if err != nil {
				return err
			}
			res, err := app.Payments.Complete(ctx, actor, args[0], in)
			if err != nil {
				return err
			}
			printPayment(cmd, res)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.ProofFile, "proof-file", "", "Path of the uploaded proof")
	cmd.Flags().StringVar(&in.ProofURL, "proof-url", "", "URL of the proof")
	cmd.Flags().StringVar(&in.AdminNotes, "notes", "", "Admin notes")
	cmd.MarkFlagsOneRequired("proof-file", "proof-url")
	return cmd
}

func newPaymentCancelCmd(app *App) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "cancel PAYMENT_ID",
		Short: "Cancel a payment in progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := app.actor(ctx)
			if err != nil {
				return err
			}
			res, err := app.Payments.Cancel(ctx, actor, args[0], reason)
			if err != nil {
				return err
			}
			printPayment(cmd, res)
			return nil
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "Why the payment is cancelled")
	_ = cmd.MarkFlagRequired("reason")
	return cmd
}

func newPaymentShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show PAYMENT_ID",
		Short: "Show a payment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Payments.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPayment(p))
			return nil
		},
	}
}
