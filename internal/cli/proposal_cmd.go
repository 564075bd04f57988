package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/rkam/internal/cli/formatter"
	"github.com/alexanderramin/rkam/internal/domain"
	"github.com/alexanderramin/rkam/internal/repository"
	"github.com/alexanderramin/rkam/internal/service"
	"github.com/spf13/cobra"
)

func newProposalCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "proposal",
		Aliases: []string{"p"},
		Short:   "Create proposals and move them through approval",
	}

	cmd.AddCommand(
		newProposalCreateCmd(app),
		newProposalEditCmd(app),
		newProposalDeleteCmd(app),
		newProposalListCmd(app),
		newProposalShowCmd(app),
		newProposalHistoryCmd(app),
		newTransitionCmd(app, "submit", "Submit a draft or rejected proposal for verification", service.ProposalService.Submit),
		newTransitionCmd(app, "verify", "Verify a submitted proposal", service.ProposalService.Verify),
		newTransitionCmd(app, "approve", "Approve a verified proposal", service.ProposalService.Approve),
		newTransitionCmd(app, "final-approve", "Give committee approval to a large proposal", service.ProposalService.FinalApprove),
		newProposalRejectCmd(app),
	)

	return cmd
}

func printTransition(cmd *cobra.Command, res *service.TransitionResult) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", formatter.StyleGreen.Render("✔"), res.Message)
	fmt.Fprintf(cmd.OutOrStdout(), "  %s  %s\n", res.Proposal.ID, formatter.StatusPill(res.Proposal.Status))
}

func newProposalCreateCmd(app *App) *cobra.Command {
	var line, title, description string
	var amount amountValue

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Save a new draft proposal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := app.actor(ctx)
			if err != nil {
				return err
			}
			budgetLine, err := app.Budget.Get(ctx, line)
			if err != nil {
				return err
			}
			res, err := app.Proposals.Create(ctx, actor, service.CreateProposalInput{
				BudgetLineID: budgetLine.ID,
				Title:        title,
				Description:  description,
				Amount:       amount.d,
			})
			if err != nil {
				return err
			}
			printTransition(cmd, res)
			return nil
		},
	}
	cmd.Flags().StringVar(&line, "line", "", "Budget line ID or code")
	cmd.Flags().StringVar(&title, "title", "", "Proposal title")
	cmd.Flags().StringVar(&description, "description", "", "What the money is for")
	cmd.Flags().Var(&amount, "amount", "Requested amount in rupiah")
	_ = cmd.MarkFlagRequired("line")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newProposalEditCmd(app *App) *cobra.Command {
	var title, description string

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change the title or description of a draft or rejected proposal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := app.actor(ctx)
			if err != nil {
				return err
			}
			var in service.UpdateProposalInput
			if cmd.Flags().Changed("title") {
				in.Title = &title
			}
			if cmd.Flags().Changed("description") {
				in.Description = &description
			}
			res, err := app.Proposals.Update(ctx, actor, args[0], in)
			if err != nil {
				return err
			}
			printTransition(cmd, res)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	return cmd
}

func newProposalDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a draft proposal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := app.actor(ctx)
			if err != nil {
				return err
			}
			if err := app.Proposals.Delete(ctx, actor, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted proposal %s\n", args[0])
			return nil
		},
	}
}

func newProposalListCmd(app *App) *cobra.Command {
	var status, owner, line string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List proposals",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := repository.ProposalFilter{
				Status:       domain.ProposalStatus(status),
				OwnerID:      owner,
				BudgetLineID: line,
			}
			if status != "" && !domain.ValidProposalStatuses[f.Status] {
				return fmt.Errorf("unknown status %q: %w", status, domain.ErrValidation)
			}
			proposals, err := app.Proposals.List(cmd.Context(), f)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProposalList(proposals))
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Filter by status")
	cmd.Flags().StringVar(&owner, "owner", "", "Filter by owner user ID")
	cmd.Flags().StringVar(&line, "line", "", "Filter by budget line ID")
	return cmd
}

func newProposalShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a proposal and its payments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Proposals.Get(ctx, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.FormatProposal(p))

			payments, err := app.Payments.ListByProposal(ctx, p.ID)
			if err != nil {
				return err
			}
			if len(payments) > 0 {
				fmt.Fprintln(out, formatter.Header("Payments"))
				fmt.Fprint(out, formatter.FormatPaymentList(payments))
			}
			return nil
		},
	}
}

func newProposalHistoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history ID",
		Short: "Show the audit trail of a proposal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := app.Proposals.History(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHistory(events))
			return nil
		},
	}
}

type transitionFunc func(svc service.ProposalService, ctx context.Context, actor domain.Actor, id string) (*service.TransitionResult, error)

func newTransitionCmd(app *App, use, short string, run transitionFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := app.actor(ctx)
			if err != nil {
				return err
			}
			res, err := run(app.Proposals, ctx, actor, args[0])
			if err != nil {
				return err
			}
			printTransition(cmd, res)
			return nil
		},
	}
}

func newProposalRejectCmd(app *App) *cobra.Command {
	var reason, suggestions string

	cmd := &cobra.Command{
		Use:   "reject ID",
		Short: "Send a proposal back to its owner with a reason",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := app.actor(ctx)
			if err != nil {
				return err
			}
			res, err := app.Proposals.Reject(ctx, actor, args[0], service.RejectInput{
				Reason:      reason,
				Suggestions: suggestions,
			})
			if err != nil {
				return err
			}
			printTransition(cmd, res)
			return nil
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "Why the proposal is rejected (at least 10 characters)")
	cmd.Flags().StringVar(&suggestions, "suggestions", "", "What to improve before resubmitting (at least 20 characters)")
	_ = cmd.MarkFlagRequired("reason")
	_ = cmd.MarkFlagRequired("suggestions")
	return cmd
}
