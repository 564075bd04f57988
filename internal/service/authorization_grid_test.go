package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/rkam/internal/authz"
	"github.com/alexanderramin/rkam/internal/domain"
	"github.com/alexanderramin/rkam/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gridCall struct {
	transition domain.Transition
	run        func(h *harness, actor domain.Actor, p *domain.Proposal, paymentID string) error
}

var gridCalls = []gridCall{
	{domain.TransitionSubmit, func(h *harness, a domain.Actor, p *domain.Proposal, _ string) error {
		_, err := h.proposalSvc.Submit(context.Background(), a, p.ID)
		return err
	}},
	{domain.TransitionVerify, func(h *harness, a domain.Actor, p *domain.Proposal, _ string) error {
		_, err := h.proposalSvc.Verify(context.Background(), a, p.ID)
		return err
	}},
	{domain.TransitionApprove, func(h *harness, a domain.Actor, p *domain.Proposal, _ string) error {
		_, err := h.proposalSvc.Approve(context.Background(), a, p.ID)
		return err
	}},
	{domain.TransitionFinalApprove, func(h *harness, a domain.Actor, p *domain.Proposal, _ string) error {
		_, err := h.proposalSvc.FinalApprove(context.Background(), a, p.ID)
		return err
	}},
	{domain.TransitionReject, func(h *harness, a domain.Actor, p *domain.Proposal, _ string) error {
		_, err := h.proposalSvc.Reject(context.Background(), a, p.ID, RejectInput{
			Reason:      "Alasan penolakan cukup panjang",
			Suggestions: "Saran perbaikan yang juga cukup panjang",
		})
		return err
	}},
	{domain.TransitionProcessPayment, func(h *harness, a domain.Actor, p *domain.Proposal, _ string) error {
		_, err := h.paymentSvc.Process(context.Background(), a, p.ID, transferInput())
		return err
	}},
	{domain.TransitionCompletePayment, func(h *harness, a domain.Actor, _ *domain.Proposal, paymentID string) error {
		_, err := h.paymentSvc.Complete(context.Background(), a, paymentID, proofInput())
		return err
	}},
	{domain.TransitionCancelPayment, func(h *harness, a domain.Actor, _ *domain.Proposal, paymentID string) error {
		_, err := h.paymentSvc.Cancel(context.Background(), a, paymentID, "Dibatalkan")
		return err
	}},
}

var gridStatuses = []domain.ProposalStatus{
	domain.ProposalDraft,
	domain.ProposalSubmitted,
	domain.ProposalVerified,
	domain.ProposalApproved,
	domain.ProposalFinalApproved,
	domain.ProposalRejected,
	domain.ProposalPaymentProcessing,
	domain.ProposalCompleted,
}

// seedInStatus stores a committee-sized proposal directly in status, with a
// payment attached when the status needs one.
func seedInStatus(t *testing.T, h *harness, line *domain.BudgetLine, status domain.ProposalStatus) (*domain.Proposal, string) {
	t.Helper()
	ctx := context.Background()
	p := testutil.NewTestProposal(h.pengusul.UserID, line.ID, 60_000_000, testutil.WithProposalStatus(status))
	require.NoError(t, h.proposals.Create(ctx, p))

	paymentID := "no-payment"
	if status == domain.ProposalPaymentProcessing || status == domain.ProposalCompleted {
		pay, err := domain.NewPayment("pay-"+p.ID, p, domain.ProposalFinalApproved, testutil.TransferRecipient(), h.bendahara.UserID, p.CreatedAt)
		require.NoError(t, err)
		if status == domain.ProposalCompleted {
			require.NoError(t, pay.Complete(domain.Proof{File: "bukti.pdf"}, "", h.bendahara.UserID, p.CreatedAt))
		}
		require.NoError(t, h.payments.Create(ctx, pay))
		paymentID = pay.ID
	}
	return p, paymentID
}

// Every (role, status, transition) outside the table fails and changes
// nothing on the proposal, its payment or the budget line.
func TestAuthorizationGrid_RefusalsMutateNothing(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	for _, status := range gridStatuses {
		for _, call := range gridCalls {
			for _, actor := range h.actors() {
				if authz.Allowed(actor.Role, status, call.transition) {
					continue
				}
				name := string(actor.Role) + "/" + string(status) + "/" + string(call.transition)
				t.Run(name, func(t *testing.T) {
					line := h.newLine(t, 100_000_000)
					p, paymentID := seedInStatus(t, h, line, status)

					beforeP := h.reload(t, p.ID)
					beforeLine := h.reloadLine(t, line.ID)
					beforePays, err := h.payments.ListByProposal(ctx, p.ID)
					require.NoError(t, err)
					beforeEvents, err := h.audit.ListByProposal(ctx, p.ID)
					require.NoError(t, err)

					err = call.run(h, actor, p, paymentID)
					require.Error(t, err)
					kind := domain.ErrorKind(err)
					noPayment := paymentID == "no-payment" &&
						(call.transition == domain.TransitionCompletePayment || call.transition == domain.TransitionCancelPayment)
					switch {
					case !authz.RoleMay(actor.Role, call.transition):
						assert.Equal(t, domain.CodeAuthorization, kind, "got %v", err)
					case noPayment:
						assert.Equal(t, domain.CodeNotFound, kind, "got %v", err)
					default:
						assert.Equal(t, domain.CodeStateConflict, kind, "got %v", err)
					}

					assert.Equal(t, beforeP, h.reload(t, p.ID))
					assert.Equal(t, beforeLine, h.reloadLine(t, line.ID))
					afterPays, err := h.payments.ListByProposal(ctx, p.ID)
					require.NoError(t, err)
					assert.Equal(t, beforePays, afterPays)
					afterEvents, err := h.audit.ListByProposal(ctx, p.ID)
					require.NoError(t, err)
					assert.Len(t, afterEvents, len(beforeEvents))
				})
			}
		}
	}
}
