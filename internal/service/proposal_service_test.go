package service

import (
	"context"
	"strings"
	"testing"

	"github.com/alexanderramin/rkam/internal/domain"
	"github.com/alexanderramin/rkam/internal/repository"
	"github.com/alexanderramin/rkam/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProposalCreate_OnlySubmitters(t *testing.T) {
	h := newHarness(t)
	line := h.newLine(t, 100_000_000)

	_, err := h.proposalSvc.Create(context.Background(), h.verifikator, CreateProposalInput{
		BudgetLineID: line.ID, Title: "x", Amount: idr(1),
	})
	assert.ErrorIs(t, err, domain.ErrAuthorization)
}

func TestProposalCreate_Validation(t *testing.T) {
	h := newHarness(t)
	line := h.newLine(t, 100_000_000)
	ctx := context.Background()

	_, err := h.proposalSvc.Create(ctx, h.pengusul, CreateProposalInput{BudgetLineID: line.ID, Amount: idr(0)})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = h.proposalSvc.Create(ctx, h.pengusul, CreateProposalInput{BudgetLineID: "missing", Amount: idr(5)})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Empty content is fine while still a draft.
	res, err := h.proposalSvc.Create(ctx, h.pengusul, CreateProposalInput{BudgetLineID: line.ID, Amount: idr(5)})
	require.NoError(t, err)
	assert.Equal(t, domain.ProposalDraft, res.Proposal.Status)
}

func TestProposalCreate_CommitteeFlagBoundary(t *testing.T) {
	h := newHarness(t)
	line := h.newLine(t, 200_000_000)

	assert.False(t, h.newDraft(t, line, 50_000_000).RequiresCommitteeApproval)
	assert.True(t, h.newDraft(t, line, 50_000_001).RequiresCommitteeApproval)
}

func TestProposalSubmit_RequiresContent(t *testing.T) {
	h := newHarness(t)
	line := h.newLine(t, 100_000_000)
	ctx := context.Background()

	res, err := h.proposalSvc.Create(ctx, h.pengusul, CreateProposalInput{BudgetLineID: line.ID, Amount: idr(5)})
	require.NoError(t, err)

	_, err = h.proposalSvc.Submit(ctx, h.pengusul, res.Proposal.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, domain.ProposalDraft, h.reload(t, res.Proposal.ID).Status)
}

func TestProposalSubmit_ExceedsRemaining(t *testing.T) {
	h := newHarness(t)
	line := h.newLine(t, 100_000_000)
	p := h.newDraft(t, line, 100_000_001)

	_, err := h.proposalSvc.Submit(context.Background(), h.pengusul, p.ID)
	assert.ErrorIs(t, err, domain.ErrBudgetExceeded)
	assert.Equal(t, domain.ProposalDraft, h.reload(t, p.ID).Status)
}

func TestProposalSubmit_NoReservation(t *testing.T) {
	h := newHarness(t)
	line := h.newLine(t, 100_000_000)

	// Both fit the remaining capacity on their own; nothing is held back.
	h.advance(t, h.newDraft(t, line, 70_000_000), domain.ProposalSubmitted)
	h.advance(t, h.newDraft(t, line, 70_000_000), domain.ProposalSubmitted)
	assert.True(t, h.reloadLine(t, line.ID).Consumed.IsZero())
}

func TestProposalSubmit_OnlyOwner(t *testing.T) {
	h := newHarness(t)
	line := h.newLine(t, 100_000_000)
	p := h.newDraft(t, line, 1_000_000)

	other := domain.Actor{UserID: "another-submitter", Role: domain.RolePengusul}
	_, err := h.proposalSvc.Submit(context.Background(), other, p.ID)
	assert.ErrorIs(t, err, domain.ErrAuthorization)
	assert.Equal(t, domain.ProposalDraft, h.reload(t, p.ID).Status)
}

func TestProposalReject_Thresholds(t *testing.T) {
	tests := []struct {
		name        string
		reason      string
		suggestions string
		wantErr     error
	}{
		{"reason nine chars", "123456789", strings.Repeat("s", 20), domain.ErrValidation},
		{"suggestions nineteen chars", "1234567890", strings.Repeat("s", 19), domain.ErrValidation},
		{"padding does not count", "  123456789  ", strings.Repeat("s", 20), domain.ErrValidation},
		{"both at threshold", "1234567890", strings.Repeat("s", 20), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			line := h.newLine(t, 100_000_000)
			p := h.advance(t, h.newDraft(t, line, 1_000_000), domain.ProposalSubmitted)

			res, err := h.proposalSvc.Reject(context.Background(), h.verifikator, p.ID, RejectInput{
				Reason: tt.reason, Suggestions: tt.suggestions,
			})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, domain.ProposalSubmitted, h.reload(t, p.ID).Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.ProposalRejected, res.Proposal.Status)
			require.NotNil(t, res.Proposal.RejectedBy)
			assert.Equal(t, h.verifikator.UserID, *res.Proposal.RejectedBy)
		})
	}
}

func TestProposalReject_CommitteeOnlyAboveThreshold(t *testing.T) {
	h := newHarness(t)
	line := h.newLine(t, 200_000_000)
	ctx := context.Background()
	in := RejectInput{Reason: "Harga terlalu tinggi", Suggestions: "Bandingkan dengan minimal tiga vendor"}

	small := h.advance(t, h.newDraft(t, line, 10_000_000), domain.ProposalApproved)
	_, err := h.proposalSvc.Reject(ctx, h.komite, small.ID, in)
	assert.ErrorIs(t, err, domain.ErrStateConflict)
	assert.Equal(t, domain.ProposalApproved, h.reload(t, small.ID).Status)

	big := h.advance(t, h.newDraft(t, line, 80_000_000), domain.ProposalApproved)
	res, err := h.proposalSvc.Reject(ctx, h.komite, big.ID, in)
	require.NoError(t, err)
	assert.Equal(t, domain.ProposalRejected, res.Proposal.Status)
}

func TestProposalResubmit_ClearsRejectionKeepsCommitteeFlag(t *testing.T) {
	h := newHarness(t)
	line := h.newLine(t, 100_000_000)
	ctx := context.Background()

	p := h.advance(t, h.newDraft(t, line, 60_000_000), domain.ProposalVerified)
	_, err := h.proposalSvc.Reject(ctx, h.kepala, p.ID, RejectInput{
		Reason:      "Spesifikasi kurang jelas",
		Suggestions: "Cantumkan merek dan tipe setiap barang",
	})
	require.NoError(t, err)

	rejected := h.reload(t, p.ID)
	require.NotNil(t, rejected.RejectionReason)
	assert.True(t, rejected.RequiresCommitteeApproval)

	title := "Pengadaan proyektor Epson EB-X500"
	_, err = h.proposalSvc.Update(ctx, h.pengusul, p.ID, UpdateProposalInput{Title: &title})
	require.NoError(t, err)

	res, err := h.proposalSvc.Submit(ctx, h.pengusul, p.ID)
	require.NoError(t, err)
	assert.Contains(t, res.Message, "resubmitted")

	got := h.reload(t, p.ID)
	assert.Equal(t, domain.ProposalSubmitted, got.Status)
	assert.Equal(t, title, got.Title)
	assert.Nil(t, got.RejectionReason)
	assert.Nil(t, got.ImprovementSuggestions)
	assert.Nil(t, got.RejectedBy)
	assert.Nil(t, got.RejectedAt)
	assert.Nil(t, got.VerifiedBy, "verification belonged to the previous cycle")
	assert.Nil(t, got.VerifiedAt)
	assert.True(t, got.RequiresCommitteeApproval)
}

func TestProposalResubmit_AfterCommitteeRejectionClearsApprovals(t *testing.T) {
	h := newHarness(t)
	line := h.newLine(t, 100_000_000)
	ctx := context.Background()

	p := h.advance(t, h.newDraft(t, line, 75_000_000), domain.ProposalApproved)
	require.NotNil(t, p.ApprovedBy)
	_, err := h.proposalSvc.Reject(ctx, h.komite, p.ID, RejectInput{
		Reason:      "Harga satuan di atas standar",
		Suggestions: "Lampirkan tiga pembanding harga",
	})
	require.NoError(t, err)

	_, err = h.proposalSvc.Submit(ctx, h.pengusul, p.ID)
	require.NoError(t, err)

	got := h.reload(t, p.ID)
	assert.Equal(t, domain.ProposalSubmitted, got.Status)
	assert.Nil(t, got.VerifiedBy)
	assert.Nil(t, got.VerifiedAt)
	assert.Nil(t, got.ApprovedBy)
	assert.Nil(t, got.ApprovedAt)
	assert.Nil(t, got.FinalApprovedBy)
	assert.Nil(t, got.FinalApprovedAt)

	again := h.advance(t, got, domain.ProposalApproved)
	require.NotNil(t, again.ApprovedBy)
	assert.Equal(t, h.kepala.UserID, *again.ApprovedBy)
}

func TestProposalUpdate_Rules(t *testing.T) {
	h := newHarness(t)
	line := h.newLine(t, 100_000_000)
	ctx := context.Background()
	desc := "Deskripsi baru"

	p := h.newDraft(t, line, 1_000_000)
	_, err := h.proposalSvc.Update(ctx, h.verifikator, p.ID, UpdateProposalInput{Description: &desc})
	assert.ErrorIs(t, err, domain.ErrAuthorization)

	res, err := h.proposalSvc.Update(ctx, h.pengusul, p.ID, UpdateProposalInput{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, desc, res.Proposal.Description)

	h.advance(t, p, domain.ProposalSubmitted)
	_, err = h.proposalSvc.Update(ctx, h.pengusul, p.ID, UpdateProposalInput{Description: &desc})
	assert.ErrorIs(t, err, domain.ErrStateConflict)
}

func TestProposalDelete_DraftOnly(t *testing.T) {
	h := newHarness(t)
	line := h.newLine(t, 100_000_000)
	ctx := context.Background()

	draft := h.newDraft(t, line, 1_000_000)
	require.NoError(t, h.proposalSvc.Delete(ctx, h.pengusul, draft.ID))
	_, err := h.proposalSvc.Get(ctx, draft.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	submitted := h.advance(t, h.newDraft(t, line, 1_000_000), domain.ProposalSubmitted)
	assert.ErrorIs(t, h.proposalSvc.Delete(ctx, h.pengusul, submitted.ID), domain.ErrStateConflict)
	assert.Equal(t, domain.ProposalSubmitted, h.reload(t, submitted.ID).Status)
}

func TestProposalUpdateDelete_WrongRoleBeforeLookup(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	title := "Judul"

	_, err := h.proposalSvc.Update(ctx, h.verifikator, "missing", UpdateProposalInput{Title: &title})
	assert.ErrorIs(t, err, domain.ErrAuthorization)
	assert.NotErrorIs(t, err, domain.ErrNotFound)

	err = h.proposalSvc.Delete(ctx, h.bendahara, "missing")
	assert.ErrorIs(t, err, domain.ErrAuthorization)
	assert.NotErrorIs(t, err, domain.ErrNotFound)

	_, err = h.proposalSvc.Update(ctx, h.pengusul, "missing", UpdateProposalInput{Title: &title})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProposalTransition_NotFound(t *testing.T) {
	h := newHarness(t)
	_, err := h.proposalSvc.Verify(context.Background(), h.verifikator, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProposalTransition_WrongRoleBeforeLookup(t *testing.T) {
	h := newHarness(t)
	// The role check runs first, so a missing record is not revealed.
	_, err := h.proposalSvc.Verify(context.Background(), h.bendahara, "missing")
	assert.ErrorIs(t, err, domain.ErrAuthorization)
}

func TestProposalList_Filters(t *testing.T) {
	h := newHarness(t)
	line := h.newLine(t, 100_000_000)
	ctx := context.Background()

	h.newDraft(t, line, 1_000_000)
	h.advance(t, h.newDraft(t, line, 2_000_000), domain.ProposalSubmitted)

	submitted, err := h.proposalSvc.List(ctx, repository.ProposalFilter{Status: domain.ProposalSubmitted})
	require.NoError(t, err)
	assert.Len(t, submitted, 1)

	mine, err := h.proposalSvc.List(ctx, repository.ProposalFilter{OwnerID: h.pengusul.UserID})
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestProposalService_ObserverSeesOutcome(t *testing.T) {
	h := newHarness(t)
	obs := &recordingObserver{}
	h.proposalSvc = NewProposalService(h.proposals, h.audit, testutil.NewTestUoW(h.db), obs)
	line := h.newLine(t, 100_000_000)

	_, err := h.proposalSvc.Verify(context.Background(), h.pengusul, "anything")
	require.Error(t, err)
	h.newDraft(t, line, 1_000)

	require.Len(t, obs.events, 2)
	assert.Equal(t, "proposal-verify", obs.events[0].Name)
	assert.False(t, obs.events[0].Success)
	assert.Equal(t, domain.CodeAuthorization, domain.ErrorKind(obs.events[0].Err))
	assert.Equal(t, "proposal-create", obs.events[1].Name)
	assert.True(t, obs.events[1].Success)
}
