package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/alexanderramin/rkam/internal/domain"
	"github.com/alexanderramin/rkam/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentComplete_TwiceDebitsOnce(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	line := h.newLine(t, 100_000_000)
	p := h.advance(t, h.newDraft(t, line, 20_000_000), domain.ProposalApproved)
	pay := h.process(t, p)

	_, err := h.paymentSvc.Complete(ctx, h.bendahara, pay.ID, proofInput())
	require.NoError(t, err)

	_, err = h.paymentSvc.Complete(ctx, h.bendahara, pay.ID, proofInput())
	require.ErrorIs(t, err, domain.ErrStateConflict)

	got := h.reloadLine(t, line.ID)
	assert.True(t, got.Consumed.Equal(idr(20_000_000)))
	assert.Equal(t, int64(1), got.Version)
}

func TestPaymentComplete_ProofRequired(t *testing.T) {
	tests := []struct {
		name  string
		input CompletePaymentInput
	}{
		{"no proof", CompletePaymentInput{AdminNotes: "tanpa bukti"}},
		{"relative url", CompletePaymentInput{ProofURL: "bukti/014.pdf"}},
		{"ftp url", CompletePaymentInput{ProofURL: "ftp://files.example.org/014.pdf"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			line := h.newLine(t, 100_000_000)
			p := h.advance(t, h.newDraft(t, line, 20_000_000), domain.ProposalApproved)
			pay := h.process(t, p)

			_, err := h.paymentSvc.Complete(context.Background(), h.bendahara, pay.ID, tt.input)
			require.ErrorIs(t, err, domain.ErrValidation)

			stored, err := h.payments.GetByID(context.Background(), pay.ID)
			require.NoError(t, err)
			assert.Equal(t, domain.PaymentProcessing, stored.Status)
			assert.Equal(t, domain.ProposalPaymentProcessing, h.reload(t, p.ID).Status)
			assert.True(t, h.reloadLine(t, line.ID).Consumed.IsZero())
		})
	}
}

func TestPaymentComplete_FileProofAccepted(t *testing.T) {
	h := newHarness(t)
	line := h.newLine(t, 100_000_000)
	p := h.advance(t, h.newDraft(t, line, 20_000_000), domain.ProposalApproved)
	pay := h.process(t, p)

	res, err := h.paymentSvc.Complete(context.Background(), h.bendahara, pay.ID,
		CompletePaymentInput{ProofFile: "uploads/bukti-014.jpg"})
	require.NoError(t, err)
	require.NotNil(t, res.Payment.ProofFile)
	assert.Equal(t, "uploads/bukti-014.jpg", *res.Payment.ProofFile)
}

func TestPaymentComplete_CapEnforcedAtDebit(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	line := h.newLine(t, 100_000_000)

	// Both pass the soft check at submission because nothing is reserved.
	first := h.advance(t, h.newDraft(t, line, 40_000_000), domain.ProposalApproved)
	second := h.advance(t, h.newDraft(t, line, 40_000_000), domain.ProposalApproved)
	third := h.advance(t, h.newDraft(t, line, 40_000_000), domain.ProposalApproved)

	for _, p := range []*domain.Proposal{first, second} {
		_, err := h.paymentSvc.Complete(ctx, h.bendahara, h.process(t, p).ID, proofInput())
		require.NoError(t, err)
	}

	pay := h.process(t, third)
	_, err := h.paymentSvc.Complete(ctx, h.bendahara, pay.ID, proofInput())
	require.ErrorIs(t, err, domain.ErrBudgetExceeded)

	stored, err := h.payments.GetByID(ctx, pay.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentProcessing, stored.Status)
	assert.Equal(t, domain.ProposalPaymentProcessing, h.reload(t, third.ID).Status)
	assert.True(t, h.reloadLine(t, line.ID).Consumed.Equal(idr(80_000_000)))
}

func TestPaymentProcess_Preconditions(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	line := h.newLine(t, 100_000_000)

	verified := h.advance(t, h.newDraft(t, line, 1_000_000), domain.ProposalVerified)
	_, err := h.paymentSvc.Process(ctx, h.bendahara, verified.ID, transferInput())
	assert.ErrorIs(t, err, domain.ErrStateConflict)

	approved := h.advance(t, h.newDraft(t, line, 1_000_000), domain.ProposalApproved)
	bad := transferInput()
	bad.BankName = ""
	_, err = h.paymentSvc.Process(ctx, h.bendahara, approved.ID, bad)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, domain.ProposalApproved, h.reload(t, approved.ID).Status)

	cash := ProcessPaymentInput{RecipientName: "Toko Berkah", Method: domain.MethodCash}
	_, err = h.paymentSvc.Process(ctx, h.bendahara, approved.ID, cash)
	assert.ErrorIs(t, err, domain.ErrValidation, "account and bank are required for cash too")
	assert.Equal(t, domain.ProposalApproved, h.reload(t, approved.ID).Status)

	cash.RecipientAccount = "Kas Madrasah"
	cash.BankName = "Tunai"
	res, err := h.paymentSvc.Process(ctx, h.bendahara, approved.ID, cash)
	require.NoError(t, err)
	assert.True(t, res.Payment.Amount.Equal(approved.Amount))
	assert.Equal(t, domain.ProposalApproved, res.Payment.ResumeStatus)

	_, err = h.paymentSvc.Process(ctx, h.bendahara, approved.ID, cash)
	assert.ErrorIs(t, err, domain.ErrStateConflict)

	active, err := h.paymentSvc.GetActiveForProposal(ctx, approved.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Payment.ID, active.ID)
}

func TestPaymentCancel_RestoresFinalApproved(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	line := h.newLine(t, 100_000_000)
	p := h.advance(t, h.newDraft(t, line, 60_000_000), domain.ProposalFinalApproved)
	pay := h.process(t, p)

	_, err := h.paymentSvc.Cancel(ctx, h.bendahara, pay.ID, "   ")
	require.ErrorIs(t, err, domain.ErrValidation)

	res, err := h.paymentSvc.Cancel(ctx, h.bendahara, pay.ID, "Vendor membatalkan pesanan")
	require.NoError(t, err)
	assert.Equal(t, domain.ProposalFinalApproved, res.Proposal.Status)
	require.NotNil(t, res.Payment.CancelReason)

	_, err = h.paymentSvc.Cancel(ctx, h.bendahara, pay.ID, "lagi")
	assert.ErrorIs(t, err, domain.ErrStateConflict)

	all, err := h.paymentSvc.ListByProposal(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestPaymentCancel_AfterCompletionUnsupported(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	line := h.newLine(t, 100_000_000)
	p := h.advance(t, h.newDraft(t, line, 20_000_000), domain.ProposalApproved)
	pay := h.process(t, p)
	_, err := h.paymentSvc.Complete(ctx, h.bendahara, pay.ID, proofInput())
	require.NoError(t, err)

	_, err = h.paymentSvc.Cancel(ctx, h.bendahara, pay.ID, "Salah transfer")
	require.ErrorIs(t, err, domain.ErrStateConflict)
	assert.True(t, h.reloadLine(t, line.ID).Consumed.Equal(idr(20_000_000)))
	assert.Equal(t, domain.ProposalCompleted, h.reload(t, p.ID).Status)
}

func TestPaymentComplete_RollbackOnFailedWrite(t *testing.T) {
	// ExecContext order inside Complete: ledger #1, payment #2, proposal #3, audit #4.
	for failOn := int32(1); failOn <= 4; failOn++ {
		database := testutil.NewTestDB(t)
		setup := newHarnessWithUoW(t, database, testutil.NewTestUoW(database))
		line := setup.newLine(t, 100_000_000)
		p := setup.advance(t, setup.newDraft(t, line, 20_000_000), domain.ProposalApproved)
		pay := setup.process(t, p)

		injected := errors.New("injected write failure")
		failing := NewPaymentService(setup.payments, &testutil.FailOnNthExecUoW{DB: database, FailOn: failOn, Err: injected})

		_, err := failing.Complete(context.Background(), setup.bendahara, pay.ID, proofInput())
		require.ErrorIs(t, err, injected, "failOn=%d", failOn)

		stored, err := setup.payments.GetByID(context.Background(), pay.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentProcessing, stored.Status, "failOn=%d", failOn)
		assert.Equal(t, domain.ProposalPaymentProcessing, setup.reload(t, p.ID).Status, "failOn=%d", failOn)
		got := setup.reloadLine(t, line.ID)
		assert.True(t, got.Consumed.IsZero(), "failOn=%d", failOn)
		assert.Equal(t, int64(0), got.Version, "failOn=%d", failOn)
	}
}

func TestPaymentComplete_ConcurrentCompletionsRespectCap(t *testing.T) {
	database := testutil.NewFileTestDB(t)
	h := newHarnessWithUoW(t, database, testutil.NewTestUoW(database))
	ctx := context.Background()
	line := h.newLine(t, 100_000_000)

	const n = 4
	payments := make([]*domain.Payment, n)
	for i := range payments {
		p := h.advance(t, h.newDraft(t, line, 30_000_000), domain.ProposalApproved)
		payments[i] = h.process(t, p)
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok       int
		exceeded int
	)
	for _, pay := range payments {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := h.paymentSvc.Complete(ctx, h.bendahara, id, proofInput())
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrBudgetExceeded):
				exceeded++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(pay.ID)
	}
	wg.Wait()

	assert.Equal(t, 3, ok)
	assert.Equal(t, 1, exceeded)
	got := h.reloadLine(t, line.ID)
	assert.True(t, got.Consumed.Equal(idr(90_000_000)))
	assert.False(t, got.Consumed.GreaterThan(got.Cap))
}
