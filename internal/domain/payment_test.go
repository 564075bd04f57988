package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transferRecipient() Recipient {
	return Recipient{
		Name:     "CV Maju Jaya",
		Account:  "1234567890",
		BankName: "BSI",
		Method:   MethodTransfer,
	}
}

func newProcessingPayment(t *testing.T) *Payment {
	t.Helper()
	p := newDraft(t, 20_000_000)
	p.Status = ProposalApproved
	prior, err := p.StartPayment(testNow)
	require.NoError(t, err)
	pay, err := NewPayment("pay-1", p, prior, transferRecipient(), "bend-1", testNow)
	require.NoError(t, err)
	return pay
}

func TestNewPayment_CopiesAmount(t *testing.T) {
	pay := newProcessingPayment(t)
	assert.Equal(t, PaymentProcessing, pay.Status)
	assert.Equal(t, "20000000", pay.Amount.String())
	assert.Equal(t, ProposalApproved, pay.ResumeStatus)
	assert.Equal(t, "prop-1", pay.ProposalID)
}

func TestRecipient_Validate(t *testing.T) {
	assert.NoError(t, transferRecipient().Validate())

	r := transferRecipient()
	r.Account = ""
	assert.ErrorIs(t, r.Validate(), ErrValidation)

	r = Recipient{Name: "Pak Ahmad", Method: MethodCash}
	assert.ErrorIs(t, r.Validate(), ErrValidation, "cash still needs account and bank")

	r = transferRecipient()
	r.Method = MethodCash
	assert.NoError(t, r.Validate())

	r.Method = "crypto"
	assert.ErrorIs(t, r.Validate(), ErrValidation)

	r = transferRecipient()
	r.Name = " "
	assert.ErrorIs(t, r.Validate(), ErrValidation)
}

func TestProof_Validate(t *testing.T) {
	assert.ErrorIs(t, Proof{}.Validate(), ErrValidation)
	assert.NoError(t, Proof{File: "proofs/2025/pay-1.pdf"}.Validate())
	assert.NoError(t, Proof{URL: "https://drive.example.com/f/abc"}.Validate())
	assert.ErrorIs(t, Proof{URL: "not a url"}.Validate(), ErrValidation)
	assert.ErrorIs(t, Proof{URL: "ftp://files.example.com/x"}.Validate(), ErrValidation)
}

func TestPaymentComplete_Once(t *testing.T) {
	pay := newProcessingPayment(t)
	require.NoError(t, pay.Complete(Proof{URL: "https://example.com/receipt"}, " paid ", "bend-1", testNow))
	assert.Equal(t, PaymentCompleted, pay.Status)
	require.NotNil(t, pay.AdminNotes)
	assert.Equal(t, "paid", *pay.AdminNotes)
	assert.True(t, pay.IsTerminal())

	err := pay.Complete(Proof{URL: "https://example.com/receipt"}, "", "bend-1", testNow.Add(time.Minute))
	assert.ErrorIs(t, err, ErrStateConflict)
	assert.Equal(t, testNow, *pay.CompletedAt)
}

func TestPaymentComplete_RequiresProof(t *testing.T) {
	pay := newProcessingPayment(t)
	assert.ErrorIs(t, pay.Complete(Proof{}, "", "bend-1", testNow), ErrValidation)
	assert.Equal(t, PaymentProcessing, pay.Status)
}

func TestPaymentCancel(t *testing.T) {
	pay := newProcessingPayment(t)
	assert.ErrorIs(t, pay.Cancel("  ", "bend-1", testNow), ErrValidation)
	assert.Equal(t, PaymentProcessing, pay.Status)

	require.NoError(t, pay.Cancel("Rekening tujuan salah", "bend-1", testNow))
	assert.Equal(t, PaymentFailed, pay.Status)
	require.NotNil(t, pay.CancelReason)

	assert.ErrorIs(t, pay.Cancel("again", "bend-1", testNow), ErrStateConflict)
}

func TestPaymentCancel_AfterCompleteIsConflict(t *testing.T) {
	pay := newProcessingPayment(t)
	require.NoError(t, pay.Complete(Proof{File: "x.pdf"}, "", "bend-1", testNow))
	assert.ErrorIs(t, pay.Cancel("too late", "bend-1", testNow), ErrStateConflict)
	assert.Equal(t, PaymentCompleted, pay.Status)
}
