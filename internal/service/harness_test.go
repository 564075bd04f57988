package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/rkam/internal/db"
	"github.com/alexanderramin/rkam/internal/domain"
	"github.com/alexanderramin/rkam/internal/repository"
	"github.com/alexanderramin/rkam/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// harness wires real SQLite repositories and services with one user per role.
type harness struct {
	db        *sql.DB
	lines     *repository.SQLiteBudgetLineRepo
	proposals *repository.SQLiteProposalRepo
	payments  *repository.SQLitePaymentRepo
	audit     *repository.SQLiteAuditRepo

	proposalSvc ProposalService
	paymentSvc  PaymentService
	budgetSvc   BudgetService

	pengusul    domain.Actor
	verifikator domain.Actor
	kepala      domain.Actor
	komite      domain.Actor
	bendahara   domain.Actor
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	database := testutil.NewTestDB(t)
	return newHarnessWithUoW(t, database, testutil.NewTestUoW(database))
}

func newHarnessWithUoW(t *testing.T, database *sql.DB, uow db.UnitOfWork) *harness {
	t.Helper()
	h := &harness{
		db:        database,
		lines:     repository.NewSQLiteBudgetLineRepo(database),
		proposals: repository.NewSQLiteProposalRepo(database),
		payments:  repository.NewSQLitePaymentRepo(database),
		audit:     repository.NewSQLiteAuditRepo(database),
	}
	h.proposalSvc = NewProposalService(h.proposals, h.audit, uow)
	h.paymentSvc = NewPaymentService(h.payments, uow)
	h.budgetSvc = NewBudgetService(h.lines, uow)

	users := repository.NewSQLiteUserRepo(database)
	mk := func(name string, role domain.Role) domain.Actor {
		u := testutil.NewTestUser(name, role)
		require.NoError(t, users.Create(context.Background(), u))
		return u.Actor()
	}
	h.pengusul = mk("Siti Pengusul", domain.RolePengusul)
	h.verifikator = mk("Rahmat Verifikator", domain.RoleVerifikator)
	h.kepala = mk("Hj. Aminah", domain.RoleKepala)
	h.komite = mk("Komite Madrasah", domain.RoleKomite)
	h.bendahara = mk("Dewi Bendahara", domain.RoleBendahara)
	return h
}

func (h *harness) actors() []domain.Actor {
	return []domain.Actor{h.pengusul, h.verifikator, h.kepala, h.komite, h.bendahara}
}

func (h *harness) newLine(t *testing.T, capAmount int64, opts ...testutil.BudgetLineOption) *domain.BudgetLine {
	t.Helper()
	line := testutil.NewTestBudgetLine(capAmount, opts...)
	require.NoError(t, h.lines.Create(context.Background(), line))
	return line
}

func (h *harness) newDraft(t *testing.T, line *domain.BudgetLine, amount int64) *domain.Proposal {
	t.Helper()
	res, err := h.proposalSvc.Create(context.Background(), h.pengusul, CreateProposalInput{
		BudgetLineID: line.ID,
		Title:        "Pengadaan proyektor kelas",
		Description:  "Proyektor untuk ruang kelas XI IPA 2",
		Amount:       decimal.NewFromInt(amount),
	})
	require.NoError(t, err)
	return res.Proposal
}

// advance drives p through the approval chain until it reaches target,
// skipping the steps p has already passed.
func (h *harness) advance(t *testing.T, p *domain.Proposal, target domain.ProposalStatus) *domain.Proposal {
	t.Helper()
	ctx := context.Background()
	steps := []struct {
		reaches domain.ProposalStatus
		run     func() (*TransitionResult, error)
	}{
		{domain.ProposalSubmitted, func() (*TransitionResult, error) { return h.proposalSvc.Submit(ctx, h.pengusul, p.ID) }},
		{domain.ProposalVerified, func() (*TransitionResult, error) { return h.proposalSvc.Verify(ctx, h.verifikator, p.ID) }},
		{domain.ProposalApproved, func() (*TransitionResult, error) { return h.proposalSvc.Approve(ctx, h.kepala, p.ID) }},
		{domain.ProposalFinalApproved, func() (*TransitionResult, error) { return h.proposalSvc.FinalApprove(ctx, h.komite, p.ID) }},
	}
	start := 0
	for i, step := range steps {
		if step.reaches == p.Status {
			start = i + 1
		}
	}
	current := p
	for _, step := range steps[start:] {
		if current.Status == target {
			break
		}
		res, err := step.run()
		require.NoError(t, err, "advancing to %s", step.reaches)
		require.Equal(t, step.reaches, res.Proposal.Status)
		current = res.Proposal
	}
	require.Equal(t, target, current.Status)
	return current
}

func (h *harness) process(t *testing.T, p *domain.Proposal) *domain.Payment {
	t.Helper()
	res, err := h.paymentSvc.Process(context.Background(), h.bendahara, p.ID, transferInput())
	require.NoError(t, err)
	return res.Payment
}

func (h *harness) reload(t *testing.T, id string) *domain.Proposal {
	t.Helper()
	p, err := h.proposals.GetByID(context.Background(), id)
	require.NoError(t, err)
	return p
}

func (h *harness) reloadLine(t *testing.T, id string) *domain.BudgetLine {
	t.Helper()
	b, err := h.lines.GetByID(context.Background(), id)
	require.NoError(t, err)
	return b
}

func transferInput() ProcessPaymentInput {
	r := testutil.TransferRecipient()
	return ProcessPaymentInput{
		RecipientName:    r.Name,
		RecipientAccount: r.Account,
		BankName:         r.BankName,
		Method:           r.Method,
		Reference:        r.Reference,
	}
}

func proofInput() CompletePaymentInput {
	return CompletePaymentInput{ProofURL: "https://drive.example.org/bukti/transfer-014.pdf", AdminNotes: "Lunas"}
}

func idr(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}
