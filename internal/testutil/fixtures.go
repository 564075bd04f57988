package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/rkam/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var testCodeCounter atomic.Int64

// NewTestUser builds a directory entry with the given role.
func NewTestUser(name string, role domain.Role) *domain.User {
	return &domain.User{
		ID:        uuid.New().String(),
		Name:      name,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
}

// BudgetLine options
type BudgetLineOption func(*domain.BudgetLine)

func WithConsumed(amount int64) BudgetLineOption {
	return func(b *domain.BudgetLine) {
		b.Consumed = decimal.NewFromInt(amount)
	}
}

func WithYear(year int) BudgetLineOption {
	return func(b *domain.BudgetLine) {
		b.Year = year
	}
}

func WithCode(code string) BudgetLineOption {
	return func(b *domain.BudgetLine) {
		b.Code = code
	}
}

func WithCategory(c string) BudgetLineOption {
	return func(b *domain.BudgetLine) {
		b.Category = c
	}
}

func NewTestBudgetLine(capAmount int64, opts ...BudgetLineOption) *domain.BudgetLine {
	now := time.Now().UTC()
	b := &domain.BudgetLine{
		ID:        uuid.New().String(),
		Code:      fmt.Sprintf("RKAM-%03d", testCodeCounter.Add(1)),
		Category:  "Sarana dan Prasarana",
		Year:      2025,
		Cap:       decimal.NewFromInt(capAmount),
		Consumed:  decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Proposal options
type ProposalOption func(*domain.Proposal)

func WithTitle(title string) ProposalOption {
	return func(p *domain.Proposal) {
		p.Title = title
	}
}

func WithDescription(d string) ProposalOption {
	return func(p *domain.Proposal) {
		p.Description = d
	}
}

func WithProposalStatus(s domain.ProposalStatus) ProposalOption {
	return func(p *domain.Proposal) {
		p.Status = s
	}
}

// NewTestProposal builds a draft with a title and description ready for
// submission. The committee flag follows the amount.
func NewTestProposal(ownerID, budgetLineID string, amount int64, opts ...ProposalOption) *domain.Proposal {
	p, err := domain.NewProposal(uuid.New().String(), ownerID, budgetLineID,
		"Pengadaan alat laboratorium", "Pembelian alat praktikum IPA kelas X",
		decimal.NewFromInt(amount), time.Now().UTC())
	if err != nil {
		panic(err)
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// TransferRecipient returns valid payee details for a bank transfer.
func TransferRecipient() domain.Recipient {
	return domain.Recipient{
		Name:      "CV Sumber Ilmu",
		Account:   "7001234567",
		BankName:  "Bank Syariah Indonesia",
		Method:    domain.MethodTransfer,
		Reference: "INV-2025-014",
	}
}
