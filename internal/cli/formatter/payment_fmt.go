package formatter

import (
	"strings"

	"github.com/alexanderramin/rkam/internal/domain"
)

// FormatPayment renders one payment record.
func FormatPayment(p *domain.Payment) string {
	var b strings.Builder
	fmtKV(&b, "ID", p.ID)
	fmtKV(&b, "Proposal", p.ProposalID)
	fmtKV(&b, "Amount", Rupiah(p.Amount))
	fmtKV(&b, "Status", PaymentStatusPill(p.Status))
	fmtKV(&b, "Method", string(p.Method))
	fmtKV(&b, "Recipient", Bold(p.RecipientName))
	if p.RecipientAccount != "" {
		fmtKV(&b, "Account", p.RecipientAccount+" "+Dim(p.BankName))
	}
	if p.Reference != "" {
		fmtKV(&b, "Reference", p.Reference)
	}
	fmtKV(&b, "Processed", optTime(p.ProcessedAt)+" "+Dim("by "+p.ProcessedBy))

	switch p.Status {
	case domain.PaymentCompleted:
		fmtKV(&b, "Completed", optTime(p.CompletedAt)+" "+Dim("by "+optString(p.CompletedBy)))
		proof := optString(p.ProofFile)
		if p.ProofURL != nil {
			proof = *p.ProofURL
		}
		fmtKV(&b, "Proof", proof)
	case domain.PaymentFailed:
		fmtKV(&b, "Cancelled", optTime(p.CancelledAt)+" "+Dim("by "+optString(p.CancelledBy)))
		fmtKV(&b, "Reason", StyleRed.Render(optString(p.CancelReason)))
	}
	return RenderBox("Payment", b.String())
}

// FormatPaymentList renders the payment attempts of a proposal.
func FormatPaymentList(payments []*domain.Payment) string {
	if len(payments) == 0 {
		return Dim("No payments found.") + "\n"
	}
	headers := []string{"ID", "AMOUNT", "STATUS", "RECIPIENT", "PROCESSED"}
	rows := make([][]string, 0, len(payments))
	for _, p := range payments {
		rows = append(rows, []string{
			TruncID(p.ID),
			Rupiah(p.Amount),
			PaymentStatusPill(p.Status),
			p.RecipientName,
			optTime(p.ProcessedAt),
		})
	}
	return RenderTable(headers, rows)
}
