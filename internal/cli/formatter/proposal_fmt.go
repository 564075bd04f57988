package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/rkam/internal/domain"
)

// FormatProposalList renders proposals as a table.
func FormatProposalList(proposals []*domain.Proposal) string {
	if len(proposals) == 0 {
		return Dim("No proposals found.") + "\n"
	}
	headers := []string{"ID", "TITLE", "AMOUNT", "STATUS", "COMMITTEE", "UPDATED"}
	rows := make([][]string, 0, len(proposals))
	for _, p := range proposals {
		committee := Dim("no")
		if p.RequiresCommitteeApproval {
			committee = StyleYellow.Render("yes")
		}
		rows = append(rows, []string{
			TruncID(p.ID),
			Bold(Truncate(p.Title, 40)),
			Rupiah(p.Amount),
			StatusPill(p.Status),
			committee,
			HumanDate(p.UpdatedAt),
		})
	}
	return RenderBox("Proposals", RenderTable(headers, rows))
}

// FormatProposal renders one proposal with its approval trail.
func FormatProposal(p *domain.Proposal) string {
	var b strings.Builder
	fmtKV(&b, "ID", p.ID)
	fmtKV(&b, "Title", Bold(p.Title))
	fmtKV(&b, "Amount", Rupiah(p.Amount))
	fmtKV(&b, "Status", StatusPill(p.Status))
	fmtKV(&b, "Budget line", p.BudgetLineID)
	fmtKV(&b, "Owner", p.OwnerID)
	if p.RequiresCommitteeApproval {
		fmtKV(&b, "Committee", StyleYellow.Render("final approval required"))
	}
	if p.Description != "" {
		b.WriteString("\n" + p.Description + "\n")
	}

	b.WriteString("\n" + Header("Trail") + "\n")
	fmtKV(&b, "Submitted", optTime(p.SubmittedAt))
	fmtKV(&b, "Verified", trailEntry(p.VerifiedAt != nil, optTime(p.VerifiedAt), p.VerifiedBy))
	fmtKV(&b, "Approved", trailEntry(p.ApprovedAt != nil, optTime(p.ApprovedAt), p.ApprovedBy))
	if p.RequiresCommitteeApproval {
		fmtKV(&b, "Final", trailEntry(p.FinalApprovedAt != nil, optTime(p.FinalApprovedAt), p.FinalApprovedBy))
	}
	fmtKV(&b, "Completed", optTime(p.CompletedAt))

	if p.IsRejected() {
		b.WriteString("\n" + Header("Rejection") + "\n")
		fmtKV(&b, "By", optString(p.RejectedBy))
		fmtKV(&b, "Reason", StyleRed.Render(optString(p.RejectionReason)))
		fmtKV(&b, "Suggestions", optString(p.ImprovementSuggestions))
	}
	return RenderBox("Proposal", b.String())
}

func trailEntry(done bool, when string, by *string) string {
	if !done {
		return Dim("--")
	}
	return fmt.Sprintf("%s %s", when, Dim("by "+optString(by)))
}

// FormatHistory renders the audit trail of a proposal, oldest first.
func FormatHistory(events []*domain.AuditEvent) string {
	if len(events) == 0 {
		return Dim("No history recorded.") + "\n"
	}
	headers := []string{"WHEN", "TRANSITION", "FROM", "TO", "ACTOR", "NOTE"}
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		from := Dim("--")
		if e.FromStatus != "" {
			from = StatusPill(e.FromStatus)
		}
		rows = append(rows, []string{
			HumanDate(e.OccurredAt),
			Bold(string(e.Transition)),
			from,
			StatusPill(e.ToStatus),
			fmt.Sprintf("%s %s", TruncID(e.ActorID), RoleBadge(e.ActorRole)),
			Dim(Truncate(e.Note, 40)),
		})
	}
	return RenderTable(headers, rows)
}
