// Package authz holds the proposal transition table and answers whether a
// role may perform a transition from a given state.
package authz

import (
	"fmt"

	"github.com/alexanderramin/rkam/internal/domain"
)

type rule struct {
	Role       domain.Role
	From       domain.ProposalStatus
	Transition domain.Transition
	To         domain.ProposalStatus
}

// table is the single source of truth for who may move a proposal where.
// Committee gating and the cancellation target depend on the record and are
// checked by the domain; the rows here list every state they may apply to.
var table = []rule{
	{domain.RolePengusul, domain.ProposalDraft, domain.TransitionSubmit, domain.ProposalSubmitted},
	{domain.RolePengusul, domain.ProposalRejected, domain.TransitionSubmit, domain.ProposalSubmitted},

	{domain.RoleVerifikator, domain.ProposalSubmitted, domain.TransitionVerify, domain.ProposalVerified},
	{domain.RoleVerifikator, domain.ProposalSubmitted, domain.TransitionReject, domain.ProposalRejected},

	{domain.RoleKepala, domain.ProposalVerified, domain.TransitionApprove, domain.ProposalApproved},
	{domain.RoleKepala, domain.ProposalVerified, domain.TransitionReject, domain.ProposalRejected},

	{domain.RoleKomite, domain.ProposalApproved, domain.TransitionFinalApprove, domain.ProposalFinalApproved},
	{domain.RoleKomite, domain.ProposalApproved, domain.TransitionReject, domain.ProposalRejected},

	{domain.RoleBendahara, domain.ProposalApproved, domain.TransitionProcessPayment, domain.ProposalPaymentProcessing},
	{domain.RoleBendahara, domain.ProposalFinalApproved, domain.TransitionProcessPayment, domain.ProposalPaymentProcessing},
	{domain.RoleBendahara, domain.ProposalPaymentProcessing, domain.TransitionCompletePayment, domain.ProposalCompleted},
	{domain.RoleBendahara, domain.ProposalPaymentProcessing, domain.TransitionCancelPayment, ""},
}

type key struct {
	role       domain.Role
	from       domain.ProposalStatus
	transition domain.Transition
}

var (
	allowed = make(map[key]domain.ProposalStatus, len(table))
	roleMay = make(map[domain.Role]map[domain.Transition]bool)
)

func init() {
	for _, r := range table {
		allowed[key{r.Role, r.From, r.Transition}] = r.To
		if roleMay[r.Role] == nil {
			roleMay[r.Role] = make(map[domain.Transition]bool)
		}
		roleMay[r.Role][r.Transition] = true
	}
}

// Allowed reports whether role may perform transition on a proposal
// currently in from.
func Allowed(role domain.Role, from domain.ProposalStatus, transition domain.Transition) bool {
	_, ok := allowed[key{role, from, transition}]
	return ok
}

// RoleMay reports whether role can perform transition from any state.
func RoleMay(role domain.Role, transition domain.Transition) bool {
	return roleMay[role][transition]
}

// Check returns nil when the move is permitted. A role that can never make
// the transition gets ErrAuthorization before anything about the record is
// revealed; a permitted role in the wrong state gets ErrStateConflict.
func Check(role domain.Role, from domain.ProposalStatus, transition domain.Transition) error {
	if err := CheckRole(role, transition); err != nil {
		return err
	}
	if !Allowed(role, from, transition) {
		return fmt.Errorf("cannot %s from status %s: %w", transition, from, domain.ErrStateConflict)
	}
	return nil
}

// CheckRole fails with ErrAuthorization when role can never perform
// transition. Callers run it before loading the record.
func CheckRole(role domain.Role, transition domain.Transition) error {
	if !RoleMay(role, transition) {
		return fmt.Errorf("role %q may not %s: %w", role, transition, domain.ErrAuthorization)
	}
	return nil
}

// Target returns the destination of transition from from. Cancellation has
// no fixed target; the second result is false for it.
func Target(from domain.ProposalStatus, transition domain.Transition) (domain.ProposalStatus, bool) {
	for _, r := range table {
		if r.From == from && r.Transition == transition && r.To != "" {
			return r.To, true
		}
	}
	return "", false
}

// Transitions lists the transitions role may perform on a proposal in from.
func Transitions(role domain.Role, from domain.ProposalStatus) []domain.Transition {
	var out []domain.Transition
	for _, r := range table {
		if r.Role == role && r.From == from {
			out = append(out, r.Transition)
		}
	}
	return out
}
