package domain

import "time"

// AuditEvent records one successful proposal transition.
type AuditEvent struct {
	ID         string
	ProposalID string
	PaymentID  string
	ActorID    string
	ActorRole  Role
	Transition Transition
	FromStatus ProposalStatus
	ToStatus   ProposalStatus
	Note       string
	OccurredAt time.Time
}
