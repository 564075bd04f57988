package domain

import "github.com/shopspring/decimal"

// CommitteeThreshold is the amount above which a proposal needs the
// committee's final approval.
var CommitteeThreshold = decimal.NewFromInt(50_000_000)

type Role string

const (
	RolePengusul    Role = "pengusul"
	RoleVerifikator Role = "verifikator"
	RoleKepala      Role = "kepala_madrasah"
	RoleKomite      Role = "komite_madrasah"
	RoleBendahara   Role = "bendahara"
)

// ValidRoles is the canonical set of accepted role strings.
var ValidRoles = map[Role]bool{
	RolePengusul:    true,
	RoleVerifikator: true,
	RoleKepala:      true,
	RoleKomite:      true,
	RoleBendahara:   true,
}

// ParseRole converts a user-supplied string into a Role.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, ValidRoles[r]
}

type ProposalStatus string

const (
	ProposalDraft             ProposalStatus = "draft"
	ProposalSubmitted         ProposalStatus = "submitted"
	ProposalVerified          ProposalStatus = "verified"
	ProposalApproved          ProposalStatus = "approved"
	ProposalFinalApproved     ProposalStatus = "final_approved"
	ProposalRejected          ProposalStatus = "rejected"
	ProposalPaymentProcessing ProposalStatus = "payment_processing"
	ProposalCompleted         ProposalStatus = "completed"
)

// ValidProposalStatuses is the canonical set of proposal states.
var ValidProposalStatuses = map[ProposalStatus]bool{
	ProposalDraft:             true,
	ProposalSubmitted:         true,
	ProposalVerified:          true,
	ProposalApproved:          true,
	ProposalFinalApproved:     true,
	ProposalRejected:          true,
	ProposalPaymentProcessing: true,
	ProposalCompleted:         true,
}

type Transition string

const (
	TransitionSubmit          Transition = "submit"
	TransitionVerify          Transition = "verify"
	TransitionApprove         Transition = "approve"
	TransitionFinalApprove    Transition = "final_approve"
	TransitionReject          Transition = "reject"
	TransitionProcessPayment  Transition = "process_payment"
	TransitionCompletePayment Transition = "complete_payment"
	TransitionCancelPayment   Transition = "cancel_payment"
)

// TransitionCreate is recorded in the audit log when a draft is saved. It is
// not a state change and has no row in the transition table.
const TransitionCreate Transition = "create"

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentCompleted  PaymentStatus = "completed"
	PaymentFailed     PaymentStatus = "failed"
)

type PaymentMethod string

const (
	MethodTransfer PaymentMethod = "transfer"
	MethodCash     PaymentMethod = "cash"
	MethodCheck    PaymentMethod = "check"
)

// ValidPaymentMethods is the canonical set of accepted payment methods.
var ValidPaymentMethods = map[PaymentMethod]bool{
	MethodTransfer: true,
	MethodCash:     true,
	MethodCheck:    true,
}
