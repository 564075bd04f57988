package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MinRejectionReasonLen       = 10
	MinImprovementSuggestionLen = 20
)

// Rejection is the structured feedback attached to a rejected proposal.
type Rejection struct {
	Reason      string
	Suggestions string
	RejectedBy  string
	RejectedAt  time.Time
}

// NewRejection trims and validates reviewer feedback. Lengths are counted
// in runes after trimming.
func NewRejection(reason, suggestions, rejectedBy string, at time.Time) (Rejection, error) {
	reason = strings.TrimSpace(reason)
	suggestions = strings.TrimSpace(suggestions)

	if n := utf8.RuneCountInString(reason); n < MinRejectionReasonLen {
		return Rejection{}, fmt.Errorf("rejection reason must be at least %d characters (got %d): %w",
			MinRejectionReasonLen, n, ErrValidation)
	}
	if n := utf8.RuneCountInString(suggestions); n < MinImprovementSuggestionLen {
		return Rejection{}, fmt.Errorf("improvement suggestions must be at least %d characters (got %d): %w",
			MinImprovementSuggestionLen, n, ErrValidation)
	}
	if rejectedBy == "" {
		return Rejection{}, fmt.Errorf("rejecting user is required: %w", ErrValidation)
	}
	return Rejection{
		Reason:      reason,
		Suggestions: suggestions,
		RejectedBy:  rejectedBy,
		RejectedAt:  at,
	}, nil
}
