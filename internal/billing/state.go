package billing

import "strings"

// UnknownStatePolicy decides the intra/inter-state split when either the
// business or the party registration state is empty.
type UnknownStatePolicy string

const (
	// UnknownIsIntraState treats a missing state as same-state. This is the
	// historical behavior of the billing screens and the default.
	UnknownIsIntraState UnknownStatePolicy = "INTRA"
	// UnknownIsInterState treats a missing state as different-state.
	UnknownIsInterState UnknownStatePolicy = "INTER"
)

// StateComparator decides whether a transaction is intra-state (SGST+CGST)
// or inter-state (IGST) from the two registration states. The zero value
// uses UnknownIsIntraState.
type StateComparator struct {
	Unknown UnknownStatePolicy
}

// IsIntraState compares the business and party registration states with
// case-insensitive, whitespace-trimmed equality. An empty state on either
// side resolves per the configured policy instead of the equality rule.
func (c StateComparator) IsIntraState(businessState, partyState string) bool {
	b := strings.TrimSpace(businessState)
	p := strings.TrimSpace(partyState)
	if b == "" || p == "" {
		return c.Unknown != UnknownIsInterState
	}
	return strings.EqualFold(b, p)
}
