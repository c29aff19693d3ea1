package features

import "strings"

// PendingSentinel marks an INDE value whose inclusion is still pending.
const PendingSentinel = "INCLUIR"

// NormalizeIndexSentinel turns the pending-inclusion sentinel into missing
// and coerces whatever else is left to a number.
func NormalizeIndexSentinel(v Value) Value {
	s := strings.ToUpper(strings.TrimSpace(v.String()))
	if s == PendingSentinel {
		return Missing()
	}
	return CoerceNumeric(Text(s))
}
