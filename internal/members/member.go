package members

import (
	"fmt"
	"strings"
)

// Member is the immutable identity attached to at most one transaction at a
// time.
type Member struct {
	AccountNumber int64
	FirstName     string
	LastName      string
}

// FullName returns the display name.
func (m Member) FullName() string {
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

// MaskedAccount renders the account number with everything but the last four
// digits hidden, e.g. 1234567890123 becomes "*****0123". Shorter numbers are
// fully masked.
func (m Member) MaskedAccount() string {
	digits := fmt.Sprintf("%d", m.AccountNumber)
	if len(digits) < 4 {
		return "*****"
	}
	return "*****" + digits[len(digits)-4:]
}
