package enums

// TransactionState tracks a register transaction through its lifecycle.
// Totaled always precedes Paid; Paid is terminal for the receipt and the
// session snaps back to Empty for the next customer.
type TransactionState string

const (
	TransactionStateEmpty        TransactionState = "empty"
	TransactionStateAccumulating TransactionState = "accumulating"
	TransactionStateTotaled      TransactionState = "totaled"
)

func (s TransactionState) IsValid() bool {
	switch s {
	case TransactionStateEmpty, TransactionStateAccumulating, TransactionStateTotaled:
		return true
	}
	return false
}

// AcceptsScans reports whether items may still be added to the cart.
func (s TransactionState) AcceptsScans() bool {
	return s == TransactionStateEmpty || s == TransactionStateAccumulating
}
