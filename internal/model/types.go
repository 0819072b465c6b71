package model

import "github.com/shopspring/decimal"

// DisplayPrecision is the number of fractional digits carried by monetary
// amounts. Input amounts are truncated to this precision once, at parse
// time; report output is formatted to exactly this precision.
const DisplayPrecision = 4

// TransactionKind identifies one of the five supported transaction types.
type TransactionKind uint8

const (
	KindDeposit TransactionKind = iota
	KindWithdrawal
	KindDispute
	KindResolve
	KindChargeback
)

// kindNames are the lowercase wire names, indexed by kind.
var kindNames = [...]string{
	KindDeposit:    "deposit",
	KindWithdrawal: "withdrawal",
	KindDispute:    "dispute",
	KindResolve:    "resolve",
	KindChargeback: "chargeback",
}

// String returns the wire name of the kind.
func (k TransactionKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// KindFromString maps a wire name to its TransactionKind. The second return
// is false for anything outside the five known names.
func KindFromString(s string) (TransactionKind, bool) {
	for k, name := range kindNames {
		if s == name {
			return TransactionKind(k), true
		}
	}
	return 0, false
}

// HasAmount reports whether this kind carries a monetary amount on the wire.
// Dispute-family transactions reference a logged amount instead.
func (k TransactionKind) HasAmount() bool {
	return k == KindDeposit || k == KindWithdrawal
}

// Transaction is one financial event routed through the engine.
type Transaction struct {
	Kind     TransactionKind
	ClientID uint16
	TxID     uint32

	// Amount is set for deposits and withdrawals, nil otherwise.
	Amount *decimal.Decimal

	// UnderDispute tracks the dispute state of a logged deposit or
	// withdrawal. It is never set on the wire.
	UnderDispute bool
}

// Equal reports whether two transactions describe the same event: kind,
// client, transaction ID and amount. Dispute state is ignored so a logged
// entry still matches the record that produced it.
func (t Transaction) Equal(o Transaction) bool {
	if t.Kind != o.Kind || t.ClientID != o.ClientID || t.TxID != o.TxID {
		return false
	}
	if (t.Amount == nil) != (o.Amount == nil) {
		return false
	}
	return t.Amount == nil || t.Amount.Equal(*o.Amount)
}

// AccountSnapshot is one client's final balance state as read from a shard
// after quiescence.
type AccountSnapshot struct {
	ClientID  uint16
	Available decimal.Decimal
	Held      decimal.Decimal
	Total     decimal.Decimal
	Locked    bool
}
