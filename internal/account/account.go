// Package account implements the per-client balance state machine.
//
// An Account answers one question per operation: given the current balances
// and lock state, may this movement of funds happen, and what does it change.
// Every operation validates before it mutates; a failed operation leaves the
// account untouched. The invariant Total == Available + Held holds after
// every successful operation.
package account

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Sentinel errors returned by account operations.
var (
	// ErrLocked is returned by every operation once the account is frozen.
	ErrLocked = errors.New("account is locked")

	// ErrInsufficientFunds is returned by Withdraw when the available
	// balance does not cover the amount.
	ErrInsufficientFunds = errors.New("insufficient available funds")
)

// Account tracks one client's balances and lock state. The zero value is a
// valid empty account: all balances zero, unlocked.
type Account struct {
	Available decimal.Decimal // spendable funds
	Held      decimal.Decimal // funds frozen pending dispute outcome
	Total     decimal.Decimal // Available + Held
	Locked    bool            // set by a chargeback, never cleared
}

// Deposit credits the available balance.
func (a *Account) Deposit(amount decimal.Decimal) error {
	if a.Locked {
		return ErrLocked
	}
	a.Available = a.Available.Add(amount)
	a.Total = a.Total.Add(amount)
	return nil
}

// Withdraw debits the available balance. The available balance must cover
// the full amount; there is no overdraft.
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if a.Locked {
		return ErrLocked
	}
	if a.Available.LessThan(amount) {
		return ErrInsufficientFunds
	}
	a.Available = a.Available.Sub(amount)
	a.Total = a.Total.Sub(amount)
	return nil
}

// Dispute moves the amount from available to held. Total is unchanged.
// Available may go negative: the disputed funds may already have been
// withdrawn, and the hold records the liability regardless.
func (a *Account) Dispute(amount decimal.Decimal) error {
	if a.Locked {
		return ErrLocked
	}
	a.Available = a.Available.Sub(amount)
	a.Held = a.Held.Add(amount)
	return nil
}

// Resolve releases a held amount back to available. Total is unchanged.
func (a *Account) Resolve(amount decimal.Decimal) error {
	if a.Locked {
		return ErrLocked
	}
	a.Held = a.Held.Sub(amount)
	a.Available = a.Available.Add(amount)
	return nil
}

// Chargeback withdraws a held amount and freezes the account. After a
// chargeback no further operation may change any balance.
func (a *Account) Chargeback(amount decimal.Decimal) error {
	if a.Locked {
		return ErrLocked
	}
	a.Held = a.Held.Sub(amount)
	a.Total = a.Total.Sub(amount)
	a.Locked = true
	return nil
}
