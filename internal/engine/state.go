package engine

import (
	"errors"
	"fmt"

	"github.com/avelor/settler/internal/account"
	"github.com/avelor/settler/internal/model"
)

// shardState owns one partition's account table and transaction log. It is
// mutated only by the owning shard's worker, under the shard mutex; nothing
// in here locks.
type shardState struct {
	accounts map[uint16]*account.Account
	log      map[uint32]*model.Transaction
}

func newShardState() *shardState {
	return &shardState{
		accounts: make(map[uint16]*account.Account),
		log:      make(map[uint32]*model.Transaction),
	}
}

// apply dispatches one transaction against this shard's state. On any error
// the balances and the log are exactly as they were before the call; the
// client's account itself is materialized by every transaction referencing
// it, rejected or not.
func (s *shardState) apply(tx model.Transaction) error {
	acct := s.account(tx.ClientID)

	switch tx.Kind {
	case model.KindDeposit, model.KindWithdrawal:
		return s.applyFunding(acct, tx)
	case model.KindDispute, model.KindResolve, model.KindChargeback:
		return s.applyDispute(acct, tx)
	default:
		return &Error{
			Code:     CodeInvalidOperation,
			ClientID: tx.ClientID,
			TxID:     tx.TxID,
			Message:  fmt.Sprintf("unknown transaction kind %d", tx.Kind),
		}
	}
}

// applyFunding handles deposits and withdrawals, the only kinds that move
// external money and the only kinds recorded in the transaction log.
func (s *shardState) applyFunding(acct *account.Account, tx model.Transaction) error {
	if tx.Amount == nil {
		return &Error{
			Code:     CodeInvalidOperation,
			ClientID: tx.ClientID,
			TxID:     tx.TxID,
			Message:  tx.Kind.String() + " without an amount",
		}
	}
	if tx.Amount.Sign() <= 0 {
		return &Error{
			Code:     CodeInvalidOperation,
			ClientID: tx.ClientID,
			TxID:     tx.TxID,
			Message:  tx.Kind.String() + " amount must be positive",
		}
	}
	if prev, ok := s.log[tx.TxID]; ok {
		msg := "transaction id reused with different content"
		if prev.Equal(tx) {
			msg = "transaction replayed"
		}
		return &Error{
			Code:     CodeDuplicateTransaction,
			ClientID: tx.ClientID,
			TxID:     tx.TxID,
			Message:  msg,
		}
	}

	var err error
	if tx.Kind == model.KindDeposit {
		err = acct.Deposit(*tx.Amount)
	} else {
		err = acct.Withdraw(*tx.Amount)
	}
	if err != nil {
		return classify(err, tx)
	}

	// Only successful funding transactions are logged; a failed withdrawal
	// leaves nothing for a later dispute to reference.
	entry := tx
	entry.UnderDispute = false
	s.log[tx.TxID] = &entry
	return nil
}

// applyDispute handles the dispute family, which references a logged
// transaction by ID and moves its amount between held and available.
//
// Flag transitions: Dispute requires the entry clear and sets it. Resolve
// requires it set and clears it, so the entry may be disputed again later.
// Chargeback requires it set and leaves it set; the account lock makes the
// entry terminal.
func (s *shardState) applyDispute(acct *account.Account, tx model.Transaction) error {
	entry, ok := s.log[tx.TxID]
	if !ok || entry.ClientID != tx.ClientID {
		// A client mismatch gets the same answer whether or not the
		// referencing client happens to share this shard with the
		// logging client.
		return &Error{
			Code:     CodeTransactionNotFound,
			ClientID: tx.ClientID,
			TxID:     tx.TxID,
			Message:  "no deposit or withdrawal logged",
		}
	}

	// Logged entries always carry an amount; applyFunding is the only
	// writer and requires one.
	amount := *entry.Amount

	switch tx.Kind {
	case model.KindDispute:
		if entry.UnderDispute {
			return &Error{
				Code:     CodeInvalidOperation,
				ClientID: tx.ClientID,
				TxID:     tx.TxID,
				Message:  "transaction already under dispute",
			}
		}
		if err := acct.Dispute(amount); err != nil {
			return classify(err, tx)
		}
		entry.UnderDispute = true

	case model.KindResolve:
		if !entry.UnderDispute {
			return &Error{
				Code:     CodeInvalidOperation,
				ClientID: tx.ClientID,
				TxID:     tx.TxID,
				Message:  "resolve of a transaction not under dispute",
			}
		}
		if err := acct.Resolve(amount); err != nil {
			return classify(err, tx)
		}
		entry.UnderDispute = false

	case model.KindChargeback:
		if !entry.UnderDispute {
			return &Error{
				Code:     CodeInvalidOperation,
				ClientID: tx.ClientID,
				TxID:     tx.TxID,
				Message:  "chargeback of a transaction not under dispute",
			}
		}
		if err := acct.Chargeback(amount); err != nil {
			return classify(err, tx)
		}
	}
	return nil
}

// account returns the client's account, creating an empty unlocked one on
// first reference.
func (s *shardState) account(clientID uint16) *account.Account {
	acct, ok := s.accounts[clientID]
	if !ok {
		acct = &account.Account{}
		s.accounts[clientID] = acct
	}
	return acct
}

// snapshot copies this shard's account table. Called under the shard mutex.
func (s *shardState) snapshot() []model.AccountSnapshot {
	out := make([]model.AccountSnapshot, 0, len(s.accounts))
	for clientID, acct := range s.accounts {
		out = append(out, model.AccountSnapshot{
			ClientID:  clientID,
			Available: acct.Available,
			Held:      acct.Held,
			Total:     acct.Total,
			Locked:    acct.Locked,
		})
	}
	return out
}

// classify wraps an account sentinel into a coded engine error.
func classify(err error, tx model.Transaction) error {
	code := CodeInvalidOperation
	if errors.Is(err, account.ErrInsufficientFunds) {
		code = CodeInsufficientFunds
	}
	return &Error{
		Code:     code,
		ClientID: tx.ClientID,
		TxID:     tx.TxID,
		Message:  tx.Kind.String() + " refused",
		Err:      err,
	}
}
