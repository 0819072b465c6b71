package engine

import (
	"errors"
	"fmt"
)

// Code categorizes engine errors.
type Code string

const (
	// CodeInsufficientFunds indicates a withdrawal exceeding the available
	// balance.
	CodeInsufficientFunds Code = "INSUFFICIENT_FUNDS"

	// CodeTransactionNotFound indicates a dispute-family transaction
	// referencing a transaction ID with no logged deposit or withdrawal.
	CodeTransactionNotFound Code = "TRANSACTION_NOT_FOUND"

	// CodeInvalidOperation indicates an operation in the wrong state: any
	// mutation of a locked account, a dispute of an already-disputed
	// transaction, or a resolve/chargeback of a non-disputed one.
	CodeInvalidOperation Code = "INVALID_OPERATION"

	// CodeDuplicateTransaction indicates a deposit or withdrawal reusing a
	// transaction ID already present in the log.
	CodeDuplicateTransaction Code = "DUPLICATE_TRANSACTION"

	// CodeShutDown indicates a transaction routed after shutdown was
	// initiated.
	CodeShutDown Code = "SHUT_DOWN"

	// CodeChannelClosed indicates an enqueue onto a shard queue that has
	// already been closed.
	CodeChannelClosed Code = "CHANNEL_CLOSED"
)

// Error is a classified engine failure tied to one transaction.
type Error struct {
	// Code identifies the error category.
	Code Code

	// ClientID and TxID locate the offending transaction.
	ClientID uint16
	TxID     uint32

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause, if any (an account sentinel).
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s (client=%d, tx=%d)", e.Code, e.Message, e.ClientID, e.TxID)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the underlying cause to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// hasCode matches *Error through wrapping via errors.As.
func hasCode(err error, code Code) bool {
	var ee *Error
	if errors.As(err, &ee) {
		return ee.Code == code
	}
	return false
}

// IsInsufficientFunds reports whether err is an INSUFFICIENT_FUNDS error.
func IsInsufficientFunds(err error) bool { return hasCode(err, CodeInsufficientFunds) }

// IsTransactionNotFound reports whether err is a TRANSACTION_NOT_FOUND error.
func IsTransactionNotFound(err error) bool { return hasCode(err, CodeTransactionNotFound) }

// IsInvalidOperation reports whether err is an INVALID_OPERATION error.
func IsInvalidOperation(err error) bool { return hasCode(err, CodeInvalidOperation) }

// IsDuplicateTransaction reports whether err is a DUPLICATE_TRANSACTION error.
func IsDuplicateTransaction(err error) bool { return hasCode(err, CodeDuplicateTransaction) }

// IsShutDown reports whether err is a SHUT_DOWN routing error.
func IsShutDown(err error) bool { return hasCode(err, CodeShutDown) }

// IsChannelClosed reports whether err is a CHANNEL_CLOSED routing error.
func IsChannelClosed(err error) bool { return hasCode(err, CodeChannelClosed) }
