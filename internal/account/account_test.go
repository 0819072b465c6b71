package account

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// assertBalances checks all three balance fields and the core invariant.
func assertBalances(t *testing.T, a *Account, available, held, total string) {
	t.Helper()
	assert.True(t, a.Available.Equal(dec(available)), "Available = %s, want %s", a.Available, available)
	assert.True(t, a.Held.Equal(dec(held)), "Held = %s, want %s", a.Held, held)
	assert.True(t, a.Total.Equal(dec(total)), "Total = %s, want %s", a.Total, total)
	assert.True(t, a.Total.Equal(a.Available.Add(a.Held)), "invariant broken: total=%s available=%s held=%s", a.Total, a.Available, a.Held)
}

func TestDeposit(t *testing.T) {
	a := &Account{}
	require.NoError(t, a.Deposit(dec("1000.0000")))

	assertBalances(t, a, "1000", "0", "1000")
	assert.False(t, a.Locked)
}

func TestWithdrawSufficientFunds(t *testing.T) {
	a := &Account{}
	require.NoError(t, a.Deposit(dec("1000")))
	require.NoError(t, a.Withdraw(dec("500")))

	assertBalances(t, a, "500", "0", "500")
}

func TestWithdrawInsufficientFunds(t *testing.T) {
	a := &Account{}
	require.NoError(t, a.Deposit(dec("500")))

	err := a.Withdraw(dec("1000"))
	require.ErrorIs(t, err, ErrInsufficientFunds)
	assertBalances(t, a, "500", "0", "500")
}

func TestWithdrawExactBalance(t *testing.T) {
	a := &Account{}
	require.NoError(t, a.Deposit(dec("42.5000")))
	require.NoError(t, a.Withdraw(dec("42.5000")))

	assertBalances(t, a, "0", "0", "0")
}

func TestDispute(t *testing.T) {
	a := &Account{}
	require.NoError(t, a.Deposit(dec("1000")))
	require.NoError(t, a.Dispute(dec("500")))

	assertBalances(t, a, "500", "500", "1000")
}

func TestDisputeMayDriveAvailableNegative(t *testing.T) {
	// Deposit 100, withdraw 80, then dispute the full deposit: the hold
	// still applies and available records the shortfall.
	a := &Account{}
	require.NoError(t, a.Deposit(dec("100")))
	require.NoError(t, a.Withdraw(dec("80")))
	require.NoError(t, a.Dispute(dec("100")))

	assertBalances(t, a, "-80", "100", "20")
}

func TestResolve(t *testing.T) {
	a := &Account{}
	require.NoError(t, a.Deposit(dec("1000")))
	require.NoError(t, a.Dispute(dec("500")))
	require.NoError(t, a.Resolve(dec("500")))

	assertBalances(t, a, "1000", "0", "1000")
}

func TestChargeback(t *testing.T) {
	a := &Account{}
	require.NoError(t, a.Deposit(dec("1000")))
	require.NoError(t, a.Dispute(dec("500")))
	require.NoError(t, a.Chargeback(dec("500")))

	assertBalances(t, a, "500", "0", "500")
	assert.True(t, a.Locked)
}

func TestChargebackOnLockedAccount(t *testing.T) {
	a := &Account{}
	require.NoError(t, a.Deposit(dec("1000")))
	require.NoError(t, a.Dispute(dec("500")))
	require.NoError(t, a.Chargeback(dec("500")))

	err := a.Chargeback(dec("500"))
	require.ErrorIs(t, err, ErrLocked)
	assertBalances(t, a, "500", "0", "500")
	assert.True(t, a.Locked)
}

func TestLockedAccountRejectsEverything(t *testing.T) {
	a := &Account{}
	require.NoError(t, a.Deposit(dec("1000")))
	require.NoError(t, a.Dispute(dec("1000")))
	require.NoError(t, a.Chargeback(dec("1000")))
	require.True(t, a.Locked)

	ops := []struct {
		name string
		call func(decimal.Decimal) error
	}{
		{"deposit", a.Deposit},
		{"withdraw", a.Withdraw},
		{"dispute", a.Dispute},
		{"resolve", a.Resolve},
		{"chargeback", a.Chargeback},
	}

	for _, op := range ops {
		t.Run(op.name, func(t *testing.T) {
			err := op.call(dec("1"))
			require.ErrorIs(t, err, ErrLocked)
			assertBalances(t, a, "0", "0", "0")
		})
	}
}

func TestInvariantAcrossLongSequence(t *testing.T) {
	// Amounts are 4-digit fixed point at ingest; repeated arithmetic must
	// stay exact with no drift.
	a := &Account{}
	step := dec("0.0001")

	for i := 0; i < 10000; i++ {
		require.NoError(t, a.Deposit(step))
	}
	assertBalances(t, a, "1", "0", "1")

	for i := 0; i < 5000; i++ {
		require.NoError(t, a.Withdraw(step))
	}
	assertBalances(t, a, "0.5", "0", "0.5")
}
