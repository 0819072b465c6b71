package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindRoundTrip(t *testing.T) {
	kinds := []TransactionKind{
		KindDeposit, KindWithdrawal, KindDispute, KindResolve, KindChargeback,
	}
	for _, k := range kinds {
		got, ok := KindFromString(k.String())
		require.True(t, ok, "KindFromString(%q)", k.String())
		assert.Equal(t, k, got)
	}
}

func TestKindFromStringUnknown(t *testing.T) {
	for _, s := range []string{"", "Deposit", "transfer", "deposit "} {
		_, ok := KindFromString(s)
		assert.False(t, ok, "KindFromString(%q) should not match", s)
	}
}

func TestKindHasAmount(t *testing.T) {
	assert.True(t, KindDeposit.HasAmount())
	assert.True(t, KindWithdrawal.HasAmount())
	assert.False(t, KindDispute.HasAmount())
	assert.False(t, KindResolve.HasAmount())
	assert.False(t, KindChargeback.HasAmount())
}

func TestTransactionEqualIgnoresDisputeState(t *testing.T) {
	amt := decimal.RequireFromString("12.3400")
	a := Transaction{Kind: KindDeposit, ClientID: 1, TxID: 7, Amount: &amt}
	b := a
	b.UnderDispute = true

	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a))
}

func TestTransactionEqual(t *testing.T) {
	amt := decimal.RequireFromString("100")
	other := decimal.RequireFromString("100.0001")

	base := Transaction{Kind: KindDeposit, ClientID: 1, TxID: 7, Amount: &amt}

	tests := []struct {
		name string
		tx   Transaction
		want bool
	}{
		{"identical", Transaction{Kind: KindDeposit, ClientID: 1, TxID: 7, Amount: &amt}, true},
		{"different kind", Transaction{Kind: KindWithdrawal, ClientID: 1, TxID: 7, Amount: &amt}, false},
		{"different client", Transaction{Kind: KindDeposit, ClientID: 2, TxID: 7, Amount: &amt}, false},
		{"different tx id", Transaction{Kind: KindDeposit, ClientID: 1, TxID: 8, Amount: &amt}, false},
		{"different amount", Transaction{Kind: KindDeposit, ClientID: 1, TxID: 7, Amount: &other}, false},
		{"missing amount", Transaction{Kind: KindDeposit, ClientID: 1, TxID: 7}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Equal(tt.tx))
		})
	}
}

func TestTransactionEqualScaleInsensitive(t *testing.T) {
	// 50 and 50.0000 are the same money even though the scales differ.
	a := decimal.RequireFromString("50")
	b := decimal.RequireFromString("50.0000")

	x := Transaction{Kind: KindWithdrawal, ClientID: 3, TxID: 9, Amount: &a}
	y := Transaction{Kind: KindWithdrawal, ClientID: 3, TxID: 9, Amount: &b}
	assert.True(t, x.Equal(y))
}
