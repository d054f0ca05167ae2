package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-bank-ledger/common"
)

func newTestAccount(balance int64) *Account {
	return NewAccount("Ada Lovelace", 1, decimal.NewFromInt(balance), "digest", ContactInfo{
		Phone:   "555-0100",
		Address: "1 Main St",
	})
}

func TestAccount_Deposit(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		acct := newTestAccount(500)

		record, err := acct.Deposit(decimal.NewFromInt(200))

		require.NoError(t, err)
		assert.Equal(t, KindDeposit, record.Kind)
		assert.True(t, record.Amount.Equal(decimal.NewFromInt(200)))
		assert.True(t, record.EndingBalance.Equal(decimal.NewFromInt(700)))
		assert.True(t, acct.Balance.Equal(decimal.NewFromInt(700)))
		assert.NotEmpty(t, record.ID)
		assert.Len(t, acct.Transactions, 1)
	})

	t.Run("zero or negative amount", func(t *testing.T) {
		acct := newTestAccount(500)

		for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-10)} {
			_, err := acct.Deposit(amount)
			assert.ErrorIs(t, err, common.ErrInvalidAmount)
		}
		assert.True(t, acct.Balance.Equal(decimal.NewFromInt(500)))
		assert.Empty(t, acct.Transactions)
	})
}

func TestAccount_Withdraw(t *testing.T) {
	t.Run("success with zero floor", func(t *testing.T) {
		acct := newTestAccount(500)

		record, err := acct.Withdraw(decimal.NewFromInt(500), decimal.Zero)

		require.NoError(t, err)
		assert.Equal(t, KindWithdraw, record.Kind)
		assert.True(t, acct.Balance.Equal(decimal.Zero))
	})

	t.Run("reserve floor enforced", func(t *testing.T) {
		acct := newTestAccount(500)
		floor := decimal.NewFromInt(100)

		_, err := acct.Withdraw(decimal.NewFromInt(450), floor)
		assert.ErrorIs(t, err, common.ErrInsufficientFunds)
		assert.True(t, acct.Balance.Equal(decimal.NewFromInt(500)))
		assert.Empty(t, acct.Transactions)

		// Exactly down to the floor is allowed.
		_, err = acct.Withdraw(decimal.NewFromInt(400), floor)
		require.NoError(t, err)
		assert.True(t, acct.Balance.Equal(decimal.NewFromInt(100)))
	})

	t.Run("invalid amount", func(t *testing.T) {
		acct := newTestAccount(500)

		_, err := acct.Withdraw(decimal.NewFromInt(-1), decimal.Zero)
		assert.ErrorIs(t, err, common.ErrInvalidAmount)
	})
}

// Balance must always equal the ending balance of the latest record once any
// record exists.
func TestAccount_BalanceMatchesLatestRecord(t *testing.T) {
	acct := newTestAccount(1000)

	_, err := acct.Deposit(decimal.NewFromInt(250))
	require.NoError(t, err)
	_, err = acct.Withdraw(decimal.NewFromInt(400), decimal.Zero)
	require.NoError(t, err)
	_, err = acct.Deposit(decimal.NewFromInt(25))
	require.NoError(t, err)

	latest := acct.Transactions[len(acct.Transactions)-1]
	assert.True(t, acct.Balance.Equal(latest.EndingBalance))
	assert.True(t, acct.Balance.Equal(decimal.NewFromInt(875)))
}

func TestAccount_ChangePIN(t *testing.T) {
	t.Run("wrong old digest", func(t *testing.T) {
		acct := newTestAccount(100)

		_, err := acct.ChangePIN("wrong", "new-digest")
		assert.ErrorIs(t, err, common.ErrAuthenticationFailed)
		assert.Equal(t, "digest", acct.PINDigest)
	})

	t.Run("same pin is a distinct no-op", func(t *testing.T) {
		acct := newTestAccount(100)

		outcome, err := acct.ChangePIN("digest", "digest")
		require.NoError(t, err)
		assert.Equal(t, PINUnchanged, outcome)
		assert.Equal(t, "digest", acct.PINDigest)
	})

	t.Run("changed", func(t *testing.T) {
		acct := newTestAccount(100)

		outcome, err := acct.ChangePIN("digest", "new-digest")
		require.NoError(t, err)
		assert.Equal(t, PINChanged, outcome)
		assert.Equal(t, "new-digest", acct.PINDigest)
	})
}

func TestAccount_UpdateContactInfo(t *testing.T) {
	acct := newTestAccount(100)

	err := acct.UpdateContactInfo(ContactInfo{})
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	// Replacement is wholesale, fields not supplied again are gone.
	err = acct.UpdateContactInfo(ContactInfo{Phone: "555-0199", Address: "9 Side St"})
	require.NoError(t, err)
	assert.Equal(t, "555-0199", acct.Contact.Phone)
	assert.Equal(t, "9 Side St", acct.Contact.Address)
	assert.Empty(t, acct.Contact.NextOfKin)
}

func TestAccount_TransactionHistory(t *testing.T) {
	acct := newTestAccount(100)

	history := acct.TransactionHistory()
	assert.NotNil(t, history)
	assert.Empty(t, history)

	_, err := acct.Deposit(decimal.NewFromInt(50))
	require.NoError(t, err)

	history = acct.TransactionHistory()
	require.Len(t, history, 1)

	// The returned slice is a copy, mutating it must not touch the account.
	history[0].ID = "tampered"
	assert.NotEqual(t, "tampered", acct.Transactions[0].ID)
}
