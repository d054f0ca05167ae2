package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"go-bank-ledger/common"
)

// ContactInfo holds the account owner's contact metadata. Updates replace the
// whole value, they are never merged field by field.
type ContactInfo struct {
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	NextOfKin      string `json:"next_of_kin,omitempty"`
	NextOfKinPhone string `json:"next_of_kin_phone,omitempty"`
}

func (c ContactInfo) Empty() bool {
	return c == ContactInfo{}
}

// PINChangeOutcome distinguishes a real PIN change from the no-op case where
// the new PIN equals the old one.
type PINChangeOutcome string

const (
	PINChanged   PINChangeOutcome = "changed"
	PINUnchanged PINChangeOutcome = "unchanged"
)

// Account is a mutable ledger entity owned exclusively by the bank's account
// collection. Number is immutable after creation. Transactions is append-only
// and insertion order is chronological order.
type Account struct {
	Name         string              `json:"name"`
	Number       int64               `json:"number"`
	Balance      decimal.Decimal     `json:"balance"`
	PINDigest    string              `json:"pin_digest"`
	Contact      ContactInfo         `json:"contact_info"`
	CreatedAt    time.Time           `json:"created_at"`
	Transactions []TransactionRecord `json:"transactions"`
}

func NewAccount(name string, number int64, initialDeposit decimal.Decimal, pinDigest string, contact ContactInfo) *Account {
	return &Account{
		Name:      name,
		Number:    number,
		Balance:   initialDeposit,
		PINDigest: pinDigest,
		Contact:   contact,
		CreatedAt: time.Now(),
	}
}

// Deposit adds amount to the balance and appends a Deposit record carrying
// the new balance. There is no balance ceiling. The created record is
// returned as the confirmation value.
func (a *Account) Deposit(amount decimal.Decimal) (*TransactionRecord, error) {
	if amount.Sign() <= 0 {
		return nil, common.ErrInvalidAmount
	}
	a.Balance = a.Balance.Add(amount)
	record := TransactionRecord{
		ID:            uuid.NewString(),
		Timestamp:     time.Now(),
		Kind:          KindDeposit,
		Amount:        amount,
		SourceAccount: a.Number,
		EndingBalance: a.Balance,
	}
	a.Transactions = append(a.Transactions, record)
	return &record, nil
}

// Withdraw removes amount from the balance, provided the remaining balance
// does not drop below reserveFloor. The floor is deployment policy handed in
// by the ledger, not a property of the account.
func (a *Account) Withdraw(amount, reserveFloor decimal.Decimal) (*TransactionRecord, error) {
	if amount.Sign() <= 0 {
		return nil, common.ErrInvalidAmount
	}
	if a.Balance.Sub(amount).LessThan(reserveFloor) {
		return nil, common.ErrInsufficientFunds
	}
	a.Balance = a.Balance.Sub(amount)
	record := TransactionRecord{
		ID:            uuid.NewString(),
		Timestamp:     time.Now(),
		Kind:          KindWithdraw,
		Amount:        amount,
		SourceAccount: a.Number,
		EndingBalance: a.Balance,
	}
	a.Transactions = append(a.Transactions, record)
	return &record, nil
}

// CheckBalance never fails.
func (a *Account) CheckBalance() decimal.Decimal {
	return a.Balance
}

// ChangePIN replaces the stored digest after verifying the old one.
// A new digest equal to the old one is reported as PINUnchanged and mutates
// nothing.
func (a *Account) ChangePIN(oldDigest, newDigest string) (PINChangeOutcome, error) {
	if oldDigest != a.PINDigest {
		return "", common.ErrAuthenticationFailed
	}
	if newDigest == oldDigest {
		return PINUnchanged, nil
	}
	a.PINDigest = newDigest
	return PINChanged, nil
}

// UpdateContactInfo replaces the contact metadata wholesale.
func (a *Account) UpdateContactInfo(info ContactInfo) error {
	if info.Empty() {
		return common.ErrInvalidInput
	}
	a.Contact = info
	return nil
}

// TransactionHistory returns an ordered copy of the account's records.
// An empty history is a valid state, not an error.
func (a *Account) TransactionHistory() []TransactionRecord {
	out := make([]TransactionRecord, len(a.Transactions))
	copy(out, a.Transactions)
	return out
}
