package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	KindDeposit  TransactionKind = "Deposit"
	KindWithdraw TransactionKind = "Withdraw"
	KindTransfer TransactionKind = "Transfer"
)

// TransactionRecord is one immutable ledger event. It is created by the
// operation that caused it and appended to exactly one account's history.
// A transfer produces two records, one per side, sharing the same ID and
// timestamp but each carrying its own ending balance.
type TransactionRecord struct {
	ID                 string          `json:"id"`
	Timestamp          time.Time       `json:"timestamp"`
	Kind               TransactionKind `json:"kind"`
	Amount             decimal.Decimal `json:"amount"`
	SourceAccount      int64           `json:"source_account"`
	EndingBalance      decimal.Decimal `json:"ending_balance"`
	// DestinationAccount is set if and only if Kind is Transfer.
	DestinationAccount int64 `json:"destination_account,omitempty"`
}

// Receipt is a read-only summary of a completed transfer.
type Receipt struct {
	TransactionID string          `json:"transaction_id"`
	Timestamp     time.Time       `json:"timestamp"`
	Kind          TransactionKind `json:"kind"`
	Amount        decimal.Decimal `json:"amount"`
	Sender        int64           `json:"sender"`
	Receiver      int64           `json:"receiver"`
}

// GenerateReceipt returns the transfer summary for Transfer records.
// For any other kind the result is nil, not an error.
func (t *TransactionRecord) GenerateReceipt() *Receipt {
	if t.Kind != KindTransfer {
		return nil
	}
	return &Receipt{
		TransactionID: t.ID,
		Timestamp:     t.Timestamp,
		Kind:          t.Kind,
		Amount:        t.Amount,
		Sender:        t.SourceAccount,
		Receiver:      t.DestinationAccount,
	}
}
