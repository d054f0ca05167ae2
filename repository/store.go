package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"go-bank-ledger/model"
)

// Store is the persistence adapter contract consumed by the ledger.
// Save overwrites the full durable record set; Load returns it. A missing
// store behaves as an empty one with the account counter at 1.
type Store interface {
	Load() (Snapshot, error)
	Save(Snapshot) error
}

// Meta records how and when a snapshot was written, for future schema
// migrations and debugging.
type Meta struct {
	Storage   string    `json:"storage"`
	Version   int       `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// PersistAccount is the storage-layer shape of one account: plain data, no
// behavior, safe to serialize. The auth attempt state rides along so a
// lockout survives a reload.
type PersistAccount struct {
	Number       int64                     `json:"number"`
	Name         string                    `json:"name"`
	Balance      decimal.Decimal           `json:"balance"`
	PINDigest    string                    `json:"pin_digest"`
	Contact      model.ContactInfo         `json:"contact_info"`
	CreatedAt    time.Time                 `json:"created_at"`
	Attempts     int                       `json:"attempts"`
	Locked       bool                      `json:"locked"`
	Transactions []model.TransactionRecord `json:"transactions"`
}

// Snapshot is the complete durable record set: every account with its
// ordered history, plus the separately tracked next account number.
type Snapshot struct {
	Meta       Meta             `json:"_meta"`
	NextNumber int64            `json:"next_account_number"`
	Accounts   []PersistAccount `json:"accounts"`
}

// EmptySnapshot is the state of a store that has never been written.
func EmptySnapshot() Snapshot {
	return Snapshot{NextNumber: 1}
}
