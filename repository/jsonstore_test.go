package repository

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-bank-ledger/model"
)

func sampleSnapshot() Snapshot {
	createdAt := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	transferTime := createdAt.Add(time.Hour)
	return Snapshot{
		NextNumber: 3,
		Accounts: []PersistAccount{
			{
				Number:    1,
				Name:      "Ada",
				Balance:   decimal.RequireFromString("400.50"),
				PINDigest: "aaaa",
				Contact:   model.ContactInfo{Phone: "555-0100", Address: "1 Main St", NextOfKin: "Kin"},
				CreatedAt: createdAt,
				Attempts:  1,
				Transactions: []model.TransactionRecord{
					{
						ID:            "dep-1",
						Timestamp:     createdAt,
						Kind:          model.KindDeposit,
						Amount:        decimal.RequireFromString("200.50"),
						SourceAccount: 1,
						EndingBalance: decimal.RequireFromString("700.50"),
					},
					{
						ID:                 "tx-1",
						Timestamp:          transferTime,
						Kind:               model.KindTransfer,
						Amount:             decimal.NewFromInt(300),
						SourceAccount:      1,
						EndingBalance:      decimal.RequireFromString("400.50"),
						DestinationAccount: 2,
					},
				},
			},
			{
				Number:    2,
				Name:      "Grace",
				Balance:   decimal.NewFromInt(400),
				PINDigest: "bbbb",
				Contact:   model.ContactInfo{Phone: "555-0101", Address: "2 Main St"},
				CreatedAt: createdAt,
				Locked:    true,
				Transactions: []model.TransactionRecord{
					{
						ID:                 "tx-1",
						Timestamp:          transferTime,
						Kind:               model.KindTransfer,
						Amount:             decimal.NewFromInt(300),
						SourceAccount:      1,
						EndingBalance:      decimal.NewFromInt(400),
						DestinationAccount: 2,
					},
				},
			},
		},
	}
}

func assertSnapshotsEqual(t *testing.T, want, got Snapshot) {
	t.Helper()
	assert.Equal(t, want.NextNumber, got.NextNumber)
	require.Len(t, got.Accounts, len(want.Accounts))
	for i, wantAcct := range want.Accounts {
		gotAcct := got.Accounts[i]
		assert.Equal(t, wantAcct.Number, gotAcct.Number)
		assert.Equal(t, wantAcct.Name, gotAcct.Name)
		assert.True(t, wantAcct.Balance.Equal(gotAcct.Balance), "balance mismatch for account %d", wantAcct.Number)
		assert.Equal(t, wantAcct.PINDigest, gotAcct.PINDigest)
		assert.Equal(t, wantAcct.Contact, gotAcct.Contact)
		assert.True(t, wantAcct.CreatedAt.Equal(gotAcct.CreatedAt))
		assert.Equal(t, wantAcct.Attempts, gotAcct.Attempts)
		assert.Equal(t, wantAcct.Locked, gotAcct.Locked)
		require.Len(t, gotAcct.Transactions, len(wantAcct.Transactions), "history length for account %d", wantAcct.Number)
		for j, wantRec := range wantAcct.Transactions {
			gotRec := gotAcct.Transactions[j]
			assert.Equal(t, wantRec.ID, gotRec.ID)
			assert.True(t, wantRec.Timestamp.Equal(gotRec.Timestamp))
			assert.Equal(t, wantRec.Kind, gotRec.Kind)
			assert.True(t, wantRec.Amount.Equal(gotRec.Amount))
			assert.Equal(t, wantRec.SourceAccount, gotRec.SourceAccount)
			assert.True(t, wantRec.EndingBalance.Equal(gotRec.EndingBalance))
			assert.Equal(t, wantRec.DestinationAccount, gotRec.DestinationAccount)
		}
	}
}

func TestJSONStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bankdata.json")
	store := NewJSONStore(path)

	orig := sampleSnapshot()
	require.NoError(t, store.Save(orig))

	loaded, err := store.Load()
	require.NoError(t, err)

	assertSnapshotsEqual(t, orig, loaded)
	assert.Equal(t, "json_snapshot", loaded.Meta.Storage)
	assert.Equal(t, snapshotVersion, loaded.Meta.Version)
}

func TestJSONStore_MissingFileInitializesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bankdata.json")
	store := NewJSONStore(path)

	snap, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, int64(1), snap.NextNumber)
	assert.Empty(t, snap.Accounts)

	// The default must be persisted, not merely returned.
	_, err = os.Stat(path)
	require.NoError(t, err)

	reloaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, int64(1), reloaded.NextNumber)
}

func TestJSONStore_AtomicWriteLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bankdata.json")
	store := NewJSONStore(path)

	require.NoError(t, store.Save(sampleSnapshot()))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file must be renamed away")
}
