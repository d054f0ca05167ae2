package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransactionRecord_GenerateReceipt(t *testing.T) {
	now := time.Now()

	t.Run("transfer record yields a receipt", func(t *testing.T) {
		record := TransactionRecord{
			ID:                 "tx-1",
			Timestamp:          now,
			Kind:               KindTransfer,
			Amount:             decimal.NewFromInt(300),
			SourceAccount:      1,
			EndingBalance:      decimal.NewFromInt(400),
			DestinationAccount: 2,
		}

		receipt := record.GenerateReceipt()

		assert.NotNil(t, receipt)
		assert.Equal(t, "tx-1", receipt.TransactionID)
		assert.Equal(t, now, receipt.Timestamp)
		assert.Equal(t, KindTransfer, receipt.Kind)
		assert.True(t, receipt.Amount.Equal(decimal.NewFromInt(300)))
		assert.Equal(t, int64(1), receipt.Sender)
		assert.Equal(t, int64(2), receipt.Receiver)
	})

	t.Run("non-transfer record yields nil, not an error", func(t *testing.T) {
		record := TransactionRecord{
			ID:            "tx-2",
			Timestamp:     now,
			Kind:          KindDeposit,
			Amount:        decimal.NewFromInt(100),
			SourceAccount: 1,
			EndingBalance: decimal.NewFromInt(100),
		}

		assert.Nil(t, record.GenerateReceipt())
	})
}
