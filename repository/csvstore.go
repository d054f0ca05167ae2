package repository

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"go-bank-ledger/model"
)

// CSVStore is the tabular persistence adapter: one row-oriented file for
// accounts and one for their transactions, so the history round-trips as
// structured rows instead of being flattened into a text column.
//
// Unlike the authoritative JSON store, Load never fabricates an empty
// record set: importing an export that was never written (or whose
// transactions file is gone) is an error, because restoring from it would
// silently erase accounts or their histories.
//
// The next account number is not stored separately; accounts are never
// deleted, so recomputing it as max(number)+1 on load keeps issued numbers
// strictly increasing.
type CSVStore struct {
	base string
}

func NewCSVStore(base string) *CSVStore {
	return &CSVStore{base: base}
}

func (s *CSVStore) accountsPath() string     { return s.base + "_accounts.csv" }
func (s *CSVStore) transactionsPath() string { return s.base + "_transactions.csv" }

var accountHeader = []string{
	"number", "name", "balance", "pin_digest",
	"phone", "address", "next_of_kin", "next_of_kin_phone",
	"created_at", "attempts", "locked",
}

var transactionHeader = []string{
	"account_number", "transaction_id", "timestamp", "kind",
	"amount", "source_account", "ending_balance", "destination_account",
}

func (s *CSVStore) Save(snap Snapshot) error {
	accountRows := [][]string{accountHeader}
	transactionRows := [][]string{transactionHeader}

	for _, acct := range snap.Accounts {
		accountRows = append(accountRows, []string{
			strconv.FormatInt(acct.Number, 10),
			acct.Name,
			acct.Balance.String(),
			acct.PINDigest,
			acct.Contact.Phone,
			acct.Contact.Address,
			acct.Contact.NextOfKin,
			acct.Contact.NextOfKinPhone,
			acct.CreatedAt.Format(time.RFC3339Nano),
			strconv.Itoa(acct.Attempts),
			strconv.FormatBool(acct.Locked),
		})
		for _, record := range acct.Transactions {
			destination := ""
			if record.Kind == model.KindTransfer {
				destination = strconv.FormatInt(record.DestinationAccount, 10)
			}
			transactionRows = append(transactionRows, []string{
				strconv.FormatInt(acct.Number, 10),
				record.ID,
				record.Timestamp.Format(time.RFC3339Nano),
				string(record.Kind),
				record.Amount.String(),
				strconv.FormatInt(record.SourceAccount, 10),
				record.EndingBalance.String(),
				destination,
			})
		}
	}

	if err := writeCSV(s.accountsPath(), accountRows); err != nil {
		return err
	}
	return writeCSV(s.transactionsPath(), transactionRows)
}

// Load rebuilds the snapshot from the two files. Both must exist: a missing
// export is reported, never replaced with an empty record set.
func (s *CSVStore) Load() (Snapshot, error) {
	accountRows, err := readCSV(s.accountsPath())
	if err != nil {
		return Snapshot{}, err
	}

	transactionRows, err := readCSV(s.transactionsPath())
	if err != nil {
		return Snapshot{}, err
	}

	// File order is chronological order, so grouping by account while
	// walking the rows preserves each history's ordering.
	historyByAccount := make(map[int64][]model.TransactionRecord)
	for i, row := range transactionRows {
		if i == 0 {
			continue // header
		}
		number, record, err := parseTransactionRow(row)
		if err != nil {
			return Snapshot{}, fmt.Errorf("transactions row %d: %w", i, err)
		}
		historyByAccount[number] = append(historyByAccount[number], record)
	}

	snap := EmptySnapshot()
	for i, row := range accountRows {
		if i == 0 {
			continue
		}
		acct, err := parseAccountRow(row)
		if err != nil {
			return Snapshot{}, fmt.Errorf("accounts row %d: %w", i, err)
		}
		acct.Transactions = historyByAccount[acct.Number]
		snap.Accounts = append(snap.Accounts, acct)
		if acct.Number >= snap.NextNumber {
			snap.NextNumber = acct.Number + 1
		}
	}
	return snap, nil
}

func parseAccountRow(row []string) (PersistAccount, error) {
	if len(row) != len(accountHeader) {
		return PersistAccount{}, fmt.Errorf("expected %d columns, got %d", len(accountHeader), len(row))
	}
	number, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return PersistAccount{}, err
	}
	balance, err := decimal.NewFromString(row[2])
	if err != nil {
		return PersistAccount{}, err
	}
	createdAt, err := time.Parse(time.RFC3339Nano, row[8])
	if err != nil {
		return PersistAccount{}, err
	}
	attempts, err := strconv.Atoi(row[9])
	if err != nil {
		return PersistAccount{}, err
	}
	locked, err := strconv.ParseBool(row[10])
	if err != nil {
		return PersistAccount{}, err
	}
	return PersistAccount{
		Number:    number,
		Name:      row[1],
		Balance:   balance,
		PINDigest: row[3],
		Contact: model.ContactInfo{
			Phone:          row[4],
			Address:        row[5],
			NextOfKin:      row[6],
			NextOfKinPhone: row[7],
		},
		CreatedAt: createdAt,
		Attempts:  attempts,
		Locked:    locked,
	}, nil
}

func parseTransactionRow(row []string) (int64, model.TransactionRecord, error) {
	if len(row) != len(transactionHeader) {
		return 0, model.TransactionRecord{}, fmt.Errorf("expected %d columns, got %d", len(transactionHeader), len(row))
	}
	accountNumber, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return 0, model.TransactionRecord{}, err
	}
	timestamp, err := time.Parse(time.RFC3339Nano, row[2])
	if err != nil {
		return 0, model.TransactionRecord{}, err
	}
	amount, err := decimal.NewFromString(row[4])
	if err != nil {
		return 0, model.TransactionRecord{}, err
	}
	source, err := strconv.ParseInt(row[5], 10, 64)
	if err != nil {
		return 0, model.TransactionRecord{}, err
	}
	endingBalance, err := decimal.NewFromString(row[6])
	if err != nil {
		return 0, model.TransactionRecord{}, err
	}
	record := model.TransactionRecord{
		ID:            row[1],
		Timestamp:     timestamp,
		Kind:          model.TransactionKind(row[3]),
		Amount:        amount,
		SourceAccount: source,
		EndingBalance: endingBalance,
	}
	if row[7] != "" {
		destination, err := strconv.ParseInt(row[7], 10, 64)
		if err != nil {
			return 0, model.TransactionRecord{}, err
		}
		record.DestinationAccount = destination
	}
	return accountNumber, record, nil
}

func writeCSV(path string, rows [][]string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return csv.NewReader(f).ReadAll()
}
