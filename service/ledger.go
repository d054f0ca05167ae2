package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"go-bank-ledger/common"
	"go-bank-ledger/logger"
	"go-bank-ledger/model"
	"go-bank-ledger/repository"
)

// authState is the per-account authentication state machine: attempts counts
// consecutive wrong PINs while unlocked; once locked the account stays locked
// until an out-of-band reset.
type authState struct {
	attempts int
	locked   bool
}

// LedgerService is the bank: it owns the account collection, allocates
// account numbers from a strictly increasing counter, tracks authentication
// attempts and orchestrates transfers atomically across two accounts.
//
// Every mutating operation persists the full snapshot afterwards. When the
// save fails, the in-memory state stays applied and usable and the failure
// is surfaced wrapped in common.ErrPersistence so the caller can retry.
type LedgerService struct {
	name         string
	accounts     map[int64]*model.Account
	nextNumber   int64
	auth         map[int64]*authState
	reserveFloor decimal.Decimal
	maxAttempts  int
	store        repository.Store
}

// NewLedgerService creates an empty ledger. A nil store disables
// persistence, which in-memory tests rely on.
func NewLedgerService(name string, reserveFloor decimal.Decimal, maxAttempts int, store repository.Store) *LedgerService {
	return &LedgerService{
		name:         name,
		accounts:     make(map[int64]*model.Account),
		nextNumber:   1,
		auth:         make(map[int64]*authState),
		reserveFloor: reserveFloor,
		maxAttempts:  maxAttempts,
		store:        store,
	}
}

func (s *LedgerService) Name() string {
	return s.name
}

// FormatAccountNumber renders an account number for display, zero-padded to
// eight digits.
func FormatAccountNumber(number int64) string {
	return fmt.Sprintf("%08d", number)
}

// CreateAccount validates the request, allocates the next account number and
// constructs the account with the initial deposit as its opening balance and
// an empty history. Accounts are created through here only and never deleted.
func (s *LedgerService) CreateAccount(req model.CreateAccountRequest) (*model.Account, error) {
	if err := common.ValidateStruct(req); err != nil {
		return nil, err
	}
	if req.InitialDeposit.Sign() <= 0 {
		return nil, fmt.Errorf("%w: initial deposit must be greater than zero", common.ErrInvalidInput)
	}

	number := s.nextNumber
	acct := model.NewAccount(
		req.OwnerName,
		number,
		req.InitialDeposit,
		req.PINDigest,
		req.Contact(),
	)
	s.accounts[number] = acct
	s.auth[number] = &authState{}
	s.nextNumber++

	logger.Log.WithFields(logrus.Fields{
		"account_number":  number,
		"initial_deposit": req.InitialDeposit.String(),
	}).Info("Account created")

	return acct, s.persist()
}

// FindAccount looks up an account by its unique number. The not-found case
// is an explicit error, never a partial object.
func (s *LedgerService) FindAccount(number int64) (*model.Account, error) {
	acct, ok := s.accounts[number]
	if !ok {
		return nil, common.ErrAccountNotFound
	}
	return acct, nil
}

// Authenticate applies the per-account attempt state machine. It never
// touches balances; only the attempt counter changes, and that change is
// persisted. A locked account refuses every attempt regardless of the PIN
// with common.ErrAccountLocked, until an out-of-band reset.
func (s *LedgerService) Authenticate(number int64, pinDigest string) (AuthResult, error) {
	acct, err := s.FindAccount(number)
	if err != nil {
		return AuthResult{}, err
	}

	state := s.authStateFor(number)
	if state.locked {
		return AuthResult{}, common.ErrAccountLocked
	}

	if pinDigest == acct.PINDigest {
		state.attempts = 0
		logger.Log.WithField("account_number", number).Info("Login successful")
		return AuthResult{Status: AuthSuccess, Message: "Login successful"}, s.persist()
	}

	state.attempts++
	if state.attempts >= s.maxAttempts {
		state.locked = true
		logger.Log.WithField("account_number", number).Warn("Account locked after repeated wrong PINs")
	}
	return wrongPINResult(s.maxAttempts - state.attempts), s.persist()
}

func (s *LedgerService) authStateFor(number int64) *authState {
	state, ok := s.auth[number]
	if !ok {
		state = &authState{}
		s.auth[number] = state
	}
	return state
}

// Deposit adds funds to an account and persists the result.
func (s *LedgerService) Deposit(number int64, amount decimal.Decimal) (*model.TransactionRecord, error) {
	acct, err := s.FindAccount(number)
	if err != nil {
		return nil, err
	}
	record, err := acct.Deposit(amount)
	if err != nil {
		return nil, err
	}
	return record, s.persist()
}

// Withdraw removes funds, applying the configured reserve floor.
func (s *LedgerService) Withdraw(number int64, amount decimal.Decimal) (*model.TransactionRecord, error) {
	acct, err := s.FindAccount(number)
	if err != nil {
		return nil, err
	}
	record, err := acct.Withdraw(amount, s.reserveFloor)
	if err != nil {
		return nil, err
	}
	return record, s.persist()
}

func (s *LedgerService) CheckBalance(number int64) (decimal.Decimal, error) {
	acct, err := s.FindAccount(number)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return acct.CheckBalance(), nil
}

func (s *LedgerService) TransactionHistory(number int64) ([]model.TransactionRecord, error) {
	acct, err := s.FindAccount(number)
	if err != nil {
		return nil, err
	}
	return acct.TransactionHistory(), nil
}

// ChangePIN delegates to the account. The unchanged no-op outcome skips the
// save, nothing was mutated.
func (s *LedgerService) ChangePIN(number int64, oldDigest, newDigest string) (model.PINChangeOutcome, error) {
	acct, err := s.FindAccount(number)
	if err != nil {
		return "", err
	}
	outcome, err := acct.ChangePIN(oldDigest, newDigest)
	if err != nil {
		return "", err
	}
	if outcome == model.PINUnchanged {
		return outcome, nil
	}
	return outcome, s.persist()
}

// UpdateContactInfo replaces an account's contact metadata wholesale.
func (s *LedgerService) UpdateContactInfo(number int64, req model.UpdateContactRequest) error {
	if err := common.ValidateStruct(req); err != nil {
		return err
	}
	acct, err := s.FindAccount(number)
	if err != nil {
		return err
	}
	if err := acct.UpdateContactInfo(req.Contact()); err != nil {
		return err
	}
	return s.persist()
}

// Transfer moves amount between two distinct accounts as one logical unit:
// every validation runs before any mutation, then both balances move and
// both sides get a record sharing one transaction ID and timestamp, each
// carrying its own resulting balance. The sender-side receipt is returned.
//
// Transfers check the raw balance, the reserve floor applies to withdrawals
// only and there is no overdraft allowance.
func (s *LedgerService) Transfer(fromNumber, toNumber int64, amount decimal.Decimal) (*model.Receipt, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"from_account": fromNumber,
		"to_account":   toNumber,
		"amount":       amount,
	})

	if fromNumber == toNumber {
		return nil, common.ErrSameAccountTransfer
	}
	if amount.Sign() <= 0 {
		return nil, common.ErrInvalidAmount
	}
	source, ok := s.accounts[fromNumber]
	if !ok {
		return nil, common.ErrSenderAccountNotFound
	}
	destination, ok := s.accounts[toNumber]
	if !ok {
		return nil, common.ErrReceiverAccountNotFound
	}
	if source.Balance.LessThan(amount) {
		return nil, common.ErrInsufficientFunds
	}

	id := uuid.NewString()
	now := time.Now()
	source.Balance = source.Balance.Sub(amount)
	destination.Balance = destination.Balance.Add(amount)

	senderRecord := model.TransactionRecord{
		ID:                 id,
		Timestamp:          now,
		Kind:               model.KindTransfer,
		Amount:             amount,
		SourceAccount:      fromNumber,
		EndingBalance:      source.Balance,
		DestinationAccount: toNumber,
	}
	receiverRecord := senderRecord
	receiverRecord.EndingBalance = destination.Balance

	source.Transactions = append(source.Transactions, senderRecord)
	destination.Transactions = append(destination.Transactions, receiverRecord)

	log.Info("Transfer completed")
	return senderRecord.GenerateReceipt(), s.persist()
}

// Snapshot exports the full ledger state for persistence, accounts sorted by
// number for deterministic output.
func (s *LedgerService) Snapshot() repository.Snapshot {
	snap := repository.Snapshot{NextNumber: s.nextNumber}
	for number, acct := range s.accounts {
		state := s.authStateFor(number)
		snap.Accounts = append(snap.Accounts, repository.PersistAccount{
			Number:       acct.Number,
			Name:         acct.Name,
			Balance:      acct.Balance,
			PINDigest:    acct.PINDigest,
			Contact:      acct.Contact,
			CreatedAt:    acct.CreatedAt,
			Attempts:     state.attempts,
			Locked:       state.locked,
			Transactions: acct.TransactionHistory(),
		})
	}
	sort.Slice(snap.Accounts, func(i, j int) bool {
		return snap.Accounts[i].Number < snap.Accounts[j].Number
	})
	return snap
}

// Restore rebuilds the ledger from a snapshot: same accounts, same ordered
// histories, same auth state, same counter. The counter is bumped past the
// highest issued number if the snapshot disagrees, numbers are never reused.
func (s *LedgerService) Restore(snap repository.Snapshot) {
	s.accounts = make(map[int64]*model.Account, len(snap.Accounts))
	s.auth = make(map[int64]*authState, len(snap.Accounts))
	s.nextNumber = snap.NextNumber
	if s.nextNumber < 1 {
		s.nextNumber = 1
	}

	for _, pa := range snap.Accounts {
		acct := &model.Account{
			Name:         pa.Name,
			Number:       pa.Number,
			Balance:      pa.Balance,
			PINDigest:    pa.PINDigest,
			Contact:      pa.Contact,
			CreatedAt:    pa.CreatedAt,
			Transactions: append([]model.TransactionRecord(nil), pa.Transactions...),
		}
		s.accounts[pa.Number] = acct
		s.auth[pa.Number] = &authState{attempts: pa.Attempts, locked: pa.Locked}
		if pa.Number >= s.nextNumber {
			s.nextNumber = pa.Number + 1
		}
	}
}

func (s *LedgerService) persist() error {
	if s.store == nil {
		return nil
	}
	if err := s.store.Save(s.Snapshot()); err != nil {
		logger.Log.WithError(err).Error("Failed to persist ledger snapshot")
		return fmt.Errorf("%w: %v", common.ErrPersistence, err)
	}
	return nil
}
