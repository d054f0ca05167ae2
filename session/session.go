// Package session is the interactive terminal front end. It owns the
// login state for one user, collects and validates primitive inputs,
// hashes PINs before they cross into the ledger and renders typed results
// and errors. It never reaches into ledger internals.
package session

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"go-bank-ledger/common"
	"go-bank-ledger/model"
	"go-bank-ledger/repository"
	"go-bank-ledger/service"
)

type Session struct {
	ledger   *service.LedgerService
	exporter *repository.CSVStore
	in       *bufio.Scanner
	out      io.Writer

	loggedIn      bool
	accountNumber int64
}

func New(ledger *service.LedgerService, exporter *repository.CSVStore, in io.Reader, out io.Writer) *Session {
	return &Session{
		ledger:   ledger,
		exporter: exporter,
		in:       bufio.NewScanner(in),
		out:      out,
	}
}

// Run drives the menu loop until the user quits or input ends.
func (s *Session) Run() {
	fmt.Fprintf(s.out, "Welcome to %s\n", s.ledger.Name())
	for {
		var ok bool
		if s.loggedIn {
			ok = s.mainMenu()
		} else {
			ok = s.homeMenu()
		}
		if !ok {
			return
		}
	}
}

func (s *Session) homeMenu() bool {
	fmt.Fprintln(s.out, "\n1) Create account  2) Login  3) Help  q) Quit")
	switch s.prompt("Choose an option") {
	case "1":
		s.createAccount()
	case "2":
		s.login()
	case "3":
		s.help()
	case "q", "Q", "":
		return false
	default:
		fmt.Fprintln(s.out, "Unknown option")
	}
	return true
}

func (s *Session) mainMenu() bool {
	fmt.Fprintln(s.out, "\n1) Deposit  2) Withdraw  3) Transfer  4) Balance  5) History")
	fmt.Fprintln(s.out, "6) Update contact info  7) Change PIN  8) Export CSV  9) Import CSV  0) Logout  q) Quit")
	switch s.prompt("What do you want to do today?") {
	case "1":
		s.deposit()
	case "2":
		s.withdraw()
	case "3":
		s.transfer()
	case "4":
		s.balance()
	case "5":
		s.history()
	case "6":
		s.updateContact()
	case "7":
		s.changePIN()
	case "8":
		s.exportCSV()
	case "9":
		s.importCSV()
	case "0":
		s.logout()
	case "q", "Q", "":
		return false
	default:
		fmt.Fprintln(s.out, "Unknown option")
	}
	return true
}

func (s *Session) createAccount() {
	req := model.CreateAccountRequest{
		OwnerName: s.prompt("Full name"),
	}
	deposit, err := s.promptAmount("Initial deposit")
	if err != nil {
		s.renderError(err)
		return
	}
	req.InitialDeposit = deposit

	pin := s.prompt("PIN (4 digits)")
	if len(pin) != 4 {
		fmt.Fprintln(s.out, "PIN must be 4 digits")
		return
	}
	req.PINDigest = service.HashPIN(pin)
	req.Phone = s.prompt("Phone number")
	req.Address = s.prompt("Address")
	req.NextOfKin = s.prompt("Next of kin (optional)")
	req.NextOfKinPhone = s.prompt("Next of kin phone (optional)")

	acct, err := s.ledger.CreateAccount(req)
	if err != nil && !errors.Is(err, common.ErrPersistence) {
		s.renderError(err)
		return
	}
	fmt.Fprintf(s.out, "Account %s successfully created\n", service.FormatAccountNumber(acct.Number))
	s.warnIfUnsaved(err)
}

func (s *Session) login() {
	number, err := s.promptAccountNumber("Account number")
	if err != nil {
		s.renderError(err)
		return
	}
	pin := s.prompt("PIN")

	result, err := s.ledger.Authenticate(number, service.HashPIN(pin))
	if err != nil && !errors.Is(err, common.ErrPersistence) {
		s.renderError(err)
		return
	}
	fmt.Fprintln(s.out, result.Message)
	if result.Status == service.AuthSuccess {
		s.loggedIn = true
		s.accountNumber = number
		if acct, findErr := s.ledger.FindAccount(number); findErr == nil {
			fmt.Fprintf(s.out, "Welcome back, %s\n", acct.Name)
		}
	}
	s.warnIfUnsaved(err)
}

func (s *Session) logout() {
	s.loggedIn = false
	s.accountNumber = 0
	fmt.Fprintln(s.out, "Logged out")
}

func (s *Session) help() {
	fmt.Fprintf(s.out, "%s: create an account or log in to manage your money.\n", s.ledger.Name())
}

func (s *Session) deposit() {
	amount, err := s.promptAmount("Amount to deposit")
	if err != nil {
		s.renderError(err)
		return
	}
	record, err := s.ledger.Deposit(s.accountNumber, amount)
	if err != nil && !errors.Is(err, common.ErrPersistence) {
		s.renderError(err)
		return
	}
	fmt.Fprintf(s.out, "Your deposit of %s is successful. New balance: %s\n",
		record.Amount, record.EndingBalance)
	s.warnIfUnsaved(err)
}

func (s *Session) withdraw() {
	amount, err := s.promptAmount("Amount to withdraw")
	if err != nil {
		s.renderError(err)
		return
	}
	record, err := s.ledger.Withdraw(s.accountNumber, amount)
	if err != nil && !errors.Is(err, common.ErrPersistence) {
		s.renderError(err)
		return
	}
	fmt.Fprintf(s.out, "Your withdrawal of %s is successful. New balance: %s\n",
		record.Amount, record.EndingBalance)
	s.warnIfUnsaved(err)
}

func (s *Session) transfer() {
	to, err := s.promptAccountNumber("Destination account number")
	if err != nil {
		s.renderError(err)
		return
	}
	amount, err := s.promptAmount("Amount to transfer")
	if err != nil {
		s.renderError(err)
		return
	}
	receipt, err := s.ledger.Transfer(s.accountNumber, to, amount)
	if err != nil && !errors.Is(err, common.ErrPersistence) {
		s.renderError(err)
		return
	}
	fmt.Fprintf(s.out, "Transfer of %s to %s complete (transaction %s)\n",
		receipt.Amount, service.FormatAccountNumber(receipt.Receiver), receipt.TransactionID)
	s.warnIfUnsaved(err)
}

func (s *Session) balance() {
	balance, err := s.ledger.CheckBalance(s.accountNumber)
	if err != nil {
		s.renderError(err)
		return
	}
	fmt.Fprintf(s.out, "You have $%s in your account\n", balance)
}

func (s *Session) history() {
	records, err := s.ledger.TransactionHistory(s.accountNumber)
	if err != nil {
		s.renderError(err)
		return
	}
	if len(records) == 0 {
		fmt.Fprintln(s.out, "No transactions yet")
		return
	}
	for _, record := range records {
		line := fmt.Sprintf("%s  %-8s  %10s  balance %s",
			record.Timestamp.Format("2006-01-02 15:04:05"), record.Kind, record.Amount, record.EndingBalance)
		if record.Kind == model.KindTransfer {
			line += fmt.Sprintf("  (%s -> %s)",
				service.FormatAccountNumber(record.SourceAccount),
				service.FormatAccountNumber(record.DestinationAccount))
		}
		fmt.Fprintln(s.out, line)
	}
}

func (s *Session) updateContact() {
	req := model.UpdateContactRequest{
		Phone:          s.prompt("Phone number"),
		Address:        s.prompt("Address"),
		NextOfKin:      s.prompt("Next of kin (optional)"),
		NextOfKinPhone: s.prompt("Next of kin phone (optional)"),
	}
	err := s.ledger.UpdateContactInfo(s.accountNumber, req)
	if err != nil && !errors.Is(err, common.ErrPersistence) {
		s.renderError(err)
		return
	}
	fmt.Fprintln(s.out, "Contact info updated successfully")
	s.warnIfUnsaved(err)
}

func (s *Session) changePIN() {
	oldPIN := s.prompt("Current PIN")
	newPIN := s.prompt("New PIN (4 digits)")
	if len(newPIN) != 4 {
		fmt.Fprintln(s.out, "PIN must be 4 digits")
		return
	}
	outcome, err := s.ledger.ChangePIN(s.accountNumber, service.HashPIN(oldPIN), service.HashPIN(newPIN))
	if err != nil && !errors.Is(err, common.ErrPersistence) {
		s.renderError(err)
		return
	}
	if outcome == model.PINUnchanged {
		fmt.Fprintln(s.out, "Same PIN as previous, nothing changed")
		return
	}
	fmt.Fprintln(s.out, "PIN changed successfully")
	s.warnIfUnsaved(err)
}

func (s *Session) exportCSV() {
	if err := s.exporter.Save(s.ledger.Snapshot()); err != nil {
		s.renderError(err)
		return
	}
	fmt.Fprintln(s.out, "Accounts exported to CSV")
}

// importCSV replaces the ledger state with a previously exported record set.
// A missing export must never restore an empty ledger over live accounts.
func (s *Session) importCSV() {
	snap, err := s.exporter.Load()
	if errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(s.out, "No CSV export found. Export your accounts first")
		return
	}
	if err != nil {
		s.renderError(err)
		return
	}
	s.ledger.Restore(snap)
	fmt.Fprintf(s.out, "Loaded %d accounts from CSV\n", len(snap.Accounts))
	s.logout()
}

func (s *Session) prompt(label string) string {
	fmt.Fprintf(s.out, "%s: ", label)
	if !s.in.Scan() {
		return ""
	}
	return strings.TrimSpace(s.in.Text())
}

func (s *Session) promptAmount(label string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s.prompt(label))
	if err != nil {
		return decimal.Decimal{}, common.ErrInvalidAmount
	}
	return amount, nil
}

func (s *Session) promptAccountNumber(label string) (int64, error) {
	number, err := strconv.ParseInt(s.prompt(label), 10, 64)
	if err != nil {
		return 0, common.ErrInvalidInput
	}
	return number, nil
}

// warnIfUnsaved reports a persistence failure after a successful in-memory
// operation; the ledger itself stays usable.
func (s *Session) warnIfUnsaved(err error) {
	if errors.Is(err, common.ErrPersistence) {
		fmt.Fprintln(s.out, "Warning: changes could not be saved to disk, they will be retried on the next operation")
	}
}

func (s *Session) renderError(err error) {
	switch {
	case errors.Is(err, common.ErrInvalidAmount):
		fmt.Fprintln(s.out, "Please enter a valid amount greater than zero")
	case errors.Is(err, common.ErrInsufficientFunds):
		fmt.Fprintln(s.out, "Insufficient balance")
	case errors.Is(err, common.ErrSenderAccountNotFound),
		errors.Is(err, common.ErrReceiverAccountNotFound),
		errors.Is(err, common.ErrAccountNotFound):
		fmt.Fprintf(s.out, "%s. Check the account number or create an account\n", err)
	case errors.Is(err, common.ErrSameAccountTransfer):
		fmt.Fprintln(s.out, "You cannot transfer money to your own account")
	case errors.Is(err, common.ErrAccountLocked):
		fmt.Fprintln(s.out, "You have exceeded your login attempts. Please reach out to customer care")
	case errors.Is(err, common.ErrAuthenticationFailed):
		fmt.Fprintln(s.out, "Old PIN incorrect. Try again")
	case errors.Is(err, common.ErrInvalidInput):
		fmt.Fprintln(s.out, "Please input all necessary details")
	default:
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
}
