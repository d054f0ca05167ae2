package app

import (
	"os"

	"github.com/shopspring/decimal"

	"go-bank-ledger/config"
	"go-bank-ledger/logger"
	"go-bank-ledger/repository"
	"go-bank-ledger/service"
	"go-bank-ledger/session"
)

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.SetLevel(config.AppConfig.Log.Level)
	logger.Log.Info("Configuration loaded successfully")

	store := repository.NewJSONStore(config.AppConfig.Storage.DataFile)
	snap, err := store.Load()
	if err != nil {
		logger.Log.Fatalf("Error loading ledger data: %v", err)
	}

	ledger := service.NewLedgerService(
		config.AppConfig.Bank.Name,
		decimal.NewFromFloat(config.AppConfig.Bank.ReserveFloor),
		config.AppConfig.Bank.MaxLoginAttempts,
		store,
	)
	ledger.Restore(snap)
	logger.Log.WithField("accounts", len(snap.Accounts)).Info("Ledger restored from store")

	exporter := repository.NewCSVStore(config.AppConfig.Storage.ExportBase)

	session.New(ledger, exporter, os.Stdin, os.Stdout).Run()

	logger.Log.Info("Session ended")
}
