package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Bank struct {
		Name             string  `mapstructure:"name"`
		ReserveFloor     float64 `mapstructure:"reserve_floor"`
		MaxLoginAttempts int     `mapstructure:"max_login_attempts"`
	} `mapstructure:"bank"`
	Storage struct {
		DataFile   string `mapstructure:"data_file"`
		ExportBase string `mapstructure:"export_base"`
	} `mapstructure:"storage"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

var AppConfig Config

func LoadConfig(path string) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yml")

	// The reserve floor and attempt limit are deployment policy, never
	// hard-coded in the ledger itself.
	viper.SetDefault("bank.name", "The Royal Bank")
	viper.SetDefault("bank.reserve_floor", 0)
	viper.SetDefault("bank.max_login_attempts", 3)
	viper.SetDefault("storage.data_file", "bankdata.json")
	viper.SetDefault("storage.export_base", "accounts")
	viper.SetDefault("log.level", "info")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatalf("Error reading config file, %s", err)
		}
		// No config file is fine, the defaults above apply.
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
}
