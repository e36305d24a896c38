package server

import (
	"fmt"
	"log"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/desertwifi/wifimarket/api"
	"github.com/desertwifi/wifimarket/cli/args"
	"github.com/desertwifi/wifimarket/db"
	"github.com/desertwifi/wifimarket/eth"
	"github.com/desertwifi/wifimarket/logger"
)

type config struct {
	DbPath    string     `yaml:"dbPath" env:"DB_PATH" env-description:"Path to database file" env-default:"data/nodes.db"`
	ApiAddr   string     `yaml:"apiAddr" env:"API_ADDR" env-description:"HTTP listen address" env-default:":8080"`
	EthConfig eth.Config `yaml:"eth"`
}

var cfg config

var globalArgs args.GlobalArgs

// StartServerCmd is the command to start the marketplace server
var StartServerCmd = &cobra.Command{
	Use:   "start-server",
	Short: "Starts the WiFi marketplace server",
	Run: func(cmd *cobra.Command, cmdArgs []string) {
		_ = godotenv.Load()

		if globalArgs.ConfigPath != "" {
			if err := cleanenv.ReadConfig(globalArgs.ConfigPath, &cfg); err != nil {
				log.Fatal("Error reading config file", err)
			}
		} else {
			log.Fatal("Config path is required")
		}

		logger, err := logger.Create(globalArgs.LogLevel)
		if err != nil {
			fmt.Println("Error initializing logger")
		}
		defer logger.Sync()

		store, err := db.NewBoltDB(cfg.DbPath, logger)
		if err != nil {
			logger.Fatal("Error opening database", zap.Error(err))
			return
		}
		defer store.Close()

		session := eth.NewSession(&cfg.EthConfig, logger)
		if cfg.EthConfig.PrivateKey != "" {
			if err := session.Connect(cmd.Context()); err != nil {
				logger.Fatal("Error connecting wallet session", zap.Error(err))
				return
			}
		} else {
			logger.Warn("no signing key configured, running read-only")
		}

		if cfg.EthConfig.RPCUrl != "" && cfg.EthConfig.ContractAddress != "" {
			events := eth.NewEvents(cmd.Context(), &cfg.EthConfig, store, logger)
			if err := events.Start(); err != nil {
				logger.Fatal("Error connecting to eth events", zap.Error(err))
				return
			}
			if err := events.FetchRatingEvents(); err != nil {
				logger.Fatal("Error fetching rating events", zap.Error(err))
				return
			}
			if err := events.ListenRatingEvents(); err != nil {
				logger.Fatal("Error listening to rating events", zap.Error(err))
				return
			}
		} else {
			logger.Warn("eth endpoint not configured, node cache will not sync")
		}

		api := api.New(logger, store, session, cfg.ApiAddr)
		api.Start()
	},
}

func init() {
	args.ProcessArgs(&globalArgs, StartServerCmd)
}
