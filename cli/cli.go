package cli

import (
	"log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/desertwifi/wifimarket/cli/server"
)

var Logger *zap.Logger

var RootCmd = &cobra.Command{
	Use:   "wifimarket",
	Short: "wifimarket",
	Long:  `WifiMarket is a CLI for running the Desert WiFi marketplace server`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
	},
}

func Execute(appName, version string) {
	RootCmd.Short = appName
	RootCmd.Version = version

	if err := RootCmd.Execute(); err != nil {
		log.Fatal("failed to execute root command", zap.Error(err))
	}
}

func init() {
	RootCmd.AddCommand(server.StartServerCmd)
}
