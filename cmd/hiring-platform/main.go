package main

import (
	"os"

	"github.com/spf13/cobra"
)

const app = "hiring-platform"

var (
	cfgFile string

	rootCmd = &cobra.Command{
		Use:           app,
		Short:         "Skills-based hiring platform API, workflow worker and tooling",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is configs/config.yaml)")
	rootCmd.AddCommand(serveCmd, workerCmd, migrateCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
