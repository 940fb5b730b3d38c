package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var configPath string

var rootCmd = &cobra.Command{
	Use:   "helpdesk",
	Short: "Helpdesk - student check-in and help queue server",
	Long: `Helpdesk runs the check-in and help queue backend for university
helpdesks. Without a subcommand it starts the HTTP server.`,
	Version:      Version,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"Helpdesk version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ./config/config.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(exportCmd)
}
