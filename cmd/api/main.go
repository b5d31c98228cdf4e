package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/soloplan/core/cmd/api/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "soloplan",
		Short: "SoloPlan API Server",
		Long:  `SoloPlan is a single-user project and task planning service backed by one persisted document.`,
	}

	// Add commands
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewSeedCommand())
	rootCmd.AddCommand(commands.NewExportCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
