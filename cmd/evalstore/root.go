package main

import (
	"github.com/spf13/cobra"
)

var (
	dbType string
	dbDSN  string
)

var rootCmd = &cobra.Command{
	Use:   "evalstore",
	Short: "Operational CLI for the versioned evaluation dataset store",
	Long: `evalstore manages the relational schema backing the versioned dataset
store: datasets, dataset_items and dataset_versions.

The store itself is a library mounted inside a larger server process;
this CLI only covers schema migration and connectivity checks.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbType, "db-type", "", "Database type: postgres or mysql (default: from DATABASE_TYPE env or \"postgres\")")
	rootCmd.PersistentFlags().StringVar(&dbDSN, "db-dsn", "", "Database connection string (default: from DATABASE_DSN env)")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(healthCmd)
}
