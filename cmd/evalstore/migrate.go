package main

import (
	"log/slog"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/evalstack/evalstore/internal/db"
	"github.com/evalstack/evalstore/internal/db/schema"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the dataset store tables and indexes",
	Run: func(cmd *cobra.Command, args []string) {
		gormDB, err := db.Connect(dbType, dbDSN)
		if err != nil {
			glog.Fatalf("Failed to connect to database: %v", err)
		}

		if err := schema.Migrate(gormDB); err != nil {
			glog.Fatalf("Migration failed: %v", err)
		}

		slog.Info("dataset store schema migrated",
			"tables", []string{"datasets", "dataset_items", "dataset_versions"})
	},
}
