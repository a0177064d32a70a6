package main

import (
	"log/slog"
	"time"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/evalstack/evalstore/internal/db"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check database connectivity",
	Run: func(cmd *cobra.Command, args []string) {
		start := time.Now()

		gormDB, err := db.Connect(dbType, dbDSN)
		if err != nil {
			glog.Fatalf("Failed to connect to database: %v", err)
		}

		sqlDB, err := gormDB.DB()
		if err != nil {
			glog.Fatalf("Failed to get database handle: %v", err)
		}
		if err := sqlDB.Ping(); err != nil {
			glog.Fatalf("Database ping failed: %v", err)
		}

		slog.Info("database reachable", "latency", time.Since(start).String())
	},
}
