// Package main provides the evalstore operational CLI.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
)

func main() {
	// Initialize glog for backwards compatibility with library logging.
	_ = flag.Set("logtostderr", "true")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
