package main

import (
	"fmt"
	"os"

	"github.com/billcollector-dev/billcollector/internal/commands"
)

// Set via ldflags during build.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := commands.NewRootCommand(fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date))
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
