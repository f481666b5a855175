// Package main is the entry point for the dashboard CLI.
package main

import (
	"os"

	"github.com/dvloznov/finance-dashboard/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
