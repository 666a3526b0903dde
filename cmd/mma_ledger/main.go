// Package main is the entry point for the mma_ledger operator CLI.
package main

import (
	"os"

	"github.com/SscSPs/mma_ledger/cmd/mma_ledger/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
