// Package main is the entry point for the cloudcart CLI.
package main

import (
	"os"

	"cloudcart/cmd/cli/cmd"
	"cloudcart/internal/logging"
)

func main() {
	err := cmd.Execute()
	logging.Sync()
	if err != nil {
		os.Exit(1)
	}
}
