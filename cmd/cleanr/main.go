// Package main provides the CLI entry point for the cleanr CSV-cleaning
// pipeline.
package main

import (
	"os"

	"github.com/leapstack-labs/cleanr/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
