// Package main provides the entry point for the graphseek CLI.
package main

import (
	"os"

	"github.com/graphseek/graphseek/cmd/graphseek/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
