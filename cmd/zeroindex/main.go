// Package main provides the entry point for the zeroindex CLI.
package main

import (
	"os"

	"github.com/zero-assistant/zeroindex/cmd/zeroindex/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
