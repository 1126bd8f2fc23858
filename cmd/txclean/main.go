// Package main is the entry point for txclean.
package main

import (
	"fmt"
	"os"

	"txclean/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
