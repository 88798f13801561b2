// Package main is the querygate CLI entry point.
package main

import (
	"os"

	"github.com/harborview-labs/querygate/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
