// Package main provides the tagson command line tool.
package main

import (
	"os"

	"github.com/gork-labs/tagson/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
