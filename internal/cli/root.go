// Package cli provides the command-line interface for the tagson code
// generation tools.
package cli

import (
	"github.com/spf13/cobra"
)

// Execute creates and runs the root command.
func Execute() error {
	rootCmd := &cobra.Command{
		Use:   "tagson",
		Short: "Derive JSON codecs for tagged unions",
	}

	rootCmd.AddCommand(newGenerateCommand())
	rootCmd.AddCommand(newDescribeCommand())

	return rootCmd.Execute()
}
