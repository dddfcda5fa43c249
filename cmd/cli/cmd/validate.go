// Package cmd - validate command
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"freight-rate/db/loader"
)

// validateCmd loads a document directory and reports what it contains
var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Validate a directory of carrier rate documents",
	Long: `Parse and validate every rate document in a directory.

Parsing errors, overlapping rating breaks, and dangling terminal
references are reported with the offending file.

Example:
  freight-rate validate ./documents`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	dir := documentDir
	if len(args) > 0 {
		dir = args[0]
	}
	if dir == "" {
		return fmt.Errorf("no document directory given")
	}

	store, err := loader.LoadDir(dir)
	if err != nil {
		return err
	}

	counts := store.Counts()
	fmt.Printf("OK: %s\n", dir)
	fmt.Printf("  carriers:   %d\n", counts.Carriers)
	fmt.Printf("  tariffs:    %d\n", counts.Tariffs)
	fmt.Printf("  zone sets:  %d\n", counts.ZoneSets)
	fmt.Printf("  overrides:  %d\n", counts.Overrides)
	fmt.Printf("  fak rules:  %d\n", counts.FAKs)
	fmt.Printf("  terminals:  %d\n", counts.Terminals)
	return nil
}
