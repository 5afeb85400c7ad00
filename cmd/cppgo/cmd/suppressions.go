package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/cppgo/internal/diag"
	"github.com/spf13/cobra"
)

var suppressionsCmd = &cobra.Command{
	Use:   "suppressions <file>",
	Short: "Validate and list a suppressions file",
	Long: `suppressions parses a suppressions file (the <id>[:<file>[:<line>]]
format of spec.md §6) and lists each entry, failing with a parse error at
the offending line if the file is malformed.`,
	Args: cobra.ExactArgs(1),
	RunE: runSuppressions,
}

func init() {
	rootCmd.AddCommand(suppressionsCmd)
}

func runSuppressions(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	sups, err := diag.LoadSuppressions(f)
	if err != nil {
		return err
	}

	for _, s := range sups {
		switch {
		case s.File == "" && s.Line == 0:
			fmt.Printf("%s\n", s.ID)
		case s.Line == 0:
			fmt.Printf("%s:%s\n", s.ID, s.File)
		default:
			fmt.Printf("%s:%s:%d\n", s.ID, s.File, s.Line)
		}
	}
	fmt.Fprintf(os.Stderr, "%d suppression(s) loaded from %s\n", len(sups), args[0])
	return nil
}
