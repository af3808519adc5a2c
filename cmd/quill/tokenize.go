package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"quill/internal/driver"
	"quill/internal/source"
	"quill/internal/ui"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize <file>",
	Short: "Dump the token stream of one Quill file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().Bool("trivia", false, "also dump leading and trailing trivia")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	colored := useColor(cmd)
	showTrivia, _ := cmd.Flags().GetBool("trivia")
	maxDiags, _ := cmd.Flags().GetInt("max-diagnostics")

	fileSet := source.NewFileSet()
	tokens, bag, err := driver.TokenizeFile(fileSet, args[0], maxDiags)
	if err != nil {
		return err
	}

	for _, tok := range tokens {
		if showTrivia {
			for _, p := range tok.Leading {
				fmt.Printf("  leading  %-12s %d..%d %q\n", p.Kind, p.Span.Start, p.Span.End, p.Text)
			}
		}
		fmt.Printf("%-12s %d..%d %q\n", tok.Kind, tok.Span.Start, tok.Span.End, tok.Text)
		if showTrivia {
			for _, p := range tok.Trailing {
				fmt.Printf("  trailing %-12s %d..%d %q\n", p.Kind, p.Span.Start, p.Span.End, p.Text)
			}
		}
	}

	if bag.Len() > 0 {
		bag.Sort()
		ui.RenderDiagnostics(os.Stderr, bag, fileSet, ui.RenderOptions{Color: colored})
	}
	if bag.HasErrors() {
		os.Exit(1)
	}
	return nil
}
