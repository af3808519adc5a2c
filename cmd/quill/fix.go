package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"quill/internal/driver"
	"quill/internal/fix"
)

var fixCmd = &cobra.Command{
	Use:   "fix [dir]",
	Short: "Apply code fixes suggested by lint rules",
	Long: `Fix runs the lint rules and applies their code suggestions.

By default only the first safe fix is applied, so the tree can be
re-analyzed between edits. Use --all to apply every safe fix in one pass
and --unsafe to include fixes that may change behavior.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFix,
}

func init() {
	fixCmd.Flags().Bool("all", false, "apply every applicable fix, not just the first")
	fixCmd.Flags().Bool("unsafe", false, "also apply fixes that are not always safe")
	fixCmd.Flags().Bool("dry-run", false, "report what would change without writing")
}

func runFix(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	quiet, _ := cmd.Flags().GetBool("quiet")
	all, _ := cmd.Flags().GetBool("all")
	unsafeFixes, _ := cmd.Flags().GetBool("unsafe")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	opts, err := driverOptions(cmd, dir)
	if err != nil {
		return err
	}
	applyOpts := fix.ApplyOptions{
		Mode:   fix.ApplyModeOnce,
		Unsafe: unsafeFixes,
		DryRun: dryRun,
	}
	if all {
		applyOpts.Mode = fix.ApplyModeAll
	}

	_, result, _, err := driver.FixDir(cmd.Context(), dir, opts, applyOpts)
	if errors.Is(err, fix.ErrNoFixes) {
		if !quiet {
			fmt.Println("no applicable fixes")
		}
		return nil
	}
	if err != nil {
		return err
	}

	for _, applied := range result.Applied {
		fmt.Printf("fixed %s: %s (%s)\n", applied.Path, applied.Message, applied.Code)
	}
	for _, skipped := range result.Skipped {
		fmt.Fprintf(os.Stderr, "skipped: %s (%s)\n", skipped.Message, skipped.Reason)
	}
	if !quiet {
		verb := "applied"
		if dryRun {
			verb = "would apply"
		}
		fmt.Printf("%s %d fixes across %d files\n", verb, len(result.Applied), len(result.FileChanges))
	}
	return nil
}
