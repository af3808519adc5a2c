package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"quill/internal/driver"
	"quill/internal/project"
	"quill/internal/ui"
)

var checkCmd = &cobra.Command{
	Use:   "check [dir]",
	Short: "Lint Quill sources and report diagnostics",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().Bool("no-cache", false, "bypass the on-disk result cache")
	checkCmd.Flags().Bool("ignore-suppressions", false, "report findings even under rule-ignore comments")
	checkCmd.Flags().Bool("no-context", false, "omit source line context from diagnostics")
	checkCmd.Flags().Bool("progress", false, "show a live progress view")
}

func runCheck(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	colored := useColor(cmd)
	quiet, _ := cmd.Flags().GetBool("quiet")
	noCache, _ := cmd.Flags().GetBool("no-cache")
	ignoreSuppressions, _ := cmd.Flags().GetBool("ignore-suppressions")
	noContext, _ := cmd.Flags().GetBool("no-context")

	opts, err := driverOptions(cmd, dir)
	if err != nil {
		return err
	}
	opts.IgnoreSuppressions = ignoreSuppressions
	if !noCache {
		if cache, err := driver.OpenDiskCache("quill"); err == nil {
			opts.Cache = cache
		}
	}

	done, err := withProgress(cmd, "checking "+dir, dir, &opts)
	if err != nil {
		return err
	}
	fileSet, results, err := driver.CheckDir(cmd.Context(), dir, opts)
	done()
	if err != nil {
		return err
	}

	errors, warnings := 0, 0
	renderOpts := ui.RenderOptions{Color: colored, Context: !noContext, Advices: true}
	for _, r := range results {
		if r.Bag == nil {
			continue
		}
		ui.RenderDiagnostics(os.Stdout, r.Bag, fileSet, renderOpts)
		if r.Bag.HasErrors() {
			errors++
		}
		if r.Bag.HasWarnings() {
			warnings++
		}
	}

	if !quiet {
		fmt.Printf("checked %d files: %d with errors, %d with warnings\n",
			len(results), errors, warnings)
	}
	if errors > 0 {
		os.Exit(1)
	}
	return nil
}

// driverOptions builds pipeline options from flags, layered over the nearest
// quill.toml when one exists. Flags changed explicitly win over the manifest.
func driverOptions(cmd *cobra.Command, dir string) (driver.Options, error) {
	maxDiags, _ := cmd.Flags().GetInt("max-diagnostics")
	jobs, _ := cmd.Flags().GetInt("jobs")
	opts := driver.Options{MaxDiagnostics: maxDiags, Jobs: jobs}

	manifest, ok, err := project.Load(dir)
	if err != nil {
		return opts, err
	}
	if !ok {
		return opts, nil
	}
	if n := manifest.Config.Lint.MaxDiagnostics; n > 0 && !cmd.Flags().Changed("max-diagnostics") {
		opts.MaxDiagnostics = n
	}
	opts.DisabledRules = manifest.Config.Lint.Disabled
	opts.Width = manifest.Config.Format.Width
	return opts, nil
}
