package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"quill/internal/driver"
	"quill/internal/ui"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [dir]",
	Short: "Format Quill sources",
	Long: `Format rewrites Quill sources into canonical layout.

By default changed files are written in place. With --check no files are
touched and the exit code reports whether anything would change. With
--stdout the formatted output is printed instead of written.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFmt,
}

func init() {
	fmtCmd.Flags().Bool("check", false, "list files that would change, do not write")
	fmtCmd.Flags().Bool("stdout", false, "print formatted output instead of writing")
	fmtCmd.Flags().Bool("progress", false, "show a live progress view")
}

func runFmt(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	colored := useColor(cmd)
	quiet, _ := cmd.Flags().GetBool("quiet")
	checkOnly, _ := cmd.Flags().GetBool("check")
	toStdout, _ := cmd.Flags().GetBool("stdout")

	mode := driver.FormatWrite
	switch {
	case checkOnly:
		mode = driver.FormatCheckOnly
	case toStdout:
		mode = driver.FormatPrint
	}

	opts, err := driverOptions(cmd, dir)
	if err != nil {
		return err
	}
	done, err := withProgress(cmd, "formatting "+dir, dir, &opts)
	if err != nil {
		return err
	}
	fileSet, results, err := driver.FormatDir(cmd.Context(), dir, opts, mode)
	done()
	if err != nil {
		return err
	}

	failed, changed := 0, 0
	renderOpts := ui.RenderOptions{Color: colored, Context: true}
	for _, r := range results {
		if r.Bag != nil && r.Bag.HasErrors() {
			ui.RenderDiagnostics(os.Stderr, r.Bag, fileSet, renderOpts)
			failed++
			continue
		}
		if r.Changed {
			changed++
			switch mode {
			case driver.FormatCheckOnly:
				fmt.Println(r.Path)
			case driver.FormatPrint:
				fmt.Print(r.Output)
			}
		} else if mode == driver.FormatPrint {
			fmt.Print(r.Output)
		}
	}

	if !quiet && mode != driver.FormatPrint {
		verb := "formatted"
		if checkOnly {
			verb = "would reformat"
		}
		fmt.Printf("%s %d of %d files\n", verb, changed, len(results))
	}
	if failed > 0 || checkOnly && changed > 0 {
		os.Exit(1)
	}
	return nil
}
