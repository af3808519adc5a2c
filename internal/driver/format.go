package driver

import (
	"context"
	"os"

	"golang.org/x/sync/errgroup"

	"quill/internal/diag"
	"quill/internal/format"
	"quill/internal/parser"
	"quill/internal/source"
)

// FormatMode selects what FormatDir does with formatted output.
type FormatMode uint8

const (
	// FormatWrite rewrites files that change.
	FormatWrite FormatMode = iota
	// FormatCheckOnly only reports which files would change.
	FormatCheckOnly
	// FormatPrint keeps the output in the result for the caller to print.
	FormatPrint
)

// FormatResult holds one file's formatting outcome.
type FormatResult struct {
	Path    string
	FileID  source.FileID
	Bag     *diag.Bag
	Output  string
	Changed bool
}

// FormatDir formats every Quill file under dir in parallel.
func FormatDir(ctx context.Context, dir string, opts Options, mode FormatMode) (*source.FileSet, []FormatResult, error) {
	files, err := ListQuillFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	fileSet := source.NewFileSetWithBase(dir)
	results, err := formatPaths(ctx, fileSet, files, opts, mode)
	return fileSet, results, err
}

// FormatFiles formats the given files in parallel.
func FormatFiles(ctx context.Context, paths []string, opts Options, mode FormatMode) (*source.FileSet, []FormatResult, error) {
	fileSet := source.NewFileSet()
	results, err := formatPaths(ctx, fileSet, paths, opts, mode)
	return fileSet, results, err
}

func formatPaths(ctx context.Context, fileSet *source.FileSet, paths []string, opts Options, mode FormatMode) ([]FormatResult, error) {
	obs := opts.observer()
	fileIDs, loadErrors := loadAll(fileSet, paths)

	results := make([]FormatResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs(len(paths)))

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			bag := diag.NewBag(opts.MaxDiagnostics)
			result := FormatResult{Path: path, Bag: bag}
			if loadErr, failed := loadErrors[path]; failed {
				bag.Add(diag.Diagnostic{
					Severity: diag.SevError,
					Code:     diag.IOLoadFileError,
					Message:  "failed to load file: " + loadErr.Error(),
				})
				results[i] = result
				obs.Notify(Event{File: path, Stage: StageFormat, Status: StatusError})
				return nil
			}

			fileID := fileIDs[path]
			file := fileSet.Get(fileID)
			result.FileID = fileID

			obs.Notify(Event{File: path, Stage: StageParse, Status: StatusWorking})
			tree := parser.Parse(file, &diag.BagReporter{Bag: bag})

			obs.Notify(Event{File: path, Stage: StageFormat, Status: StatusWorking})
			output, err := format.FormatWidth(tree, file, opts.Width)
			if err != nil {
				// Formatting failures are fatal for this file: a partial
				// render could corrupt source. The original is untouched.
				bag.Add(diag.Diagnostic{
					Severity: diag.SevError,
					Code:     diag.FmtInternal,
					Message:  err.Error(),
					Primary:  source.EmptyAt(fileID, 0),
				})
				results[i] = result
				obs.Notify(Event{File: path, Stage: StageFormat, Status: StatusError})
				return nil
			}

			result.Changed = output != string(file.Content)
			if mode == FormatPrint || result.Changed && mode != FormatWrite {
				result.Output = output
			}
			if mode == FormatWrite && result.Changed {
				if err := os.WriteFile(file.Path, []byte(output), 0o644); err != nil {
					bag.Add(diag.Diagnostic{
						Severity: diag.SevError,
						Code:     diag.IOWriteError,
						Message:  "failed to write file: " + err.Error(),
					})
					results[i] = result
					obs.Notify(Event{File: path, Stage: StageFormat, Status: StatusError})
					return nil
				}
			}

			results[i] = result
			obs.Notify(Event{File: path, Stage: StageFormat, Status: StatusDone})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
