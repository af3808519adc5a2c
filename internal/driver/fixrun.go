package driver

import (
	"context"

	"quill/internal/diag"
	"quill/internal/fix"
	"quill/internal/source"
)

// FixDir checks every Quill file under dir and applies the resulting code
// suggestions. The cache is bypassed: cached results carry no edits.
func FixDir(ctx context.Context, dir string, opts Options, applyOpts fix.ApplyOptions) (*source.FileSet, *fix.ApplyResult, []CheckResult, error) {
	opts.Cache = nil
	fileSet, results, err := CheckDir(ctx, dir, opts)
	if err != nil {
		return fileSet, nil, results, err
	}

	var diagnostics []diag.Diagnostic
	for _, r := range results {
		if r.Bag != nil {
			diagnostics = append(diagnostics, r.Bag.Items()...)
		}
	}

	applied, err := fix.Apply(fileSet, diagnostics, applyOpts)
	return fileSet, applied, results, err
}
