package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"quill/internal/analyze"
	"quill/internal/analyze/rules"
	"quill/internal/diag"
	"quill/internal/parser"
	"quill/internal/source"
	"quill/internal/syntax"
)

// QuillExt is the source file extension the drivers pick up.
const QuillExt = ".ql"

// Options configures a pipeline run.
type Options struct {
	MaxDiagnostics int
	// Jobs caps worker goroutines; 0 means GOMAXPROCS.
	Jobs     int
	Observer Observer
	// Cache, when set, lets check runs skip files whose content hash was
	// seen before.
	Cache *DiskCache
	// IgnoreSuppressions reports findings even under rule-ignore comments.
	IgnoreSuppressions bool
	// DisabledRules lists "group/name" rule ids to skip.
	DisabledRules []string
	// Width is the formatter's target line width; 0 keeps the default.
	Width int
}

func (o *Options) observer() Observer {
	if o.Observer == nil {
		return nopObserver{}
	}
	return o.Observer
}

func (o *Options) jobs(n int) int {
	j := o.Jobs
	if j <= 0 {
		j = runtime.GOMAXPROCS(0)
	}
	return min(j, n)
}

// CheckResult holds one file's analysis outcome.
type CheckResult struct {
	Path   string
	FileID source.FileID
	Bag    *diag.Bag
	Tree   *syntax.Tree
	// FromCache marks results replayed from the disk cache; Tree is nil.
	FromCache bool
}

// ListQuillFiles returns the sorted *.ql files under dir.
func ListQuillFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, QuillExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// CheckDir parses and lints every Quill file under dir in parallel.
// Results come back in file order regardless of completion order.
func CheckDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []CheckResult, error) {
	files, err := ListQuillFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	fileSet := source.NewFileSetWithBase(dir)
	results, err := checkPaths(ctx, fileSet, files, opts)
	return fileSet, results, err
}

// CheckFiles parses and lints the given files in parallel.
func CheckFiles(ctx context.Context, paths []string, opts Options) (*source.FileSet, []CheckResult, error) {
	fileSet := source.NewFileSet()
	results, err := checkPaths(ctx, fileSet, paths, opts)
	return fileSet, results, err
}

func checkPaths(ctx context.Context, fileSet *source.FileSet, paths []string, opts Options) ([]CheckResult, error) {
	obs := opts.observer()
	fileIDs, loadErrors := loadAll(fileSet, paths)
	ruleSet := enabledRules(opts.DisabledRules)

	results := make([]CheckResult, len(paths))
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
			if loadErr, failed := loadErrors[path]; failed {
				bag.Add(diag.Diagnostic{
					Severity: diag.SevError,
					Code:     diag.IOLoadFileError,
					Message:  "failed to load file: " + loadErr.Error(),
				})
				results[i] = CheckResult{Path: path, Bag: bag}
				obs.Notify(Event{File: path, Stage: StageAnalyze, Status: StatusError})
				return nil
			}

			fileID := fileIDs[path]
			file := fileSet.Get(fileID)

			if cached, ok := lookupCheckCache(opts.Cache, file, bag); ok {
				results[i] = cached
				results[i].Path = path
				results[i].FileID = fileID
				obs.Notify(Event{File: path, Stage: StageAnalyze, Status: StatusDone})
				return nil
			}

			obs.Notify(Event{File: path, Stage: StageParse, Status: StatusWorking})
			tree := parser.Parse(file, &diag.BagReporter{Bag: bag})

			obs.Notify(Event{File: path, Stage: StageAnalyze, Status: StatusWorking})
			analyzer := analyze.New(
				analyze.Options{IgnoreSuppressions: opts.IgnoreSuppressions},
				nil,
				ruleSet...,
			)
			analyzer.CollectDiagnostics(tree, file, bag)
			bag.Sort()

			results[i] = CheckResult{Path: path, FileID: fileID, Bag: bag, Tree: tree}
			storeCheckCache(opts.Cache, file, bag)

			status := StatusDone
			if bag.HasErrors() {
				status = StatusError
			}
			obs.Notify(Event{File: path, Stage: StageAnalyze, Status: status})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func enabledRules(disabled []string) []analyze.Rule {
	all := rules.Default()
	if len(disabled) == 0 {
		return all
	}
	skip := make(map[string]bool, len(disabled))
	for _, id := range disabled {
		skip[id] = true
	}
	var out []analyze.Rule
	for _, r := range all {
		if !skip[r.Meta().ID()] {
			out = append(out, r)
		}
	}
	return out
}

// loadAll preloads paths into the file set serially; FileSet is not safe for
// concurrent mutation.
func loadAll(fileSet *source.FileSet, paths []string) (map[string]source.FileID, map[string]error) {
	fileIDs := make(map[string]source.FileID, len(paths))
	loadErrors := make(map[string]error)
	for _, path := range paths {
		id, err := fileSet.Load(path)
		if err != nil {
			loadErrors[path] = err
			continue
		}
		fileIDs[path] = id
	}
	return fileIDs, loadErrors
}
