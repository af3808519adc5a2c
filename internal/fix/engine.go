// Package fix applies the code suggestions attached to diagnostics back to
// the files on disk.
package fix

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"quill/internal/diag"
	"quill/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines selection strategy for fixes.
type ApplyMode uint8

const (
	// ApplyModeOnce applies the first safe fix only.
	ApplyModeOnce ApplyMode = iota
	// ApplyModeAll applies every always-safe fix.
	ApplyModeAll
)

// ApplyOptions configures how fixes are selected.
type ApplyOptions struct {
	Mode ApplyMode

	// Unsafe also applies fixes marked MaybeIncorrect.
	Unsafe bool

	// DryRun computes everything but writes no files.
	DryRun bool
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	Code          diag.Code
	Message       string
	Applicability diag.Applicability
	Path          string
	EditCount     int
}

// SkippedFix captures a skipped or conflicting fix with a reason.
type SkippedFix struct {
	Message string
	Reason  string
}

// FileChange summarises modifications performed on one file.
type FileChange struct {
	Path      string
	EditCount int
	// Content is the resulting file content, kept for dry runs.
	Content []byte
}

// ApplyResult aggregates applied fixes, skipped ones, and file changes.
type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

type candidate struct {
	diag       diag.Diagnostic
	suggestion diag.CodeSuggestion
	order      int
}

// Apply collects suggestions from diagnostics, selects a subset according to
// opts, and applies them. Suggestions overlapping an already-applied edit
// are skipped, never merged.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	result := &ApplyResult{}
	if fs == nil {
		return result, fmt.Errorf("fix: FileSet is nil")
	}

	candidates, gatherSkips := gatherCandidates(diagnostics)
	result.Skipped = append(result.Skipped, gatherSkips...)
	if len(candidates) == 0 {
		return result, ErrNoFixes
	}

	sortCandidates(candidates)

	selected, selectSkips := selectCandidates(candidates, opts)
	result.Skipped = append(result.Skipped, selectSkips...)
	if len(selected) == 0 {
		return result, ErrNoFixes
	}

	if err := applyCandidates(fs, selected, opts, result); err != nil {
		return result, err
	}
	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}
	return result, nil
}

// gatherCandidates flattens the diagnostics' suggestions, dropping the ones
// that carry no edits (advisory only). Each candidate keeps its insertion
// order so later sorting stays deterministic.
func gatherCandidates(diagnostics []diag.Diagnostic) ([]candidate, []SkippedFix) {
	var cands []candidate
	var skips []SkippedFix
	order := 0
	for _, d := range diagnostics {
		for _, s := range d.Suggestions {
			if len(s.Edits) == 0 {
				skips = append(skips, SkippedFix{
					Message: s.Message,
					Reason:  "suggestion has no edits",
				})
				continue
			}
			cands = append(cands, candidate{diag: d, suggestion: s, order: order})
			order++
		}
	}
	return cands, skips
}

// sortCandidates orders candidates by file, span, insertion order, code and
// message for a deterministic apply pipeline.
func sortCandidates(cands []candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		di, dj := cands[i].diag, cands[j].diag
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if cands[i].order != cands[j].order {
			return cands[i].order < cands[j].order
		}
		if di.Code != dj.Code {
			return di.Code < dj.Code
		}
		return cands[i].suggestion.Message < cands[j].suggestion.Message
	})
}

func selectCandidates(cands []candidate, opts ApplyOptions) ([]candidate, []SkippedFix) {
	var selected []candidate
	var skipped []SkippedFix
	for _, cand := range cands {
		if cand.suggestion.Applicability != diag.ApplicabilityAlways && !opts.Unsafe {
			skipped = append(skipped, SkippedFix{
				Message: cand.suggestion.Message,
				Reason:  fmt.Sprintf("applicability is %s", cand.suggestion.Applicability),
			})
			continue
		}
		selected = append(selected, cand)
		if opts.Mode == ApplyModeOnce {
			break
		}
	}
	return selected, skipped
}

func applyCandidates(fs *source.FileSet, selected []candidate, opts ApplyOptions, result *ApplyResult) error {
	buffers := make(map[source.FileID][]byte)
	appliedEdits := make(map[source.FileID][]diag.TextEdit)
	fileEditCount := make(map[source.FileID]int)
	baseDir := fs.BaseDir()

	for _, cand := range selected {
		buckets := groupEditsByFile(cand.suggestion.Edits)
		stagedBuffers := make(map[source.FileID][]byte)
		stagedApplied := make(map[source.FileID][]diag.TextEdit)
		totalEdits := 0
		var skipReason string

		for fileID, edits := range buckets {
			file := fs.Get(fileID)
			if file == nil {
				skipReason = "target file not in file set"
				break
			}

			if conflictsWithExisting(appliedEdits[fileID], edits) {
				skipReason = fmt.Sprintf("conflicts with previously applied edits in %s", file.RelPath(baseDir))
				break
			}

			working := buffers[fileID]
			if working == nil {
				working = append([]byte(nil), file.Content...)
			} else {
				working = append([]byte(nil), working...)
			}

			// Apply back to front so earlier offsets stay valid within
			// this suggestion; cross-suggestion offset drift is handled
			// by the cumulative delta of already-applied edits.
			sort.SliceStable(edits, func(i, j int) bool {
				if edits[i].Span.Start == edits[j].Span.Start {
					return edits[i].Span.End > edits[j].Span.End
				}
				return edits[i].Span.Start > edits[j].Span.Start
			})

			existing := append([]diag.TextEdit(nil), appliedEdits[fileID]...)
			for _, edit := range edits {
				start := int(edit.Span.Start) + cumulativeDelta(existing, int(edit.Span.Start))
				end := int(edit.Span.End) + cumulativeDelta(existing, int(edit.Span.End))
				if start < 0 || end < start || end > len(working) {
					skipReason = "edit span out of range"
					break
				}
				suffix := append([]byte(nil), working[end:]...)
				working = append(append(working[:start], []byte(edit.NewText)...), suffix...)
				existing = insertEditSorted(existing, edit)
			}
			if skipReason != "" {
				break
			}
			stagedBuffers[fileID] = working
			stagedApplied[fileID] = existing
			totalEdits += len(edits)
		}

		if skipReason != "" {
			result.Skipped = append(result.Skipped, SkippedFix{
				Message: cand.suggestion.Message,
				Reason:  skipReason,
			})
			continue
		}

		for fileID, buf := range stagedBuffers {
			buffers[fileID] = buf
			appliedEdits[fileID] = stagedApplied[fileID]
			fileEditCount[fileID] += totalEdits
		}
		result.Applied = append(result.Applied, AppliedFix{
			Code:          cand.diag.Code,
			Message:       cand.suggestion.Message,
			Applicability: cand.suggestion.Applicability,
			Path:          pathOf(fs, cand.diag.Primary.File, baseDir),
			EditCount:     totalEdits,
		})
	}

	if len(result.Applied) == 0 {
		return nil
	}

	for fileID, buf := range buffers {
		file := fs.Get(fileID)
		change := FileChange{
			Path:      file.RelPath(baseDir),
			EditCount: fileEditCount[fileID],
			Content:   buf,
		}
		if !opts.DryRun && file.Flags&source.FileVirtual == 0 {
			mode := os.FileMode(0o644)
			if info, err := os.Stat(file.Path); err == nil {
				mode = info.Mode()
			}
			if err := os.WriteFile(file.Path, buf, mode); err != nil {
				return fmt.Errorf("write %s: %w", file.Path, err)
			}
		}
		result.FileChanges = append(result.FileChanges, change)
	}
	sort.SliceStable(result.FileChanges, func(i, j int) bool {
		return result.FileChanges[i].Path < result.FileChanges[j].Path
	})
	return nil
}

func conflictsWithExisting(existing, edits []diag.TextEdit) bool {
	for _, prev := range existing {
		for _, cand := range edits {
			if spansConflict(prev, cand) {
				return true
			}
		}
	}
	return false
}

// spansConflict reports whether two edits' half-open spans overlap. Two
// zero-length edits never conflict; a zero-length edit conflicts with a span
// containing its position.
func spansConflict(a, b diag.TextEdit) bool {
	aStart, aEnd := a.Span.Start, a.Span.End
	bStart, bEnd := b.Span.Start, b.Span.End

	if aStart == aEnd && bStart == bEnd {
		return false
	}
	if aStart == aEnd {
		return bStart <= aStart && aStart < bEnd
	}
	if bStart == bEnd {
		return aStart <= bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}

func groupEditsByFile(edits []diag.TextEdit) map[source.FileID][]diag.TextEdit {
	buckets := make(map[source.FileID][]diag.TextEdit)
	for _, edit := range edits {
		buckets[edit.Span.File] = append(buckets[edit.Span.File], edit)
	}
	return buckets
}

// cumulativeDelta sums the length changes of edits fully before pos.
func cumulativeDelta(edits []diag.TextEdit, pos int) int {
	delta := 0
	for _, e := range edits {
		if int(e.Span.Start) > pos {
			break
		}
		if int(e.Span.End) <= pos {
			delta += len(e.NewText) - int(e.Span.End-e.Span.Start)
		}
	}
	return delta
}

func insertEditSorted(edits []diag.TextEdit, edit diag.TextEdit) []diag.TextEdit {
	idx := sort.Search(len(edits), func(i int) bool {
		if edits[i].Span.Start == edit.Span.Start {
			return edits[i].Span.End >= edit.Span.End
		}
		return edits[i].Span.Start > edit.Span.Start
	})
	edits = append(edits, diag.TextEdit{})
	copy(edits[idx+1:], edits[idx:])
	edits[idx] = edit
	return edits
}

func pathOf(fs *source.FileSet, id source.FileID, baseDir string) string {
	if f := fs.Get(id); f != nil {
		return f.RelPath(baseDir)
	}
	return ""
}
