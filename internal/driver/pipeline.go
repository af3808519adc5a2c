// Package driver runs the analysis and formatting pipelines over directories
// of Quill files, in parallel, with a content-addressed result cache.
package driver

// Stage identifies a pipeline phase for progress reporting.
type Stage uint8

const (
	StageQueued Stage = iota
	StageParse
	StageAnalyze
	StageFormat
)

// Status is the per-file state within a stage.
type Status uint8

const (
	StatusQueued Status = iota
	StatusWorking
	StatusDone
	StatusError
)

// Event is one progress notification. An empty File describes the whole run.
type Event struct {
	File   string
	Stage  Stage
	Status Status
}

// Observer receives pipeline events. Implementations must be safe for
// concurrent use; the parallel drivers post from worker goroutines.
type Observer interface {
	Notify(Event)
}

type nopObserver struct{}

func (nopObserver) Notify(Event) {}

// ChanObserver forwards events to a channel, dropping none.
type ChanObserver chan Event

func (c ChanObserver) Notify(ev Event) { c <- ev }
