package main

import (
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"quill/internal/driver"
	"quill/internal/ui"
)

// withProgress wires a live progress view into opts when --progress is set
// and stdout is a terminal. The returned func must be called once the
// pipeline finishes; it closes the event channel and waits for the view.
func withProgress(cmd *cobra.Command, title, dir string, opts *driver.Options) (func(), error) {
	wantProgress, _ := cmd.Flags().GetBool("progress")
	if !wantProgress || !isTerminal(os.Stdout) {
		return func() {}, nil
	}
	files, err := driver.ListQuillFiles(dir)
	if err != nil {
		return nil, err
	}

	events := make(chan driver.Event, len(files)*4)
	opts.Observer = driver.ChanObserver(events)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		model := ui.NewProgressModel(title, files, events)
		// Errors from the view are cosmetic; the pipeline result stands.
		_, _ = tea.NewProgram(model).Run()
	}()
	return func() {
		close(events)
		wg.Wait()
	}, nil
}
