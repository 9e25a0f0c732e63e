package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"saslint/internal/driver"
	"saslint/internal/pipeline"
	"saslint/internal/ui"
)

type lintOutcome struct {
	result *driver.DirResult
	err    error
}

// runLintWithUI lints files while a progress view renders their events.
// The view goes to stderr so that stdout only carries the report.
func runLintWithUI(ctx context.Context, title, baseDir string, files []string, opts driver.Options) (*driver.DirResult, error) {
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan lintOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = pipeline.ChannelSink{Ch: events}
		res, err := driver.LintFiles(ctx, baseDir, files, optsCopy)
		outcomeCh <- lintOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, pipeline.DisplayFiles(files, baseDir), events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
