package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"swiftcore/internal/propcheck"
	"swiftcore/internal/ui"
)

type checkOutcome struct {
	report *propcheck.Report
	err    error
}

func runCheckWithUI(
	ctx context.Context,
	title string,
	names []string,
	run func(context.Context, propcheck.ProgressSink) (*propcheck.Report, error),
) (*propcheck.Report, error) {
	events := make(chan propcheck.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		report, err := run(ctx, propcheck.ChannelSink{Ch: events})
		outcomeCh <- checkOutcome{report: report, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, names, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.report, uiErr
	}
	return outcome.report, outcome.err
}
