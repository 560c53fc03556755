package tui

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/onesky-sync/internal/domain"
)

// SyncFunc runs one sync, reporting progress through report
type SyncFunc func(ctx context.Context, report domain.ProgressFunc) (*domain.Summary, error)

type runResult struct {
	summary *domain.Summary
	err     error
}

// RunWithProgress executes run on a background goroutine while a
// ProgressModel renders its events to out. Progress reaches the program
// only through Program.Send.
func RunWithProgress(ctx context.Context, in io.Reader, out io.Writer, run SyncFunc) (*domain.Summary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(
		NewProgressModel(cancel),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithoutSignalHandler(),
	)

	results := make(chan runResult, 1)
	go func() {
		summary, err := run(ctx, func(pr domain.Progress) {
			p.Send(ProgressMsg(pr))
		})
		results <- runResult{summary: summary, err: err}
		p.Send(RunFinishedMsg{Summary: summary, Err: err})
	}()

	_, uiErr := p.Run()

	// The sync result is authoritative; the program may have stopped early
	// because ctx was cancelled.
	res := <-results
	if res.err == nil && uiErr != nil && ctx.Err() == nil {
		return res.summary, fmt.Errorf("progress view failed: %w", uiErr)
	}
	return res.summary, res.err
}
