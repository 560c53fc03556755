package adapter

import (
	"fmt"
	"io"
	"strings"

	"github.com/mmcdole/onesky-sync/internal/domain"
	"github.com/mmcdole/onesky-sync/internal/tui/styles"
)

// ConsoleReporter prints one styled line per progress event. It is used
// when stdout is not a terminal or the progress view is disabled.
type ConsoleReporter struct {
	out io.Writer
}

// NewConsoleReporter creates a reporter writing to out
func NewConsoleReporter(out io.Writer) *ConsoleReporter {
	return &ConsoleReporter{out: out}
}

// Report handles a single progress event. It satisfies domain.ProgressFunc.
func (r *ConsoleReporter) Report(p domain.Progress) {
	switch p.Stage {
	case domain.StageSkipped:
		r.line(styles.CommentStyle.Render(p.Message))
	case domain.StageLocalesResolved:
		r.line(styles.InfoStyle.Render("Locales: " + joinLocales(p.Locales)))
	case domain.StageFilesListed:
		r.line(styles.InfoStyle.Render(fmt.Sprintf("Syncing %d file(s) for %s", len(p.Files), p.Locale)))
	case domain.StageTransferred:
		r.transferred(p)
	case domain.StageNotice:
		r.line(styles.CommentStyle.Render(p.Message))
	case domain.StageDone:
		if p.Summary != nil {
			r.line(styles.SuccessStyle.Render(FormatSummary(p.Summary)))
		}
	}
}

// Error prints a fatal run error
func (r *ConsoleReporter) Error(err error) {
	r.line(styles.ErrorStyle.Render(err.Error()))
}

func (r *ConsoleReporter) transferred(p domain.Progress) {
	res := p.Result
	if res == nil {
		return
	}
	counter := styles.DimStyle.Render(fmt.Sprintf("[%d/%d]", p.Done, p.Total))

	switch {
	case res.Failure != nil:
		r.line(fmt.Sprintf("%s %s %s", counter, styles.SkippedMark,
			styles.CommentStyle.Render(fmt.Sprintf("%s (%s) skipped: %s", res.File, res.Locale, res.Failure.Message))))
	case res.Planned:
		verb := "download"
		if res.Operation == domain.OpUpload {
			verb = "upload"
		}
		r.line(fmt.Sprintf("%s %s would %s %s", counter, styles.PlannedMark, verb, res.Path))
	default:
		r.line(fmt.Sprintf("%s %s %s", counter, styles.DoneMark,
			styles.InfoStyle.Render(fmt.Sprintf("%s -> %s", res.File, res.Path))))
	}
}

func (r *ConsoleReporter) line(s string) {
	fmt.Fprintln(r.out, s)
}

// FormatSummary renders the final one-line summary of a run
func FormatSummary(s *domain.Summary) string {
	return fmt.Sprintf("Done: %d locale(s), %d file(s), %d transferred, %d skipped, %s",
		len(s.Locales), s.Files, s.Transferred, s.Skipped, formatBytes(s.Bytes))
}

func joinLocales(locales []domain.Locale) string {
	if len(locales) == 0 {
		return "(none)"
	}
	parts := make([]string, len(locales))
	for i, l := range locales {
		parts[i] = string(l)
	}
	return strings.Join(parts, ", ")
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
