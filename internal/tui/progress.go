package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/onesky-sync/internal/domain"
	"github.com/mmcdole/onesky-sync/internal/tui/styles"
)

// maxLogLines is how many finished transfers stay visible
const maxLogLines = 6

// ProgressMsg carries one progress event from the sync goroutine
type ProgressMsg domain.Progress

// RunFinishedMsg signals that the sync goroutine returned
type RunFinishedMsg struct {
	Summary *domain.Summary
	Err     error
}

// ProgressModel renders a running sync: a spinner on the current file, a
// progress bar across all transfers and the last few results.
type ProgressModel struct {
	spinner  spinner.Model
	bar      progress.Model
	cancel   func()
	locale   domain.Locale
	file     string
	done     int
	total    int
	notices  []string
	lines    []string
	summary  *domain.Summary
	err      error
	finished bool
	stopping bool
}

// NewProgressModel creates the model. cancel is called when the user
// interrupts the run; it may be nil.
func NewProgressModel(cancel func()) ProgressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.InfoStyle

	bar := progress.New(progress.WithGradient(styles.ProgressFrom, styles.ProgressTo))
	bar.Width = 40

	return ProgressModel{
		spinner: s,
		bar:     bar,
		cancel:  cancel,
	}
}

// Init starts the spinner
func (m ProgressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages
func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			// the run goroutine still reports back through RunFinishedMsg
			if !m.stopping && m.cancel != nil {
				m.cancel()
			}
			m.stopping = true
		}
		return m, nil

	case tea.WindowSizeMsg:
		w := msg.Width - 12
		if w > 60 {
			w = 60
		}
		if w < 10 {
			w = 10
		}
		m.bar.Width = w
		return m, nil

	case spinner.TickMsg:
		if m.finished {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ProgressMsg:
		m.apply(domain.Progress(msg))
		return m, nil

	case RunFinishedMsg:
		m.finished = true
		m.summary = msg.Summary
		m.err = msg.Err
		return m, tea.Quit
	}

	return m, nil
}

func (m *ProgressModel) apply(p domain.Progress) {
	if p.Total > 0 {
		m.total = p.Total
	}
	m.done = p.Done

	switch p.Stage {
	case domain.StageSkipped, domain.StageNotice:
		m.notices = append(m.notices, p.Message)
	case domain.StageFilesListed:
		m.locale = p.Locale
	case domain.StageTransferring:
		m.locale = p.Locale
		m.file = p.File
	case domain.StageTransferred:
		if p.Result != nil {
			m.pushLine(resultLine(p.Result))
		}
		m.file = ""
	case domain.StageDone:
		m.file = ""
		if p.Summary != nil {
			m.summary = p.Summary
		}
	}
}

func (m *ProgressModel) pushLine(line string) {
	m.lines = append(m.lines, line)
	if len(m.lines) > maxLogLines {
		m.lines = m.lines[len(m.lines)-maxLogLines:]
	}
}

func resultLine(res *domain.TransferResult) string {
	switch {
	case res.Failure != nil:
		return fmt.Sprintf("%s %s", styles.SkippedMark,
			styles.CommentStyle.Render(fmt.Sprintf("%s (%s): %s", res.File, res.Locale, res.Failure.Message)))
	case res.Planned:
		return fmt.Sprintf("%s %s", styles.PlannedMark, styles.DimStyle.Render(res.Path))
	default:
		return fmt.Sprintf("%s %s (%s)", styles.DoneMark, res.File, res.Locale)
	}
}

// Done reports whether the run has finished
func (m ProgressModel) Done() bool {
	return m.finished
}

// Result returns the outcome delivered by RunFinishedMsg
func (m ProgressModel) Result() (*domain.Summary, error) {
	return m.summary, m.err
}

// View renders the model
func (m ProgressModel) View() string {
	var b strings.Builder

	for _, n := range m.notices {
		b.WriteString(styles.CommentStyle.Render(n))
		b.WriteString("\n")
	}
	for _, l := range m.lines {
		b.WriteString(l)
		b.WriteString("\n")
	}

	if m.finished {
		if m.summary != nil && m.err == nil {
			b.WriteString(styles.SuccessStyle.Render(fmt.Sprintf(
				"Done: %d transferred, %d skipped", m.summary.Transferred, m.summary.Skipped)))
			b.WriteString("\n")
		}
		return b.String()
	}

	if m.total > 0 {
		percent := float64(m.done) / float64(m.total)
		b.WriteString(m.bar.ViewAs(percent))
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf(" %d/%d", m.done, m.total)))
		b.WriteString("\n")
	}

	status := "Preparing..."
	switch {
	case m.stopping:
		status = "Stopping..."
	case m.file != "":
		status = fmt.Sprintf("%s %s", styles.LocaleBadgeStyle.Render(string(m.locale)), m.file)
	case m.locale != "":
		status = fmt.Sprintf("Listing files for %s", m.locale)
	}
	b.WriteString(m.spinner.View() + " " + status)
	b.WriteString("\n")

	return b.String()
}
