package styles

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	SkyBlue   = lipgloss.Color("#38BDF8")
	DimGray   = lipgloss.Color("#6B7280")
	LightGray = lipgloss.Color("#9CA3AF")
	White     = lipgloss.Color("#F9FAFB")
	Green     = lipgloss.Color("#10B981")
	Amber     = lipgloss.Color("#F59E0B")
	Red       = lipgloss.Color("#EF4444")
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	// InfoStyle marks progress lines
	InfoStyle = lipgloss.NewStyle().
			Foreground(SkyBlue)

	// CommentStyle marks skips and notices
	CommentStyle = lipgloss.NewStyle().
			Foreground(Amber)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)

	LocaleBadgeStyle = lipgloss.NewStyle().
				Foreground(White).
				Background(lipgloss.Color("#0369A1")).
				Padding(0, 1)
)

// Status characters (unstyled)
const (
	DoneChar    = "✓"
	SkippedChar = "!"
	PlannedChar = "·"
)

// Pre-rendered status markers
var (
	DoneMark    = SuccessStyle.Render(DoneChar)
	SkippedMark = CommentStyle.Render(SkippedChar)
	PlannedMark = DimStyle.Render(PlannedChar)
)

// Progress bar gradient endpoints
const (
	ProgressFrom = "#0369A1"
	ProgressTo   = "#38BDF8"
)
