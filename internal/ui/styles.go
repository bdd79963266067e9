package ui

import "github.com/charmbracelet/lipgloss"

// Styles is the color scheme of the task screen.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Input    lipgloss.Style

	RowEven lipgloss.Style
	RowOdd  lipgloss.Style
	Text    lipgloss.Style
	Done    lipgloss.Style
	Cursor  lipgloss.Style
	Empty   lipgloss.Style

	EditBadge   lipgloss.Style
	SaveBadge   lipgloss.Style
	FinishBadge lipgloss.Style
	ReopenBadge lipgloss.Style
	DeleteBadge lipgloss.Style
}

func badge(bg string) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color(bg)).
		Bold(true).
		Padding(0, 1)
}

// DefaultStyles returns the built-in light color scheme.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#6f64ff")),
		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a9a8b8")).
			MarginBottom(1),
		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#808080")).
			Padding(0, 1),

		RowEven: lipgloss.NewStyle().Background(lipgloss.Color("#f0f0f0")).Foreground(lipgloss.Color("#000000")),
		RowOdd:  lipgloss.NewStyle().Background(lipgloss.Color("#e0e0e0")).Foreground(lipgloss.Color("#000000")),
		Text:    lipgloss.NewStyle(),
		Done:    lipgloss.NewStyle().Strikethrough(true).Faint(true),
		Cursor:  lipgloss.NewStyle().Foreground(lipgloss.Color("#6f64ff")).Bold(true),
		Empty:   lipgloss.NewStyle().Foreground(lipgloss.Color("#a9a8b8")).Italic(true),

		EditBadge:   badge("#ffd700"),
		SaveBadge:   badge("#52FF00"),
		FinishBadge: badge("#6f64ff"),
		ReopenBadge: badge("#87CEFA"),
		DeleteBadge: badge("#ff6464"),
	}
}
