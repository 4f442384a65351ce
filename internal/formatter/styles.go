package formatter

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#1DB954", "#FFFFFF", "#626262")

// Palette is a small stylesheet for the plain text renderer.
type Palette struct {
	title lipgloss.Style
	label lipgloss.Style
	muted lipgloss.Style
}

func NewPalette(title, label, muted string) *Palette {
	return &Palette{
		title: NewBold(title),
		label: NewBold(label),
		muted: NewEm(muted),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
