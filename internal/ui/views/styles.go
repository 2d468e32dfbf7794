package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Dim           lipgloss.Style
	Status        lipgloss.Style
	Help          lipgloss.Style
	Prompt        lipgloss.Style
	Author        lipgloss.Style
	Timestamp     lipgloss.Style
	Body          lipgloss.Style
	ItemID        lipgloss.Style
	Cell          lipgloss.Style
	Sentinel      lipgloss.Style
	Scroll        lipgloss.Style
	Highlight     lipgloss.Style
	StatusError   lipgloss.Style
	StatusLoading lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusPinned  lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Dim:           lipgloss.NewStyle().Faint(true),
		Status:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Help:          lipgloss.NewStyle().Faint(true),
		Prompt:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		Author:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Timestamp:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Body:          lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		ItemID:        lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		Cell:          lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Sentinel:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Scroll:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Highlight:     lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
		StatusPinned:  lipgloss.NewStyle().Foreground(lipgloss.Color("51")),  // cyan
	}
}

// AuthorColor returns a stable color per author so a conversation is easy to follow
func AuthorColor(author string) lipgloss.Color {
	palette := []string{"39", "78", "214", "203", "170", "51", "220", "141"}
	h := 0
	for _, r := range author {
		h = h*31 + int(r)
	}
	if h < 0 {
		h = -h
	}
	return lipgloss.Color(palette[h%len(palette)])
}
