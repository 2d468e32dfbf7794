package views

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Block is one rendered entry at its absolute position, in lines
type Block struct {
	Offset float64
	Column int
	Lines  []string
}

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width          int
	Height         int
	Mode           string
	ItemCount      int
	Blocks         []Block
	ScrollOffset   float64
	MaxOffset      float64
	ViewportHeight int
	Columns        int
	RangeStart     int
	RangeEnd       int
	LoadState      string
	Loading        bool
	Scrolling      bool
	Pinned         bool
	ShowStatus     bool
	StatusMessage  string
	StatusIsError  bool
	Prompt         string
	HelpView       string
}

// Renderer handles all view rendering
type Renderer struct {
	styles *Styles
	items  *ItemRenderer
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles: styles,
		items:  NewItemRenderer(styles),
	}
}

// Items returns the item renderer sharing this renderer's styles
func (r *Renderer) Items() *ItemRenderer {
	return r.items
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	lines := make([]string, 0, state.Height)
	lines = append(lines, r.titleLine(state))
	lines = append(lines, ComposeWindow(state.Blocks, state.ScrollOffset, state.ViewportHeight, state.Columns, state.Width)...)

	if state.ShowStatus {
		lines = append(lines, r.statusLine(state))
	}
	if state.Prompt != "" {
		lines = append(lines, ansi.Truncate(state.Prompt, state.Width, ""))
	} else {
		lines = append(lines, ansi.Truncate(r.styles.Help.Render(state.HelpView), state.Width, ""))
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) titleLine(state ViewState) string {
	logo := r.styles.Title.Render("scrollwin")
	left := fmt.Sprintf("%s %s", logo, r.styles.Dim.Render(fmt.Sprintf("· %s · %d items", state.Mode, state.ItemCount)))

	var indicators []string
	if state.Loading {
		indicators = append(indicators, r.styles.StatusLoading.Render("loading"))
	}
	if state.Scrolling {
		indicators = append(indicators, r.styles.Scroll.Render("scrolling"))
	}
	if state.Pinned {
		indicators = append(indicators, r.styles.StatusPinned.Render("pinned"))
	}
	if len(indicators) == 0 {
		return ansi.Truncate(left, state.Width, "")
	}

	right := strings.Join(indicators, r.styles.Dim.Render(" | "))
	padding := state.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 2 {
		padding = 2
	}
	return ansi.Truncate(left+strings.Repeat(" ", padding)+right, state.Width, "")
}

func (r *Renderer) statusLine(state ViewState) string {
	if state.StatusMessage != "" {
		style := r.styles.StatusSuccess
		if state.StatusIsError {
			style = r.styles.StatusError
		}
		return ansi.Truncate(style.Render(state.StatusMessage), state.Width, "…")
	}

	window := "empty"
	if state.RangeEnd >= state.RangeStart {
		window = fmt.Sprintf("%d–%d", state.RangeStart, state.RangeEnd)
	}
	percent := 100.0
	if state.MaxOffset > 0 {
		percent = state.ScrollOffset / state.MaxOffset * 100
	}
	text := fmt.Sprintf("window %s · offset %.0f/%.0f (%.0f%%) · load %s",
		window, state.ScrollOffset, state.MaxOffset, percent, state.LoadState)
	return ansi.Truncate(r.styles.Status.Render(text), state.Width, "…")
}

// ComposeWindow paints blocks into exactly height lines of the given width.
// Lines of a block that fall above or below the viewport are clipped, and
// each line is split into columns of equal width.
func ComposeWindow(blocks []Block, scrollOffset float64, height, columns, width int) []string {
	if height <= 0 {
		return nil
	}
	if columns < 1 {
		columns = 1
	}
	cellWidth := width / columns

	cells := make([][]string, height)
	for i := range cells {
		cells[i] = make([]string, columns)
	}
	for _, b := range blocks {
		top := int(math.Round(b.Offset - scrollOffset))
		col := b.Column
		if col < 0 || col >= columns {
			continue
		}
		for k, line := range b.Lines {
			row := top + k
			if row < 0 || row >= height {
				continue
			}
			cells[row][col] = line
		}
	}

	out := make([]string, height)
	for i, row := range cells {
		if columns == 1 {
			out[i] = ansi.Truncate(row[0], width, "")
			continue
		}
		var sb strings.Builder
		for _, cell := range row {
			sb.WriteString(padCell(cell, cellWidth))
		}
		out[i] = sb.String()
	}
	return out
}

func padCell(s string, width int) string {
	s = ansi.Truncate(s, width, "")
	if w := ansi.StringWidth(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}
