package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"scrollwin/internal/coordinator"
	"scrollwin/internal/feed"
)

// ItemRenderer turns feed items into the terminal lines the window composes
type ItemRenderer struct {
	styles *Styles
}

// NewItemRenderer creates a new item renderer
func NewItemRenderer(styles *Styles) *ItemRenderer {
	return &ItemRenderer{styles: styles}
}

// ListRow renders an item as a fixed-height list row
func (r *ItemRenderer) ListRow(it feed.Item, width, height int) []string {
	head := fmt.Sprintf("%s %s %s",
		r.styles.ItemID.Render(fmt.Sprintf("#%-5d", it.ID)),
		lipglossAuthor(r.styles, it.Author),
		r.styles.Body.Render(it.Body))
	lines := []string{ansi.Truncate(head, width, "…")}

	// extra row height shows the wrapped body below the header
	if height > 1 {
		body := feed.Wrap(it.Body, max(1, width-7))
		for i := 0; len(lines) < height; i++ {
			line := ""
			if i+1 < len(body) {
				line = "       " + r.styles.Dim.Render(body[i+1])
			}
			lines = append(lines, ansi.Truncate(line, width, "…"))
		}
	}
	return lines
}

// Cell renders an item as a grid cell of the given size
func (r *ItemRenderer) Cell(it feed.Item, width, height int) []string {
	inner := max(1, width-1)
	lines := []string{ansi.Truncate(
		r.styles.ItemID.Render(fmt.Sprintf("#%d ", it.ID))+lipglossAuthor(r.styles, it.Author), inner, "…")}
	for _, l := range feed.Wrap(it.Body, inner) {
		if len(lines) == height {
			break
		}
		lines = append(lines, r.styles.Cell.Render(l))
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return lines[:height]
}

// Message renders a chat message. Its line count always equals the value of
// feed.Estimator for the same width.
func (r *ItemRenderer) Message(it feed.Item, width int) []string {
	header := fmt.Sprintf("%s %s",
		lipglossAuthor(r.styles, it.Author),
		r.styles.Timestamp.Render(it.At.Format("15:04:05")))

	body := feed.Wrap(it.Body, width)
	lines := make([]string, 0, len(body)+2)
	lines = append(lines, ansi.Truncate(header, width, "…"))
	for _, l := range body {
		lines = append(lines, r.styles.Body.Render(l))
	}
	return append(lines, "")
}

// Sentinel renders the trailing loader pseudo-item
func (r *ItemRenderer) Sentinel(kind coordinator.SentinelKind, spinner string, width, height int) []string {
	var text string
	switch kind {
	case coordinator.SentinelLoading:
		text = spinner + " loading more"
	case coordinator.SentinelEnd:
		text = "· end of feed ·"
	}
	lines := []string{ansi.Truncate(r.styles.Sentinel.Render(text), width, "")}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return lines
}

func lipglossAuthor(s *Styles, author string) string {
	return s.Author.Foreground(AuthorColor(author)).Render(strings.ToLower(author))
}
