package feed

import (
	"strings"

	"github.com/rivo/uniseg"

	"scrollwin/internal/extent"
)

// Estimator returns the number of terminal lines an item takes when its body
// is wrapped at width: a header line, the wrapped body and a spacer.
func Estimator(width int) extent.Estimator[Item] {
	return func(it Item, _ int) float64 {
		return float64(2 + len(Wrap(it.Body, width)))
	}
}

// Wrap breaks text into lines no wider than width display cells, breaking at
// spaces and splitting words that do not fit on a line of their own
func Wrap(text string, width int) []string {
	if width < 1 {
		width = 1
	}

	var lines []string
	var line strings.Builder
	lineWidth := 0
	for _, word := range strings.Fields(text) {
		w := uniseg.StringWidth(word)
		if lineWidth > 0 && lineWidth+1+w <= width {
			line.WriteByte(' ')
			line.WriteString(word)
			lineWidth += 1 + w
			continue
		}
		if lineWidth > 0 {
			lines = append(lines, line.String())
			line.Reset()
			lineWidth = 0
		}
		for w > width {
			head, rest := splitAtWidth(word, width)
			lines = append(lines, head)
			word = rest
			w = uniseg.StringWidth(word)
		}
		line.WriteString(word)
		lineWidth = w
	}
	if lineWidth > 0 || len(lines) == 0 {
		lines = append(lines, line.String())
	}
	return lines
}

// splitAtWidth cuts s at a grapheme boundary so the head fits in width cells.
// The head always holds at least one cluster.
func splitAtWidth(s string, width int) (head, rest string) {
	state := -1
	used, cut := 0, 0
	remaining := s
	for len(remaining) > 0 {
		cluster, next, w, newState := uniseg.FirstGraphemeClusterInString(remaining, state)
		if used > 0 && used+w > width {
			break
		}
		used += w
		cut += len(cluster)
		remaining = next
		state = newState
	}
	return s[:cut], s[cut:]
}
