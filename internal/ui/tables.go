package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table creates a formatted table for output
type Table struct {
	headers  []string
	rows     [][]string
	maxWidth int
}

// NewTable creates a new table
func NewTable(headers ...string) *Table {
	return &Table{
		headers:  headers,
		maxWidth: 120,
	}
}

// SetMaxWidth sets the maximum table width
func (t *Table) SetMaxWidth(width int) {
	t.maxWidth = width
}

// AddRow adds a row; missing cells render empty.
func (t *Table) AddRow(values ...string) {
	row := make([]string, len(t.headers))
	copy(row, values)
	t.rows = append(t.rows, row)
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

func (t *Table) columnWidths() []int {
	widths := make([]int, len(t.headers))
	total := 0
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
		for _, row := range t.rows {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
		widths[i] += 2
		total += widths[i] + 1
	}

	// Shrink the widest column until the table fits.
	for excess := total - t.maxWidth; excess > 0; excess-- {
		maxIdx := 0
		for i := 1; i < len(widths); i++ {
			if widths[i] > widths[maxIdx] {
				maxIdx = i
			}
		}
		if widths[maxIdx] <= 10 {
			break
		}
		widths[maxIdx]--
	}
	return widths
}

// Render writes the table to the ui output
func (t *Table) Render() {
	if len(t.headers) == 0 {
		return
	}
	widths := t.columnWidths()

	border := func(left, mid, right string) {
		var sb strings.Builder
		sb.WriteString(left)
		for i, w := range widths {
			sb.WriteString(strings.Repeat("─", w))
			if i < len(widths)-1 {
				sb.WriteString(mid)
			}
		}
		sb.WriteString(right)
		fmt.Fprintln(out, sb.String())
	}
	line := func(cells []string, style func(string) string) {
		var sb strings.Builder
		sb.WriteString("│")
		for i := range t.headers {
			cell := truncate(cells[i], widths[i]-2)
			pad := widths[i] - 2 - lipgloss.Width(cell)
			sb.WriteString(" " + style(cell) + strings.Repeat(" ", pad) + " │")
		}
		fmt.Fprintln(out, sb.String())
	}

	border("┌", "┬", "┐")
	line(t.headers, func(s string) string { return headerStyle.Render(s) })
	border("├", "┼", "┤")
	for _, row := range t.rows {
		line(row, func(s string) string { return s })
	}
	border("└", "┴", "┘")
}

// truncate shortens s to maxLen runes with an ellipsis
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
