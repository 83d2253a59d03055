package playground

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Rounded border characters.
const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

// pane is a bordered box with a title on the top border and an info label
// on the bottom border.
type pane struct {
	Content string
	Width   int // including borders
	Height  int // including borders
	Title   string
	Info    string
	Focused bool
}

func (p pane) render() string {
	color := borderDefaultColor
	if p.Focused {
		color = borderFocusColor
	}
	border := lipgloss.NewStyle().Foreground(color)

	inner := max(p.Width-2, 1)
	rows := max(p.Height-2, 1)

	lines := strings.Split(p.Content, "\n")
	body := make([]string, rows)
	for i := range rows {
		var line string
		if i < len(lines) {
			line = ansi.Truncate(lines[i], inner, "")
		}
		if w := ansi.StringWidth(line); w < inner {
			line += strings.Repeat(" ", inner-w)
		}
		body[i] = border.Render(borderVertical) + line + border.Render(borderVertical)
	}

	var sb strings.Builder
	sb.WriteString(titledEdge(borderTopLeft, borderTopRight, p.Title, inner, border))
	sb.WriteString("\n")
	sb.WriteString(strings.Join(body, "\n"))
	sb.WriteString("\n")
	sb.WriteString(titledEdge(borderBottomLeft, borderBottomRight, p.Info, inner, border))
	return sb.String()
}

// titledEdge renders ╭─ label ─────╮ filling inner cells between the corners.
// A label that does not fit is truncated, and dropped when there is no room
// at all.
func titledEdge(left, right, label string, inner int, border lipgloss.Style) string {
	const chrome = 3 // "─ " before and " " after the label
	if label == "" || inner < chrome+1 {
		return border.Render(left + strings.Repeat(borderHorizontal, inner) + right)
	}

	label = ansi.Truncate(label, inner-chrome, "…")
	rest := max(inner-chrome-ansi.StringWidth(label), 0)
	return border.Render(left+borderHorizontal+" ") +
		label +
		border.Render(" "+strings.Repeat(borderHorizontal, rest)+right)
}
