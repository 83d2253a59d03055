// Package preview renders what a toggle or trim would change as a
// line-oriented unified diff.
package preview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Op is the kind of a diff line.
type Op int

const (
	Equal Op = iota
	Insert
	Delete
)

// Line is one line of a diff. OldNo and NewNo are 1-based and zero when the
// line does not exist on that side.
type Line struct {
	Op    Op
	Text  string
	OldNo int
	NewNo int
}

// Lines computes a line diff between before and after.
func Lines(before, after string) []Line {
	dmp := diffmatchpatch.New()
	a, b, index := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), index)

	var out []Line
	oldNo, newNo := 1, 1
	for _, d := range diffs {
		for _, text := range splitLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				out = append(out, Line{Op: Equal, Text: text, OldNo: oldNo, NewNo: newNo})
				oldNo++
				newNo++
			case diffmatchpatch.DiffDelete:
				out = append(out, Line{Op: Delete, Text: text, OldNo: oldNo})
				oldNo++
			case diffmatchpatch.DiffInsert:
				out = append(out, Line{Op: Insert, Text: text, NewNo: newNo})
				newNo++
			}
		}
	}
	return out
}

// splitLines splits a diff chunk into lines. A chunk is a run of whole
// lines, each ending in a newline except possibly the last line of the text.
func splitLines(chunk string) []string {
	if chunk == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(chunk, "\n"), "\n")
}

// Stats counts inserted and deleted lines.
func Stats(lines []Line) (added, removed int) {
	for _, l := range lines {
		switch l.Op {
		case Insert:
			added++
		case Delete:
			removed++
		}
	}
	return added, removed
}

// Hunk is a contiguous group of changed lines with surrounding context.
type Hunk struct {
	OldStart, OldLen int
	NewStart, NewLen int
	Lines            []Line
}

// Header returns the "@@ -a,b +c,d @@" line.
func (h Hunk) Header() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldLen, h.NewStart, h.NewLen)
}

// Hunks groups lines into hunks keeping context unchanged lines around
// each change. Nearby changes share a hunk.
func Hunks(lines []Line, context int) []Hunk {
	var hunks []Hunk
	i := 0
	for i < len(lines) {
		if lines[i].Op == Equal {
			i++
			continue
		}

		start := max(0, i-context)
		end := i
		for end < len(lines) {
			if lines[end].Op != Equal {
				end++
				continue
			}
			run := end
			for run < len(lines) && lines[run].Op == Equal {
				run++
			}
			if run == len(lines) || run-end > 2*context {
				end = min(len(lines), end+context)
				break
			}
			end = run
		}

		hunks = append(hunks, newHunk(lines[start:end]))
		i = end
	}
	return hunks
}

func newHunk(lines []Line) Hunk {
	h := Hunk{Lines: lines}
	for _, l := range lines {
		if l.Op != Insert {
			if h.OldStart == 0 {
				h.OldStart = l.OldNo
			}
			h.OldLen++
		}
		if l.Op != Delete {
			if h.NewStart == 0 {
				h.NewStart = l.NewNo
			}
			h.NewLen++
		}
	}
	return h
}

// Styles colors rendered diffs. The zero value renders plain text.
type Styles struct {
	Header lipgloss.Style
	Insert lipgloss.Style
	Delete lipgloss.Style
	Equal  lipgloss.Style
}

// DefaultStyles returns the terminal colors used by the CLI and playground.
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().Foreground(lipgloss.Color("#54A0FF")).Bold(true),
		Insert: lipgloss.NewStyle().Foreground(lipgloss.Color("#73F59F")),
		Delete: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8787")),
		Equal:  lipgloss.NewStyle(),
	}
}

// Unified renders a unified diff of before and after for name. It returns
// the empty string when nothing changed.
func Unified(name, before, after string, context int, styles Styles) string {
	if before == after {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(styles.Header.Render("--- " + name))
	sb.WriteString("\n")
	sb.WriteString(styles.Header.Render("+++ " + name))
	sb.WriteString("\n")

	for _, h := range Hunks(Lines(before, after), context) {
		sb.WriteString(styles.Header.Render(h.Header()))
		sb.WriteString("\n")
		for _, l := range h.Lines {
			switch l.Op {
			case Insert:
				sb.WriteString(styles.Insert.Render("+" + l.Text))
			case Delete:
				sb.WriteString(styles.Delete.Render("-" + l.Text))
			default:
				sb.WriteString(styles.Equal.Render(" " + l.Text))
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
