// Package editor defines the host editor surface the commenter works
// against, and Buffer, an in-memory implementation of it.
//
// Positions use 0-indexed lines and rune columns; offsets are rune offsets
// into the full text, matching the offsets the block detector reports.
package editor

import (
	"errors"
	"strings"

	"github.com/zjrosen/advcomment/internal/block"
)

// ErrPositionOutOfRange is returned when a host-supplied position does not
// exist in the document.
var ErrPositionOutOfRange = errors.New("position out of range")

// Position is a cursor location in the document.
type Position struct {
	Line int // 0-indexed line
	Col  int // 0-indexed rune column
}

// Before reports whether p comes strictly before other.
func (p Position) Before(other Position) bool {
	return p.Line < other.Line || (p.Line == other.Line && p.Col < other.Col)
}

// Document is the host surface consumed by the commenter.
type Document interface {
	// Value returns the full current text.
	Value() string
	// Line returns the text of line n without its newline.
	Line(n int) string
	// LineCount returns the number of lines (at least 1).
	LineCount() int
	// Selection returns the normalized selection; from == to for a bare cursor.
	Selection() (from, to Position)
	// SetSelection replaces the selection.
	SetSelection(from, to Position)
	// ReplaceRange replaces the text between from and to.
	ReplaceRange(text string, from, to Position)
	// PosToOffset converts a position to a rune offset.
	PosToOffset(p Position) int
	// OffsetToPos converts a rune offset to a position.
	OffsetToPos(offset int) Position
}

// Buffer is an in-memory Document.
type Buffer struct {
	lines  []string
	anchor Position
	cursor Position
}

// NewBuffer creates a buffer holding text with the cursor at the start.
func NewBuffer(text string) *Buffer {
	b := &Buffer{}
	b.SetValue(text)
	return b
}

// SetValue replaces the whole text and resets the cursor.
func (b *Buffer) SetValue(text string) {
	b.lines = strings.Split(text, "\n")
	b.anchor = Position{}
	b.cursor = Position{}
}

// Value implements Document.
func (b *Buffer) Value() string {
	return strings.Join(b.lines, "\n")
}

// Lines returns a copy of the buffer's lines.
func (b *Buffer) Lines() []string {
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// Line implements Document. Out of range lines are empty.
func (b *Buffer) Line(n int) string {
	if n < 0 || n >= len(b.lines) {
		return ""
	}
	return b.lines[n]
}

// LineCount implements Document.
func (b *Buffer) LineCount() int {
	return len(b.lines)
}

// LineLen returns the rune length of line n.
func (b *Buffer) LineLen(n int) int {
	return len([]rune(b.Line(n)))
}

// Validate checks that p addresses an existing location.
func (b *Buffer) Validate(p Position) error {
	if p.Line < 0 || p.Line >= len(b.lines) || p.Col < 0 || p.Col > b.LineLen(p.Line) {
		return ErrPositionOutOfRange
	}
	return nil
}

// Clamp moves p to the nearest existing location.
func (b *Buffer) Clamp(p Position) Position {
	if p.Line < 0 {
		return Position{}
	}
	if p.Line >= len(b.lines) {
		last := len(b.lines) - 1
		return Position{Line: last, Col: b.LineLen(last)}
	}
	p.Col = max(0, min(p.Col, b.LineLen(p.Line)))
	return p
}

// Selection implements Document.
func (b *Buffer) Selection() (from, to Position) {
	if b.cursor.Before(b.anchor) {
		return b.cursor, b.anchor
	}
	return b.anchor, b.cursor
}

// SetSelection implements Document. The cursor ends at to.
func (b *Buffer) SetSelection(from, to Position) {
	b.anchor = b.Clamp(from)
	b.cursor = b.Clamp(to)
}

// SetCursor collapses the selection to p.
func (b *Buffer) SetCursor(p Position) {
	b.SetSelection(p, p)
}

// Cursor returns the moving end of the selection.
func (b *Buffer) Cursor() Position {
	return b.cursor
}

// Anchor returns the fixed end of the selection.
func (b *Buffer) Anchor() Position {
	return b.anchor
}

// HasSelection reports whether the selection covers any text.
func (b *Buffer) HasSelection() bool {
	return b.anchor != b.cursor
}

// SelectedText returns the text between the selection bounds.
func (b *Buffer) SelectedText() string {
	from, to := b.Selection()
	return b.TextRange(from, to)
}

// TextRange returns the text between two positions.
func (b *Buffer) TextRange(from, to Position) string {
	runes := []rune(b.Value())
	start, end := b.PosToOffset(from), b.PosToOffset(to)
	if end < start {
		start, end = end, start
	}
	return string(runes[start:end])
}

// ReplaceRange implements Document. The cursor is left at the end of the
// inserted text.
func (b *Buffer) ReplaceRange(text string, from, to Position) {
	runes := []rune(b.Value())
	start, end := b.PosToOffset(from), b.PosToOffset(to)
	if end < start {
		start, end = end, start
	}

	updated := string(runes[:start]) + text + string(runes[end:])
	b.lines = strings.Split(updated, "\n")

	p := b.OffsetToPos(start + len([]rune(text)))
	b.anchor, b.cursor = p, p
}

// PosToOffset implements Document. Positions are clamped first.
func (b *Buffer) PosToOffset(p Position) int {
	p = b.Clamp(p)
	offset := 0
	for i := 0; i < p.Line; i++ {
		offset += len([]rune(b.lines[i])) + 1
	}
	return offset + p.Col
}

// OffsetToPos implements Document. Offsets are clamped to the document.
func (b *Buffer) OffsetToPos(offset int) Position {
	if offset <= 0 {
		return Position{}
	}
	for i, line := range b.lines {
		n := len([]rune(line))
		if offset <= n {
			return Position{Line: i, Col: offset}
		}
		offset -= n + 1
	}
	last := len(b.lines) - 1
	return Position{Line: last, Col: b.LineLen(last)}
}

// SpanOf converts a selection to a rune span in d.
func SpanOf(d Document, from, to Position) block.Span {
	return block.Span{Start: d.PosToOffset(from), End: d.PosToOffset(to)}
}
