// Package selection turns the editor's raw selection into the text a
// comment toggle should operate on.
package selection

import (
	"strings"

	"github.com/zjrosen/advcomment/internal/block"
	"github.com/zjrosen/advcomment/internal/editor"
	"github.com/zjrosen/advcomment/internal/language"
	"github.com/zjrosen/advcomment/internal/log"
	"github.com/zjrosen/advcomment/internal/sections"
)

// Info is the effective selection.
type Info struct {
	Text     string
	From     editor.Position
	To       editor.Position
	Span     block.Span
	Expanded bool // the range differs from the editor's raw selection
}

// Blank reports whether there is nothing to comment.
func (i Info) Blank() bool {
	return strings.TrimSpace(i.Text) == ""
}

// Normalize computes the effective selection for mode.
//
// Block mode uses the raw selection. Line mode expands a bare cursor to its
// whole line, and expands a partial multi-line selection to full lines when
// it lies inside a fenced code block, making that the new editor selection.
// index may be nil, in which case fences are found by scanning the text.
func Normalize(doc editor.Document, mode language.Mode, index sections.Index) Info {
	rawFrom, rawTo := doc.Selection()
	from, to := rawFrom, rawTo

	switch {
	case mode == language.Block:
		// wraps exactly what is selected

	case from == to:
		from = editor.Position{Line: from.Line}
		to = editor.Position{Line: from.Line, Col: lineLen(doc, from.Line)}
		log.Debug(log.CatSelection, "expanded cursor to line", "line", from.Line)

	case from.Line != to.Line && !coversFullLines(doc, from, to):
		if !insideCode(doc, from, to, index) {
			log.Debug(log.CatSelection, "partial selection outside code left as is", "from", from.Line, "to", to.Line)
			break
		}
		from = editor.Position{Line: from.Line}
		to = editor.Position{Line: to.Line, Col: lineLen(doc, to.Line)}
		doc.SetSelection(from, to)
		log.Debug(log.CatSelection, "expanded partial selection in code", "from", from.Line, "to", to.Line)
	}

	span := editor.SpanOf(doc, from, to)
	return Info{
		Text:     string([]rune(doc.Value())[span.Start:span.End]),
		From:     from,
		To:       to,
		Span:     span,
		Expanded: rawFrom != from || rawTo != to,
	}
}

func lineLen(doc editor.Document, n int) int {
	return len([]rune(doc.Line(n)))
}

func coversFullLines(doc editor.Document, from, to editor.Position) bool {
	return from.Col == 0 && to.Col == lineLen(doc, to.Line)
}

// insideCode reports whether the lines from..to are strictly inside a code
// section: the opener and closer lines themselves do not count.
func insideCode(doc editor.Document, from, to editor.Position, index sections.Index) bool {
	if index != nil {
		if found, ok := index.Sections(doc.Value()); ok {
			for _, s := range found {
				if s.Type == sections.TypeCode && s.StartLine < from.Line && s.EndLine > to.Line {
					return true
				}
			}
			return false
		}
	}
	return block.InFenceBody(doc.Value(), editor.SpanOf(doc, from, to))
}
