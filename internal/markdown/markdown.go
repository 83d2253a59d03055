// Package markdown renders notes for the playground preview pane.
package markdown

import (
	"github.com/charmbracelet/glamour"
	"github.com/dlclark/regexp2"

	"github.com/zjrosen/advcomment/internal/block"
)

// noMarginStyle removes document margins so the preview lines up with the
// editor pane.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// noteCommentRe matches markup comments, which the note preview hides.
// A comment may span lines.
var noteCommentRe = regexp2.MustCompile(`%%[\s\S]*?%%`, regexp2.None)

// Renderer wraps glamour with advcomment's configuration.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// New creates a renderer wrapping at width. style is "dark" or "light";
// empty means dark. A fixed style avoids the terminal background query that
// auto detection performs.
func New(width int, style string) (*Renderer, error) {
	if style == "" {
		style = "dark"
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	return &Renderer{renderer: r, width: width}, nil
}

// Width returns the configured word wrap width.
func (r *Renderer) Width() int {
	return r.width
}

// Render transforms markdown to styled terminal output.
func (r *Renderer) Render(markdown string) (string, error) {
	return r.renderer.Render(markdown)
}

// RenderNote renders a note the way a reader sees it: markup comments are
// removed first. Comments inside code fences are code and are kept.
func (r *Renderer) RenderNote(note string) (string, error) {
	return r.Render(HideComments(note))
}

// HideComments removes every %% ... %% region outside fenced code.
func HideComments(note string) string {
	fences := block.Fences(note)
	out, err := noteCommentRe.ReplaceFunc(note, func(m regexp2.Match) string {
		span := block.Span{Start: m.Index, End: m.Index + m.Length}
		for _, f := range fences {
			if f.Span.Contains(span) {
				return m.String()
			}
		}
		return ""
	}, -1, -1)
	if err != nil {
		return note
	}
	return out
}
