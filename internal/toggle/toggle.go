// Package toggle adds or removes comment markers around a selection, picking
// the comment syntax from the block that encloses it.
package toggle

import (
	"github.com/zjrosen/advcomment/internal/block"
	"github.com/zjrosen/advcomment/internal/language"
	"github.com/zjrosen/advcomment/internal/log"
	"github.com/zjrosen/advcomment/internal/pattern"
	"github.com/zjrosen/advcomment/internal/selection"
)

// Action is what a toggle did to the selected text.
type Action int

const (
	// Unchanged means no comment syntax applied; the text is returned as is.
	Unchanged Action = iota
	// Commented means markers were added.
	Commented
	// Uncommented means markers were stripped.
	Uncommented
)

func (a Action) String() string {
	switch a {
	case Commented:
		return "commented"
	case Uncommented:
		return "uncommented"
	default:
		return "unchanged"
	}
}

// Result describes one toggle.
type Result struct {
	Text    string        // replacement for the selection
	Context block.Context // block enclosing the selection
	Pattern string        // name of the pattern applied, empty when Unchanged
	Action  Action
}

// Engine resolves the comment pattern for a selection and applies it.
type Engine struct {
	table   *language.Table
	catalog *pattern.Catalog
}

// New creates an engine over a language table and pattern catalog.
func New(table *language.Table, catalog *pattern.Catalog) *Engine {
	return &Engine{table: table, catalog: catalog}
}

// Default returns an engine with the built-in table and catalog.
func Default() *Engine {
	return New(language.Default(), pattern.NewCatalog())
}

// Toggle computes the replacement for the selection described by info in
// document. Combinations without a comment syntax leave the text unchanged.
func (e *Engine) Toggle(document string, info selection.Info, mode language.Mode) Result {
	ctx := block.Detect(document, info.Span)

	p, ok := e.resolve(ctx, mode)
	if !ok {
		log.Debug(log.CatToggle, "no comment syntax", "context", ctx, "mode", mode)
		return Result{Text: info.Text, Context: ctx, Action: Unchanged}
	}

	text, added := p.Toggle(info.Text)
	action := Uncommented
	if added {
		action = Commented
	}
	if text == info.Text {
		action = Unchanged
	}

	log.Debug(log.CatToggle, "toggled", "context", ctx, "pattern", p.Name(), "action", action)
	return Result{Text: text, Context: ctx, Pattern: p.Name(), Action: action}
}

// resolve picks the pattern for ctx. Outside any block the markup fallback
// applies regardless of mode.
func (e *Engine) resolve(ctx block.Context, mode language.Mode) (*pattern.Pattern, bool) {
	if ctx.Kind == block.NoBlock {
		return e.catalog.Fallback(), true
	}

	family, effective := e.table.Resolve(ctx.Tag, mode)
	if family == language.None {
		return nil, false
	}
	return e.catalog.For(family, effective)
}

// Toggle runs the default engine and returns the replacement text.
func Toggle(document string, info selection.Info, mode language.Mode) string {
	return defaultEngine.Toggle(document, info, mode).Text
}

var defaultEngine = Default()
