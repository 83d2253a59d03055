// Package app runs commenter commands against a host document: it ties
// selection normalization, block detection, toggling and trimming together
// and reports each run as a span and a published change.
package app

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/advcomment/internal/editor"
	"github.com/zjrosen/advcomment/internal/language"
	"github.com/zjrosen/advcomment/internal/log"
	"github.com/zjrosen/advcomment/internal/pubsub"
	"github.com/zjrosen/advcomment/internal/sections"
	"github.com/zjrosen/advcomment/internal/selection"
	"github.com/zjrosen/advcomment/internal/toggle"
	"github.com/zjrosen/advcomment/internal/tracing"
	"github.com/zjrosen/advcomment/internal/trim"
)

// Change describes one command that modified, or declined to modify, a
// document. It is the payload published to subscribers.
type Change struct {
	Path    string // file path, empty for in-memory documents
	Command string // "toggle" or "trim"
	Mode    language.Mode
	Context string
	Pattern string
	Action  toggle.Action
	Changed bool
}

// Summary renders the change for status lines.
func (c Change) Summary() string {
	if c.Command == "trim" {
		if !c.Changed {
			return "trim: nothing to remove"
		}
		return "trim: trailing whitespace removed"
	}
	if c.Action == toggle.Unchanged {
		return fmt.Sprintf("%s %s: no comment syntax for %s", c.Command, c.Mode, c.Context)
	}
	return fmt.Sprintf("%s %s: %s with %s in %s", c.Command, c.Mode, c.Action, c.Pattern, c.Context)
}

// Option configures a Commenter.
type Option func(*Commenter)

// WithEngine sets the toggle engine. The default uses the built-in table.
func WithEngine(engine *toggle.Engine) Option {
	return func(c *Commenter) {
		c.engine = engine
	}
}

// WithIndex sets the code section index used for selection expansion.
func WithIndex(index sections.Index) Option {
	return func(c *Commenter) {
		c.index = index
	}
}

// WithoutIndex makes selection expansion find fences by scanning the text
// instead of parsing the note as markdown.
func WithoutIndex() Option {
	return func(c *Commenter) {
		c.index = nil
		c.scan = true
	}
}

// WithTracer sets the tracer commands report spans to.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Commenter) {
		c.tracer = tracer
	}
}

// WithBroker sets the broker changes are published on.
func WithBroker(broker *pubsub.Broker[Change]) Option {
	return func(c *Commenter) {
		c.broker = broker
	}
}

// Commenter executes toggle and trim commands.
type Commenter struct {
	engine *toggle.Engine
	index  sections.Index
	tracer trace.Tracer
	broker *pubsub.Broker[Change]
	scan   bool
}

// New creates a Commenter. Without options it uses the default engine, a
// cached markdown section index and a no-op tracer, and publishes nothing.
func New(opts ...Option) *Commenter {
	c := &Commenter{}
	for _, opt := range opts {
		opt(c)
	}
	if c.engine == nil {
		c.engine = toggle.Default()
	}
	if c.index == nil && !c.scan {
		c.index = sections.NewDefaultIndex()
	}
	if c.tracer == nil {
		c.tracer = noop.NewTracerProvider().Tracer("advcomment")
	}
	return c
}

// Toggle comments or uncomments the selection in doc. A blank selection
// leaves the document untouched. Afterwards the selection covers the
// replaced text.
func (c *Commenter) Toggle(ctx context.Context, doc editor.Document, mode language.Mode) toggle.Result {
	_, span := tracing.Start(ctx, c.tracer, tracing.SpanToggle,
		attribute.String(tracing.AttrMode, mode.String()))
	defer span.End()

	info := selection.Normalize(doc, mode, c.index)
	span.AddEvent(tracing.EventNormalized, trace.WithAttributes(
		attribute.Bool(tracing.AttrExpanded, info.Expanded),
		attribute.Int(tracing.AttrSelLen, info.Span.Len()),
	))

	if info.Blank() {
		span.AddEvent(tracing.EventNoop)
		log.Debug(log.CatToggle, "blank selection", "line", info.From.Line)
		return toggle.Result{Text: info.Text, Action: toggle.Unchanged}
	}

	res := c.engine.Toggle(doc.Value(), info, mode)
	span.SetAttributes(
		attribute.String(tracing.AttrContext, res.Context.String()),
		attribute.String(tracing.AttrPattern, res.Pattern),
		attribute.String(tracing.AttrAction, res.Action.String()),
	)

	if res.Action != toggle.Unchanged {
		doc.ReplaceRange(res.Text, info.From, info.To)
		end := doc.OffsetToPos(info.Span.Start + len([]rune(res.Text)))
		doc.SetSelection(info.From, end)
		span.AddEvent(tracing.EventReplaced)
	}

	c.publish(pubsub.ToggledEvent, Change{
		Command: "toggle",
		Mode:    mode,
		Context: res.Context.String(),
		Pattern: res.Pattern,
		Action:  res.Action,
		Changed: res.Action != toggle.Unchanged,
	})
	return res
}

// Trim removes trailing whitespace from doc, everywhere or only inside
// fenced code. It reports whether the document changed. The cursor keeps
// its line and is clamped to the shortened line.
func (c *Commenter) Trim(ctx context.Context, doc editor.Document, codeOnly bool) bool {
	_, span := tracing.Start(ctx, c.tracer, tracing.SpanTrim,
		attribute.Bool(tracing.AttrCodeOnly, codeOnly))
	defer span.End()

	before := doc.Value()
	after := trim.Apply(before, codeOnly)
	changed := after != before
	span.SetAttributes(attribute.Bool(tracing.AttrChanged, changed))

	if changed {
		from, to := doc.Selection()
		doc.ReplaceRange(after, editor.Position{}, doc.OffsetToPos(len([]rune(before))))
		doc.SetSelection(from, to)
		span.AddEvent(tracing.EventReplaced)
		log.Debug(log.CatTrim, "trimmed document", "codeOnly", codeOnly)
	} else {
		span.AddEvent(tracing.EventNoop)
	}

	c.publish(pubsub.TrimmedEvent, Change{Command: "trim", Changed: changed})
	return changed
}

func (c *Commenter) publish(event pubsub.EventType, change Change) {
	if c.broker == nil {
		return
	}
	c.broker.Publish(event, change)
}
