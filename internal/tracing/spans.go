package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys.
const (
	AttrMode     = "comment.mode"
	AttrContext  = "comment.context"
	AttrPattern  = "comment.pattern"
	AttrAction   = "comment.action"
	AttrExpanded = "selection.expanded"
	AttrSelLen   = "selection.length"
	AttrCodeOnly = "trim.code_only"
	AttrChanged  = "document.changed"
	AttrPath     = "document.path"
	AttrErrorMsg = "error.message"
)

// Span names.
const (
	SpanToggle   = "command.toggle"
	SpanTrim     = "command.trim"
	SpanTrimFile = "file.trim"
)

// Event names.
const (
	EventNormalized = "selection.normalized"
	EventNoop       = "command.noop"
	EventReplaced   = "document.replaced"
)

// Start opens a span named name on tracer.
func Start(ctx context.Context, tracer trace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// Fail records err on span and marks it failed.
func Fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attribute.String(AttrErrorMsg, err.Error()))
}
