package logging

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

type ctxKey string

const slogFields ctxKey = "slog_fields"

// ContextHandler is an slog.Handler decorator that enriches every record with
// attributes stored in the context via AppendCtx, plus the OpenTelemetry trace
// and span identifiers when a span is active.
type ContextHandler struct {
	slog.Handler
}

func (h ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(slogFields).([]slog.Attr); ok {
		r.AddAttrs(attrs...)
	}

	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		spanCtx := span.SpanContext()
		r.AddAttrs(
			slog.String("trace_id", spanCtx.TraceID().String()),
			slog.String("span_id", spanCtx.SpanID().String()),
		)
	}

	return h.Handler.Handle(ctx, r)
}

// AppendCtx returns a context carrying the given attribute, replacing any
// previously appended attribute with the same key.
func AppendCtx(parent context.Context, attr slog.Attr) context.Context {
	if parent == nil {
		parent = context.Background()
	}

	existing, _ := parent.Value(slogFields).([]slog.Attr)
	attrs := make([]slog.Attr, 0, len(existing)+1)
	for _, a := range existing {
		if a.Key != attr.Key {
			attrs = append(attrs, a)
		}
	}
	attrs = append(attrs, attr)
	return context.WithValue(parent, slogFields, attrs)
}
