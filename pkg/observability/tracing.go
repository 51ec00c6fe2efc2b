package observability

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation name used for spans.
const TracerName = "github.com/matzehuels/procflow"

// Tracer opens one OpenTelemetry span per pipeline stage. Start events
// return a context carrying the span; the matching Complete event ends it.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer wraps tracer. A nil tracer uses the global provider.
func NewTracer(tracer trace.Tracer) *Tracer {
	if tracer == nil {
		tracer = otel.Tracer(TracerName)
	}
	return &Tracer{tracer: tracer}
}

func (t *Tracer) start(ctx context.Context, name string, attrs ...attribute.KeyValue) context.Context {
	ctx, _ = t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx
}

func end(ctx context.Context, d time.Duration, err error, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attrs...)
	span.SetAttributes(attribute.Int64("procflow.duration_ms", d.Milliseconds()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

func (t *Tracer) OnParseStart(ctx context.Context, source string) context.Context {
	return t.start(ctx, "procflow.parse", attribute.String("procflow.source", source))
}

func (t *Tracer) OnParseComplete(ctx context.Context, _ string, rows, panels int, d time.Duration, err error) {
	end(ctx, d, err,
		attribute.Int("procflow.rows", rows),
		attribute.Int("procflow.panels", panels))
}

func (t *Tracer) OnLayoutStart(ctx context.Context, mode string, nodeCount int) context.Context {
	return t.start(ctx, "procflow.layout",
		attribute.String("procflow.mode", mode),
		attribute.Int("procflow.nodes", nodeCount))
}

func (t *Tracer) OnLayoutComplete(ctx context.Context, _ string, stats LayoutStats, d time.Duration, err error) {
	end(ctx, d, err,
		attribute.Int("procflow.edges", stats.Edges),
		attribute.Int("procflow.unrouted", stats.Unrouted))
}

func (t *Tracer) OnRenderStart(ctx context.Context, formats []string) context.Context {
	return t.start(ctx, "procflow.render", attribute.String("procflow.formats", strings.Join(formats, ",")))
}

func (t *Tracer) OnRenderComplete(ctx context.Context, _ []string, d time.Duration, err error) {
	end(ctx, d, err)
}

var _ PipelineHooks = (*Tracer)(nil)
