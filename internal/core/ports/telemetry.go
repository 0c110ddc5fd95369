package ports

import (
	"context"
	"io"

	"go.trai.ch/ngxsys/internal/core/domain"
)

//go:generate mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Tracer is the entry point for creating spans.
type Tracer interface {
	// Start creates a new span.
	Start(ctx context.Context, name string, opts ...SpanOption) (context.Context, Span)
}

// Span represents a unit of work.
type Span interface {
	// End completes the span.
	End()
	// RecordError records an error for the span.
	RecordError(err error)
	// SetAttribute adds a key-value pair to the span.
	SetAttribute(key string, value any)
}

// SpanConfig holds configuration for a starting span.
type SpanConfig struct {
	Attributes map[string]string
}

// SpanOption is a functional option for configuring a span.
type SpanOption func(*SpanConfig)

// WithSpanAttribute sets a string attribute when the span starts.
func WithSpanAttribute(key, value string) SpanOption {
	return func(c *SpanConfig) {
		if c.Attributes == nil {
			c.Attributes = make(map[string]string)
		}
		c.Attributes[key] = value
	}
}

// Telemetry records pipeline stages as vertices with captured output.
type Telemetry interface {
	// Record starts a vertex and returns a context carrying it.
	Record(ctx context.Context, name string) (context.Context, Vertex)
	// Close flushes the recording session.
	Close() error
}

// Vertex is a single recorded stage.
type Vertex interface {
	Stdout() io.Writer
	Stderr() io.Writer
	Log(level domain.LogLevel, msg string)
	// Complete marks the vertex finished; a nil err means success.
	Complete(err error)
	// Cached marks the vertex as skipped because its result was already present.
	Cached()
}

type vertexKey struct{}

// ContextWithVertex returns a context carrying v.
func ContextWithVertex(ctx context.Context, v Vertex) context.Context {
	return context.WithValue(ctx, vertexKey{}, v)
}

// VertexFromContext returns the vertex carried by ctx, if any.
func VertexFromContext(ctx context.Context) (Vertex, bool) {
	v, ok := ctx.Value(vertexKey{}).(Vertex)
	return v, ok
}
