package oracle

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/Iron-Ham/dogfight/internal/oracle"

type tracedOracle struct {
	inner   TextOracle
	backend string
	tracer  trace.Tracer
}

// Traced wraps inner so every call runs in an "oracle.generate" span. A nil
// tracer uses the global tracer provider.
func Traced(inner TextOracle, backend string, tracer trace.Tracer) TextOracle {
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	return &tracedOracle{inner: inner, backend: backend, tracer: tracer}
}

func (t *tracedOracle) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	ctx, span := t.tracer.Start(ctx, "oracle.generate", trace.WithAttributes(
		attribute.String("oracle.backend", t.backend),
		attribute.Int("oracle.max_tokens", maxTokens),
		attribute.Int("oracle.prompt_chars", len(prompt)),
	))
	defer span.End()

	out, err := t.inner.Generate(ctx, prompt, maxTokens)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return out, err
	}
	span.SetAttributes(attribute.Int("oracle.response_chars", len(out)))
	return out, nil
}
