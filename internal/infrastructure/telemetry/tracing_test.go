package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wms/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// installRecorder swaps the global tracer provider for one backed by an
// in-memory recorder and restores the original on cleanup.
func installRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func attributeMap(span sdktrace.ReadOnlySpan) map[string]interface{} {
	out := make(map[string]interface{}, len(span.Attributes()))
	for _, attr := range span.Attributes() {
		out[string(attr.Key)] = attr.Value.AsInterface()
	}
	return out
}

func TestStartSpan(t *testing.T) {
	sr := installRecorder(t)

	_, span := telemetry.StartSpan(context.Background(), "inventory.reconciliation")
	require.NotNil(t, span)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "inventory.reconciliation", spans[0].Name())
	assert.Equal(t, trace.SpanKindInternal, spans[0].SpanKind())
}

func TestStartSpan_Options(t *testing.T) {
	sr := installRecorder(t)

	snapshotID := uuid.New()
	_, span := telemetry.StartSpan(context.Background(), "inventory.upload_snapshot",
		telemetry.WithAttribute("snapshot_label", "saldos 30-11"),
		telemetry.WithAttribute("snapshot_id", snapshotID),
		telemetry.WithAttribute("row_count", 412),
		telemetry.WithSpanKind(trace.SpanKindClient),
	)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, trace.SpanKindClient, spans[0].SpanKind())

	attrs := attributeMap(spans[0])
	assert.Equal(t, "saldos 30-11", attrs["snapshot_label"])
	assert.Equal(t, snapshotID.String(), attrs["snapshot_id"])
	assert.Equal(t, int64(412), attrs["row_count"])
}

func TestStartServiceSpan_NamingConvention(t *testing.T) {
	sr := installRecorder(t)

	_, span := telemetry.StartServiceSpan(context.Background(), "inventory", "save_count")
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "inventory.save_count", spans[0].Name())
}

func TestRecordError(t *testing.T) {
	sr := installRecorder(t)

	_, span := telemetry.StartSpan(context.Background(), "inventory.export")
	telemetry.RecordError(span, errors.New("no active snapshot"))
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "no active snapshot", spans[0].Status().Description)

	events := spans[0].Events()
	require.NotEmpty(t, events)
	assert.Equal(t, "exception", events[0].Name)
}

func TestRecordError_NilArguments(t *testing.T) {
	sr := installRecorder(t)

	telemetry.RecordError(nil, errors.New("ignored"))

	_, span := telemetry.StartSpan(context.Background(), "inventory.export")
	telemetry.RecordError(span, nil)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.NotEqual(t, codes.Error, spans[0].Status().Code)
}

func TestAddEvent(t *testing.T) {
	sr := installRecorder(t)

	_, span := telemetry.StartSpan(context.Background(), "inventory.save_count")
	telemetry.AddEvent(span, "count_line_recorded",
		"material_code", "MAT-2041",
		"location", "A-01-03",
		"quantity", 18,
	)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	events := spans[0].Events()
	require.Len(t, events, 1)
	assert.Equal(t, "count_line_recorded", events[0].Name)

	attrs := make(map[string]interface{}, len(events[0].Attributes))
	for _, attr := range events[0].Attributes {
		attrs[string(attr.Key)] = attr.Value.AsInterface()
	}
	assert.Equal(t, "MAT-2041", attrs["material_code"])
	assert.Equal(t, "A-01-03", attrs["location"])
	assert.Equal(t, int64(18), attrs["quantity"])
}

func TestAddEvent_SkipsMalformedPairs(t *testing.T) {
	sr := installRecorder(t)

	telemetry.AddEvent(nil, "ignored")

	_, span := telemetry.StartSpan(context.Background(), "inventory.save_count")
	telemetry.AddEvent(span, "partial",
		"kept", "yes",
		42, "dropped non-string key",
		"orphan",
	)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	events := spans[0].Events()
	require.Len(t, events, 1)
	require.Len(t, events[0].Attributes, 1)
	assert.Equal(t, "kept", string(events[0].Attributes[0].Key))
}

func TestNestedSpansShareTrace(t *testing.T) {
	sr := installRecorder(t)

	ctx, parent := telemetry.StartServiceSpan(context.Background(), "inventory", "upload_snapshot")
	_, child := telemetry.StartSpan(ctx, "excel.parse_workbook")
	child.End()
	parent.End()

	spans := sr.Ended()
	require.Len(t, spans, 2)

	byName := make(map[string]sdktrace.ReadOnlySpan, 2)
	for _, s := range spans {
		byName[s.Name()] = s
	}
	parentSpan, ok := byName["inventory.upload_snapshot"]
	require.True(t, ok)
	childSpan, ok := byName["excel.parse_workbook"]
	require.True(t, ok)

	assert.Equal(t, parentSpan.SpanContext().TraceID(), childSpan.SpanContext().TraceID())
	assert.Equal(t, parentSpan.SpanContext().SpanID(), childSpan.Parent().SpanID())
}

func TestAttributeCoercion(t *testing.T) {
	sr := installRecorder(t)

	_, span := telemetry.StartSpan(context.Background(), "inventory.list",
		telemetry.WithAttribute("text", "bodega"),
		telemetry.WithAttribute("count", 7),
		telemetry.WithAttribute("wide", int64(9000)),
		telemetry.WithAttribute("ratio", 0.25),
		telemetry.WithAttribute("active", true),
		telemetry.WithAttribute("fallback", []string{"a", "b"}),
	)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	attrs := attributeMap(spans[0])

	assert.Equal(t, "bodega", attrs["text"])
	assert.Equal(t, int64(7), attrs["count"])
	assert.Equal(t, int64(9000), attrs["wide"])
	assert.Equal(t, 0.25, attrs["ratio"])
	assert.Equal(t, true, attrs["active"])
	assert.Equal(t, "[a b]", attrs["fallback"])
}
