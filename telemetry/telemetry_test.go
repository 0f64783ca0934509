package telemetry_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/katalvlaran/lanepath/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	l := telemetry.NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	l.WithEngine("w0").WithGeneration(42).LogFailure(context.Background(), "req-1", 7, 3, errors.New("boom"))
	out := buf.String()
	for _, want := range []string{`"engine":"w0"`, `"generation":42`, `"lane":7`, `"segment":3`, `"error":"boom"`} {
		assert.Contains(t, out, want)
	}
}

func TestParseLevel(t *testing.T) {
	lvl, err := telemetry.ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)

	_, err = telemetry.ParseLevel("loud")
	assert.Error(t, err)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := telemetry.NewMetrics(reg)

	m.ObserveSearch(telemetry.OutcomeReady, time.Millisecond, 12, 0)
	m.ObserveSearch(telemetry.OutcomeNoPath, time.Millisecond, 5, 3)
	m.SetQueueDepth("w0", 4)
	m.SetChunksInUse(9)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues(telemetry.OutcomeReady)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues(telemetry.OutcomeNoPath)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.FrontierDropped))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.QueueDepth.WithLabelValues("w0")))
	assert.Equal(t, 9.0, testutil.ToFloat64(m.ChunksInUse))

	var nilMetrics *telemetry.Metrics
	assert.NotPanics(t, func() {
		nilMetrics.ObserveSearch(telemetry.OutcomeReady, 0, 0, 0)
		nilMetrics.SetQueueDepth("x", 1)
		nilMetrics.SetChunksInUse(1)
	})
}

func TestTracer_SearchSpan(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	tr := telemetry.NewTracer(tp, true)

	_, span := tr.StartSearch(context.Background(), "w0", 9, "req")
	tr.EndSearch(span, telemetry.OutcomeNoPath, 0, 17, errors.New("no path"))

	ended := sr.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, telemetry.SpanSearch, ended[0].Name())
	assert.Equal(t, codes.Error, ended[0].Status().Code)

	attrs := map[string]any{}
	for _, kv := range ended[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	assert.Equal(t, int64(9), attrs["lanepath.generation"])
	assert.Equal(t, telemetry.OutcomeNoPath, attrs["lanepath.outcome"])
}

func TestTracer_Disabled(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	for _, tr := range []*telemetry.Tracer{nil, telemetry.NewTracer(tp, false)} {
		_, span := tr.StartSearch(context.Background(), "w0", 1, "req")
		tr.EndSearch(span, telemetry.OutcomeReady, 2, 2, nil)
	}
	assert.Empty(t, sr.Ended())
}
