package telemetry_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/memo/internal/adapters/telemetry"
	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
	"go.trai.ch/memo/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func setupRecorder() (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	return sr, tp
}

func TestOTelTracer_Attributes(t *testing.T) {
	t.Parallel()

	sr, tp := setupRecorder()
	tracer := telemetry.NewOTelTracerWithProvider("test", tp)

	_, span := tracer.Start(context.Background(), "memo.lookup", ports.WithAttribute("memo.key", domain.Key("abc")))
	span.SetAttribute("memo.outcome", "hit")
	span.SetAttribute("memo.records", 3)
	span.SetAttribute("memo.cached", true)
	span.End()

	ended := sr.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "memo.lookup", ended[0].Name())
	assert.ElementsMatch(t, []attribute.KeyValue{
		attribute.String("memo.key", "abc"),
		attribute.String("memo.outcome", "hit"),
		attribute.Int("memo.records", 3),
		attribute.Bool("memo.cached", true),
	}, ended[0].Attributes())
}

func TestOTelTracer_RecordError(t *testing.T) {
	t.Parallel()

	sr, tp := setupRecorder()
	tracer := telemetry.NewOTelTracerWithProvider("test", tp)

	_, span := tracer.Start(context.Background(), "memo.store")
	span.RecordError(nil)
	span.RecordError(errors.New("disk full"))
	span.End()

	ended := sr.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "disk full", ended[0].Status().Description)
}

func TestNoOpTracer(t *testing.T) {
	t.Parallel()

	tracer := telemetry.NewNoOpTracer()
	ctx := context.Background()

	newCtx, span := tracer.Start(ctx, "test-span", ports.WithAttribute("k", "v"))
	assert.Equal(t, ctx, newCtx)
	require.NotNil(t, span)

	span.SetAttribute("key", "value")
	span.RecordError(errors.New("ignored"))
	span.End()
}

func TestBridge_OnEnd(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	var logged string
	mockLogger.EXPECT().Debug(gomock.Any()).Do(func(msg string) {
		logged = msg
	}).Times(1)

	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewBridge(mockLogger)))
	tracer := telemetry.NewOTelTracerWithProvider("test", tp)

	_, span := tracer.Start(context.Background(), "memo.lookup")
	span.SetAttribute("memo.outcome", "miss")
	span.RecordError(errors.New("entry not found"))
	span.End()

	assert.True(t, strings.HasPrefix(logged, "memo.lookup "), logged)
	assert.Contains(t, logged, "memo.outcome=miss")
	assert.Contains(t, logged, "error=entry not found")
}

func TestBridge_NilLogger(t *testing.T) {
	t.Parallel()

	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewBridge(nil)))
	_, span := tp.Tracer("test").Start(context.Background(), "span")
	assert.NotPanics(t, func() { span.End() })
}
