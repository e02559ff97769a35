package tracing

import (
	"context"
	"fmt"
	"runtime"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer берется из глобального провайдера при каждом вызове, чтобы подхватить
// провайдер, установленный после старта пакета
func tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// StartPresentation открывает span входящего запроса
func StartPresentation(ctx context.Context, operation string, subLayer SubLayer, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return start(ctx, operation, LayerPresentation, subLayer, opts...)
}

// StartApplication открывает span бизнес-операции
func StartApplication(ctx context.Context, operation string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return start(ctx, operation, LayerApplication, SubLayerUseCase, opts...)
}

// RunWithTrace выполняет fn внутри span'а и записывает ошибку, если она возникла.
// Для слоя интеграции span открывается с видом SpanKindClient.
func RunWithTrace(ctx context.Context, operation string, layer Layer, subLayer SubLayer, fn func(ctx context.Context) error, attrs ...attribute.KeyValue) error {
	if err := validateLayerSubLayer(layer, subLayer); err != nil {
		return fmt.Errorf("tracing error: %w", err)
	}

	ctx, span := newSpan(ctx, operation, layer, subLayer, callerFunctionName(2))
	defer span.End()
	span.SetAttributes(attrs...)

	err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func start(ctx context.Context, operation string, layer Layer, subLayer SubLayer, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	ctx, span := newSpan(ctx, operation, layer, subLayer, callerFunctionName(3), opts...)
	if err := validateLayerSubLayer(layer, subLayer); err != nil {
		span.SetAttributes(attribute.String("tracing.error", err.Error()))
	}
	return ctx, span
}

func newSpan(ctx context.Context, operation string, layer Layer, subLayer SubLayer, function string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if layer == LayerIntegration {
		opts = append(opts, trace.WithSpanKind(trace.SpanKindClient))
	}
	ctx, span := tracer().Start(ctx, generateSpanName(operation, layer, subLayer), opts...)
	span.SetAttributes(
		attribute.String("layer", string(layer)),
		attribute.String("subLayer", string(subLayer)),
		attribute.String("function.name", function),
	)
	return ctx, span
}

// callerFunctionName возвращает имя функции на skip уровней выше
func callerFunctionName(skip int) string {
	pcs := make([]uintptr, 1)
	if runtime.Callers(skip+1, pcs) == 0 {
		return "unknown"
	}
	frame, _ := runtime.CallersFrames(pcs).Next()
	if frame.Function == "" {
		return "unknown"
	}
	return frame.Function
}

// generateSpanName формирует имя спана по шаблону
func generateSpanName(operation string, layer Layer, subLayer SubLayer) string {
	switch {
	case layer == LayerApplication:
		return fmt.Sprintf("Business %s", operation)
	case layer == LayerIntegration && subLayer == SubLayerHTTP:
		return fmt.Sprintf("Peer %s", operation)
	}
	return operation
}
