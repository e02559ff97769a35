package tracing

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/contrib/propagators/aws/xray"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
)

const instrumentationName = "github.com/Vasiliy82/ArchiScoper/helloworld/pkg/tracing"

// InitTracer настраивает OpenTelemetry Tracer Provider и возвращает функцию его остановки
func InitTracer(ctx context.Context, cfg TraceConfig, app AppInfo) (func(context.Context) error, error) {
	// Настройка экспортера
	exporter, err := newExporter(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init otlp exporter: %w", err)
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRate))),
		sdktrace.WithBatcher(exporter, sdktrace.WithExportTimeout(cfg.Timeout)),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(app.ServiceName),
			semconv.ServiceNamespace(app.DomainName),
			semconv.ServiceVersion(app.ServiceVersion),
			semconv.ServiceInstanceID(app.ServiceInstanceID),
			semconv.DeploymentEnvironmentName(app.Environment),
		)),
	}
	if cfg.XRay {
		// X-Ray принимает только trace ID с временной меткой в старших байтах
		opts = append(opts, sdktrace.WithIDGenerator(xray.NewIDGenerator()))
	}

	// Создание Tracer Provider
	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}

func newExporter(ctx context.Context, cfg TraceConfig) (*otlptrace.Exporter, error) {
	switch cfg.Protocol {
	case ProtocolGRPC, "":
		client := otlptracegrpc.NewClient(
			otlptracegrpc.WithEndpointURL(cfg.ExporterURL),
			otlptracegrpc.WithTimeout(cfg.Timeout),
		)
		return otlptrace.New(ctx, client)
	case ProtocolHTTP:
		endpoint, err := httpTracesURL(cfg.ExporterURL)
		if err != nil {
			return nil, err
		}
		client := otlptracehttp.NewClient(
			otlptracehttp.WithEndpointURL(endpoint),
			otlptracehttp.WithTimeout(cfg.Timeout),
		)
		return otlptrace.New(ctx, client)
	default:
		return nil, fmt.Errorf("unsupported otlp protocol %q", cfg.Protocol)
	}
}

// httpTracesURL дописывает стандартный путь /v1/traces, если в адресе коллектора пути нет
func httpTracesURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse exporter url: %w", err)
	}
	if strings.Trim(u.Path, "/") == "" {
		u.Path = "/v1/traces"
	}
	return u.String(), nil
}

// SetupPropagation устанавливает глобальный propagator: W3C Trace Context, Baggage и, опционально, X-Ray.
// Вызывается и при выключенном трейсинге, чтобы сервис пробрасывал чужой контекст дальше.
func SetupPropagation(withXRay bool) {
	propagators := []propagation.TextMapPropagator{
		propagation.TraceContext{},
		propagation.Baggage{},
	}
	if withXRay {
		propagators = append(propagators, xray.Propagator{})
	}
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagators...))
}

// WrapHTTPHandler оборачивает HTTP-хендлер в OpenTelemetry middleware
func WrapHTTPHandler(handler http.Handler, serviceName string) http.Handler {
	return otelhttp.NewHandler(handler, serviceName,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
		otelhttp.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/metrics"
		}),
	)
}

// WrapHTTPTransport оборачивает транспорт исходящих запросов: создает client span и
// кладет контекст трассировки в заголовки запроса
func WrapHTTPTransport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return otelhttp.NewTransport(base)
}
