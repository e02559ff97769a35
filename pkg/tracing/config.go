package tracing

import "time"

// Протоколы OTLP-экспортера
const (
	ProtocolGRPC = "grpc"
	ProtocolHTTP = "http/protobuf"
)

type TraceConfig struct {
	ExporterURL string
	Protocol    string
	SampleRate  float64
	Timeout     time.Duration
	// XRay включает X-Ray-совместимые trace ID и заголовок X-Amzn-Trace-Id
	XRay bool
}

type AppInfo struct {
	Environment       string
	DomainName        string
	ServiceName       string
	ServiceVersion    string
	ServiceInstanceID string
}
