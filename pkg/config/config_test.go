package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Run("hello", func(t *testing.T) {
		cfg, err := Load(Hello)
		require.NoError(t, err)

		assert.Equal(t, "hello", cfg.Name)
		assert.Equal(t, "hello-service", cfg.ServiceName)
		assert.Equal(t, "world", cfg.PeerName)
		assert.Empty(t, cfg.PeerURL)
		assert.Equal(t, ":5000", cfg.ListenAddress)
		assert.Equal(t, 5*time.Second, cfg.PeerTimeout)
		assert.False(t, cfg.TracingEnabled)
		assert.Equal(t, "http://localhost:4317", cfg.ExporterURL)
		assert.Equal(t, "grpc", cfg.ExporterProtocol)
		assert.Equal(t, 1.0, cfg.SampleRate)
		assert.True(t, cfg.XRay)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.NotEmpty(t, cfg.ServiceInstanceID)
	})

	t.Run("world", func(t *testing.T) {
		cfg, err := Load(World)
		require.NoError(t, err)

		assert.Equal(t, "world-service", cfg.ServiceName)
		assert.Equal(t, "hello", cfg.PeerName)
		assert.Equal(t, ":5001", cfg.ListenAddress)
		assert.True(t, cfg.TracingEnabled)
	})
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("WORLD_SERVICE_URL", "http://localhost:5001/")
	t.Setenv("HELLO_SERVICE_URL", "http://should-not-be-used")
	t.Setenv("LISTEN_ADDRESS", "127.0.0.1:9000")
	t.Setenv("PEER_TIMEOUT", "750ms")
	t.Setenv("TRACING_ENABLED", "true")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://collector:4318")
	t.Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", "http/protobuf")
	t.Setenv("OTEL_TRACES_SAMPLE_RATE", "0.25")
	t.Setenv("SERVICE_INSTANCE_ID", "hello-1")

	cfg, err := Load(Hello)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5001", cfg.PeerURL)
	assert.Equal(t, "127.0.0.1:9000", cfg.ListenAddress)
	assert.Equal(t, 750*time.Millisecond, cfg.PeerTimeout)
	assert.True(t, cfg.TracingEnabled)
	assert.Equal(t, "http://collector:4318", cfg.ExporterURL)
	assert.Equal(t, "http/protobuf", cfg.ExporterProtocol)
	assert.Equal(t, 0.25, cfg.SampleRate)
	assert.Equal(t, "hello-1", cfg.ServiceInstanceID)
}

func TestTracingCanBeDisabledForWorld(t *testing.T) {
	t.Setenv("TRACING_ENABLED", "false")

	cfg, err := Load(World)
	require.NoError(t, err)
	assert.False(t, cfg.TracingEnabled)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		want  string
	}{
		{"unparsable duration", "PEER_TIMEOUT", "soon", "failed to load config"},
		{"zero timeout", "PEER_TIMEOUT", "0s", "PEER_TIMEOUT must be positive"},
		{"sample rate above one", "OTEL_TRACES_SAMPLE_RATE", "1.5", "OTEL_TRACES_SAMPLE_RATE must be within [0, 1]"},
		{"unknown protocol", "OTEL_EXPORTER_OTLP_PROTOCOL", "zipkin", `unsupported OTEL_EXPORTER_OTLP_PROTOCOL "zipkin"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load(World)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
