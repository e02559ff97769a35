package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"
)

// Identity описывает сервис и его соседа. Задается в main и не меняется во время работы.
type Identity struct {
	Name                 string // имя сервиса и его простого маршрута: "hello" или "world"
	PeerName             string
	PeerURLEnv           string // переменная окружения с базовым URL соседа
	DefaultListenAddress string
	TracingByDefault     bool
}

var (
	Hello = Identity{
		Name:                 "hello",
		PeerName:             "world",
		PeerURLEnv:           "WORLD_SERVICE_URL",
		DefaultListenAddress: ":5000",
	}
	World = Identity{
		Name:                 "world",
		PeerName:             "hello",
		PeerURLEnv:           "HELLO_SERVICE_URL",
		DefaultListenAddress: ":5001",
		TracingByDefault:     true,
	}
)

type Config struct {
	Environment       string        `envconfig:"APP_ENV" default:"development"`
	DomainName        string        `envconfig:"APP_DOMAIN" default:"helloworld"`
	ServiceVersion    string        `envconfig:"SERVICE_VERSION" default:"1.0.0"`
	ServiceInstanceID string        `envconfig:"SERVICE_INSTANCE_ID"`
	ListenAddress     string        `envconfig:"LISTEN_ADDRESS"`
	PeerTimeout       time.Duration `envconfig:"PEER_TIMEOUT" default:"5s"`

	TracingEnabled   bool          `envconfig:"TRACING_ENABLED"`
	ExporterURL      string        `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"http://localhost:4317"`
	ExporterProtocol string        `envconfig:"OTEL_EXPORTER_OTLP_PROTOCOL" default:"grpc"`
	ExporterTimeout  time.Duration `envconfig:"OTEL_EXPORTER_OTLP_TIMEOUT" default:"10s"`
	SampleRate       float64       `envconfig:"OTEL_TRACES_SAMPLE_RATE" default:"1.0"`
	XRay             bool          `envconfig:"OTEL_XRAY" default:"true"`

	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	LogDevelopment bool   `envconfig:"LOG_DEV" default:"false"`

	// Заполняются из Identity
	Name        string `ignored:"true"`
	ServiceName string `ignored:"true"`
	PeerName    string `ignored:"true"`
	PeerURL     string `ignored:"true"`
}

// Load читает конфигурацию сервиса из переменных окружения
func Load(id Identity) (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load config: %w", err)
	}

	cfg.Name = id.Name
	cfg.ServiceName = id.Name + "-service"
	cfg.PeerName = id.PeerName
	cfg.PeerURL = strings.TrimRight(getEnv(id.PeerURLEnv, ""), "/")

	if cfg.ListenAddress == "" {
		cfg.ListenAddress = id.DefaultListenAddress
	}
	if _, set := os.LookupEnv("TRACING_ENABLED"); !set {
		cfg.TracingEnabled = id.TracingByDefault
	}
	if cfg.ServiceInstanceID == "" {
		cfg.ServiceInstanceID = generateInstanceID()
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs []error
	if c.PeerTimeout <= 0 {
		errs = append(errs, fmt.Errorf("PEER_TIMEOUT must be positive, got %s", c.PeerTimeout))
	}
	if c.SampleRate < 0 || c.SampleRate > 1 {
		errs = append(errs, fmt.Errorf("OTEL_TRACES_SAMPLE_RATE must be within [0, 1], got %v", c.SampleRate))
	}
	switch c.ExporterProtocol {
	case "grpc", "http/protobuf":
	default:
		errs = append(errs, fmt.Errorf("unsupported OTEL_EXPORTER_OTLP_PROTOCOL %q", c.ExporterProtocol))
	}
	return errors.Join(errs...)
}

func generateInstanceID() string {
	return uuid.NewString()
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
