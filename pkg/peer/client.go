package peer

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Vasiliy82/ArchiScoper/helloworld/pkg/tracing"
)

var (
	// ErrUnreachable - любая ошибка транспорта при вызове соседа: таймаут, DNS, отказ в соединении
	ErrUnreachable = errors.New("peer unreachable")
	// ErrNotConfigured - базовый URL соседа не задан
	ErrNotConfigured = errors.New("peer service URL is not configured")
)

// UnreachableError оборачивает причину сбоя вызова. Текст ошибки - текст причины,
// errors.Is(err, ErrUnreachable) истинно для любой причины.
type UnreachableError struct {
	Peer string
	Err  error
}

func (e *UnreachableError) Error() string {
	return e.Err.Error()
}

func (e *UnreachableError) Unwrap() error {
	return e.Err
}

func (e *UnreachableError) Is(target error) bool {
	return target == ErrUnreachable
}

type Config struct {
	Name      string // имя соседа, оно же его простой маршрут
	BaseURL   string
	Timeout   time.Duration
	Transport http.RoundTripper
}

// Client вызывает простой маршрут соседнего сервиса
type Client struct {
	name    string
	baseURL string
	resty   *resty.Client
}

// NewClient создает клиента соседнего сервиса. Повторов нет: один запрос на один вызов.
func NewClient(cfg Config, log *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetTransport(tracing.WrapHTTPTransport(cfg.Transport)).
		SetLogger(log.Named("resty").Sugar()).
		SetHeader("Accept", "text/plain")

	return &Client{
		name:    cfg.Name,
		baseURL: cfg.BaseURL,
		resty:   client,
	}
}

// Name возвращает имя соседнего сервиса
func (c *Client) Name() string {
	return c.name
}

// Fetch выполняет GET <base-url>/<name> и возвращает тело ответа как текст.
// Статус ответа соседа не проверяется: любой ответ считается успешным вызовом.
func (c *Client) Fetch(ctx context.Context) (string, error) {
	route := "/" + c.name

	var body string
	err := tracing.RunWithTrace(ctx, http.MethodGet+" "+route, tracing.LayerIntegration, tracing.SubLayerHTTP,
		func(ctx context.Context) error {
			if c.baseURL == "" {
				return &UnreachableError{Peer: c.name, Err: ErrNotConfigured}
			}

			resp, err := c.resty.R().SetContext(ctx).Get(route)
			if err != nil {
				return &UnreachableError{Peer: c.name, Err: err}
			}

			span := trace.SpanFromContext(ctx)
			span.SetAttributes(attribute.Int("peer.status_code", resp.StatusCode()))
			span.SetStatus(codes.Ok, "")
			body = string(resp.Body())
			return nil
		},
		tracing.PeerAttributes(c.name, c.baseURL+route)...,
	)
	if err != nil {
		return "", err
	}
	return body, nil
}
