package handler

import (
	"io"
	"net/http"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Vasiliy82/ArchiScoper/helloworld/pkg/app"
	"github.com/Vasiliy82/ArchiScoper/helloworld/pkg/greeting"
	"github.com/Vasiliy82/ArchiScoper/helloworld/pkg/logging"
	"github.com/Vasiliy82/ArchiScoper/helloworld/pkg/metrics"
	"github.com/Vasiliy82/ArchiScoper/helloworld/pkg/tracing"
)

type GreetingHandler struct {
	greeter *greeting.Service
	log     *zap.Logger
}

func NewGreetingHandler(greeter *greeting.Service, log *zap.Logger) *GreetingHandler {
	return &GreetingHandler{greeter: greeter, log: log}
}

// NewRouter создает роутер world-сервиса: /, /world, /test и /metrics
func NewRouter(d app.Deps) http.Handler {
	h := NewGreetingHandler(d.Greeter, d.Logger)

	observed := observe(d.Metrics, d.Logger)

	router := mux.NewRouter()
	router.Use(observed)
	// middleware mux не вызывается для несовпавших маршрутов
	router.NotFoundHandler = observed(http.NotFoundHandler())
	router.MethodNotAllowedHandler = observed(http.HandlerFunc(methodNotAllowed))
	router.HandleFunc("/", h.Index).Methods(http.MethodGet)
	router.HandleFunc("/"+d.Greeter.Name(), h.Simple).Methods(http.MethodGet)
	router.HandleFunc("/test", h.Test).Methods(http.MethodGet)
	router.Handle("/metrics", d.Metrics.Handler()).Methods(http.MethodGet)
	return router
}

// Index отдает приветствие главной страницы
func (h *GreetingHandler) Index(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.StartPresentation(tracing.ExtractHTTP(r.Context(), r.Header), "HandleIndex", tracing.SubLayerHTTP)
	defer span.End()

	h.write(w, r, span, http.StatusOK, h.greeter.Welcome())
}

// Simple отдает литерал с именем сервиса
func (h *GreetingHandler) Simple(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.StartPresentation(tracing.ExtractHTTP(r.Context(), r.Header), "HandleSimple", tracing.SubLayerHTTP)
	defer span.End()

	h.write(w, r, span, http.StatusOK, h.greeter.Simple(ctx))
}

// Test вызывает соседа и отдает составной ответ или текст ошибки со статусом 500
func (h *GreetingHandler) Test(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.StartPresentation(tracing.ExtractHTTP(r.Context(), r.Header), "HandleTest", tracing.SubLayerHTTP)
	defer span.End()

	reply := h.greeter.Test(ctx)
	if reply.Status != http.StatusOK {
		span.SetStatus(codes.Error, reply.Body)
		span.SetAttributes(attribute.String("error", reply.Body))
	}
	h.write(w, r, span, reply.Status, reply.Body)
}

func (h *GreetingHandler) write(w http.ResponseWriter, r *http.Request, span trace.Span, status int, body string) {
	if status == http.StatusOK {
		span.SetStatus(codes.Ok, "success")
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)

	if _, err := io.WriteString(w, body); err != nil {
		errMsg := "failed to write response"
		span.SetStatus(codes.Error, errMsg)
		span.SetAttributes(
			attribute.String("error", errMsg),
			attribute.String("write_error", err.Error()),
		)
		logging.WithRequest(r.Context(), h.log).Warn(errMsg, zap.Error(err))
	}
}

// observe пишет access-лог и метрики по шаблону маршрута
func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}

func observe(collector *metrics.Collector, log *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := "unmatched"
			if current := mux.CurrentRoute(r); current != nil {
				if tpl, err := current.GetPathTemplate(); err == nil {
					route = tpl
				}
			}

			m := httpsnoop.CaptureMetrics(next, w, r)
			collector.ObserveRequest(r.Method, route, m.Code, m.Duration)
			logging.WithRequest(r.Context(), log).Info("request handled",
				zap.String("method", r.Method),
				zap.String("route", route),
				zap.Int("status", m.Code),
				zap.Duration("duration", m.Duration),
			)
		})
	}
}
