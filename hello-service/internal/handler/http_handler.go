package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Vasiliy82/ArchiScoper/helloworld/pkg/app"
	"github.com/Vasiliy82/ArchiScoper/helloworld/pkg/greeting"
	"github.com/Vasiliy82/ArchiScoper/helloworld/pkg/logging"
	"github.com/Vasiliy82/ArchiScoper/helloworld/pkg/metrics"
)

type GreetingHandler struct {
	greeter *greeting.Service
}

func NewGreetingHandler(greeter *greeting.Service) *GreetingHandler {
	return &GreetingHandler{greeter: greeter}
}

// NewRouter создает роутер hello-сервиса: /, /hello, /test и /metrics
func NewRouter(d app.Deps) http.Handler {
	h := NewGreetingHandler(d.Greeter)

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery(), observe(d.Metrics, d.Logger))
	router.GET("/", h.Index)
	router.GET("/"+d.Greeter.Name(), h.Simple)
	router.GET("/test", h.Test)
	router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	return router
}

func (h *GreetingHandler) Index(c *gin.Context) {
	c.String(http.StatusOK, h.greeter.Welcome())
}

func (h *GreetingHandler) Simple(c *gin.Context) {
	c.String(http.StatusOK, h.greeter.Simple(c.Request.Context()))
}

func (h *GreetingHandler) Test(c *gin.Context) {
	reply := h.greeter.Test(c.Request.Context())
	c.String(reply.Status, reply.Body)
}

// observe пишет access-лог и метрики по шаблону маршрута
func observe(collector *metrics.Collector, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		duration := time.Since(start)
		status := c.Writer.Status()

		collector.ObserveRequest(c.Request.Method, route, status, duration)
		logging.WithRequest(c.Request.Context(), log).Info("request handled",
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("duration", duration),
		)
	}
}
