package restapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/swap-explorer/internal/logger"
)

// RouterConfig holds the non-handler parts of the router.
type RouterConfig struct {
	CORSOrigins []string
	Health      http.Handler // serves /health, /ready and /live
	Metrics     http.Handler // serves /metrics
	Tracer      trace.Tracer // nil uses the global provider
}

// NewRouter builds the gin engine with all API routes.
func NewRouter(h *Handler, cfg RouterConfig, log logger.LoggerInterface) *gin.Engine {
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSOrigins) == 0 || (len(cfg.CORSOrigins) == 1 && cfg.CORSOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	router.Use(cors.New(corsConfig))

	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.Tracer("restapi")
	}
	router.Use(requestTracer(tracer))
	router.Use(requestLogger(log))
	router.Use(gin.Recovery())

	v1 := router.Group("/api/v1")
	{
		v1.GET("/routes", h.GetRoutes)
		v1.GET("/tokens", h.FindTokens)
		v1.GET("/tokens/:mint", h.GetToken)
		v1.POST("/tokens/refresh", h.RefreshTokens)
	}

	if cfg.Health != nil {
		router.GET("/health", gin.WrapH(cfg.Health))
		router.GET("/ready", gin.WrapH(cfg.Health))
		router.GET("/live", gin.WrapH(cfg.Health))
	}
	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics))
	}

	return router
}

func requestLogger(log logger.LoggerInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
	}
}

// requestTracer opens a server span per request so handlers and error
// bodies carry the trace id.
func requestTracer(tracer trace.Tracer) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		ctx, span := tracer.Start(c.Request.Context(), c.Request.Method+" "+route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Request.Method),
				attribute.String("http.route", route),
			),
		)
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.status_code", status))
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}
