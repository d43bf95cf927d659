package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/marmos91/dittokv/internal/logger"
	"github.com/marmos91/dittokv/internal/telemetry"
	"github.com/marmos91/dittokv/pkg/api/handlers"
	"github.com/marmos91/dittokv/pkg/registry"
)

// NewRouter creates and configures the chi router with all middleware and routes.
//
// The router is configured with:
//   - Request ID middleware for request tracking
//   - Real IP extraction for proper client identification
//   - Request logging and tracing using the internal logger and tracer
//   - Panic recovery to prevent server crashes
//   - Request timeout to prevent hung requests
//
// Routes:
//   - GET /health - Liveness probe
//   - GET /health/ready - Readiness probe
//   - GET /health/stores - Detailed store health
//   - GET /health/resources - Resource usage
//   - GET /api/v1/stores - Registered stores
//   - GET /api/v1/stores/{alias} - A single store
//   - GET /api/v1/properties - Storage properties
//   - GET /metrics - Prometheus metrics (only when gatherer is non-nil)
func NewRouter(reg *registry.Registry, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	healthHandler := handlers.NewHealthHandler(reg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/", healthHandler.Liveness)
		r.Get("/ready", healthHandler.Readiness)
		r.Get("/stores", healthHandler.Stores)
		r.Get("/resources", healthHandler.Resources)
	})

	if reg != nil {
		storeHandler := handlers.NewStoreHandler(reg)

		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/stores", storeHandler.List)
			r.Get("/stores/{alias}", storeHandler.Get)
			r.Get("/properties", storeHandler.Properties)
		})
	}

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{
			EnableOpenMetrics: true,
		}))
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/health", http.StatusTemporaryRedirect)
	})

	return r
}

// requestLogger logs and traces every request.
//
// It logs:
//   - Request start (DEBUG level): method, path, remote addr
//   - Request completion (INFO level): method, path, status, duration
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := telemetry.StartSpan(r.Context(), "http.request",
			traceAttrs(r)...)
		defer span.End()

		lc := logger.NewLogContext(r.Method + " " + r.URL.Path)
		lc.RequestID = middleware.GetReqID(ctx)
		lc = lc.WithTrace(telemetry.TraceID(ctx), telemetry.SpanID(ctx))
		ctx = logger.WithContext(ctx, lc)

		logger.DebugCtx(ctx, "API request started",
			logger.KeyAddr, r.RemoteAddr,
		)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r.WithContext(ctx))

		telemetry.SetAttributes(ctx, attribute.Int("http.status_code", ww.Status()))

		logger.InfoCtx(ctx, "API request completed",
			logger.KeyMethod, r.Method,
			logger.KeyPath, r.URL.Path,
			logger.KeyStatus, ww.Status(),
			"bytes", ww.BytesWritten(),
			logger.DurationMs(lc.DurationMs()),
		)
	})
}

func traceAttrs(r *http.Request) []trace.SpanStartOption {
	return []trace.SpanStartOption{
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("http.target", r.URL.Path),
		),
	}
}
