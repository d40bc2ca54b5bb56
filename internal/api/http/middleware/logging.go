package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/dtroode/spendy/internal/logger"
	"github.com/dtroode/spendy/internal/metrics"
	"github.com/dtroode/spendy/internal/model"
)

// Logging logs every intent API request and records its duration.
type Logging struct {
	logger         *logger.Logger
	metrics        *metrics.Metrics
	contextManager model.RequestContext
}

// NewLogging creates a new Logging middleware. metrics may be nil.
func NewLogging(logger *logger.Logger, m *metrics.Metrics, contextManager model.RequestContext) *Logging {
	return &Logging{
		logger:         logger,
		metrics:        m,
		contextManager: contextManager,
	}
}

// Handle logs method, route, duration and status for each request.
func (l *Logging) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		requestID := ""
		if id, ok := l.contextManager.GetRequestIDFromContext(r.Context()); ok {
			requestID = id.String()
		}

		l.logger.Debug("HTTP request started",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", requestID)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := routePattern(r)
		duration := time.Since(start)

		l.logger.Info("HTTP request completed",
			"method", r.Method,
			"route", route,
			"duration_ms", duration.Milliseconds(),
			"status", status,
			"request_id", requestID)

		if status >= http.StatusInternalServerError {
			l.logger.Error("HTTP request failed",
				"method", r.Method,
				"route", route,
				"status", status,
				"request_id", requestID)
		}

		if l.metrics != nil {
			l.metrics.ObserveRequest(r.Method, route, strconv.Itoa(status), start)
		}
	})
}

// routePattern keeps metric labels bounded by using the matched chi pattern.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
