package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the session daemon.
// Tracks state transitions, token refreshes, unlock attempts and local API latency.
type Metrics struct {
	StateTransitions *prometheus.CounterVec
	TokenRefreshes   *prometheus.CounterVec
	ForcedLogouts    prometheus.Counter
	UnlockAttempts   *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
}

// New registers all metrics with the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers all metrics with reg. Tests pass a fresh prometheus.NewRegistry().
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		StateTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "spendy_session_transitions_total",
			Help: "Total number of session state transitions",
		}, []string{"from", "to"}),
		TokenRefreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "spendy_token_refreshes_total",
			Help: "Total number of token refresh attempts by result",
		}, []string{"result"}),
		ForcedLogouts: factory.NewCounter(prometheus.CounterOpts{
			Name: "spendy_forced_logouts_total",
			Help: "Total number of logouts forced by an unauthorized response",
		}),
		UnlockAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "spendy_unlock_attempts_total",
			Help: "Total number of unlock attempts by method and result",
		}, []string{"method", "result"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "spendy_http_request_duration_seconds",
			Help:    "Duration of local API requests",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route", "status"}),
	}
}

// ObserveTransition records a state change.
func (m *Metrics) ObserveTransition(from, to string) {
	m.StateTransitions.WithLabelValues(from, to).Inc()
}

// ObserveRefresh records a refresh attempt result.
func (m *Metrics) ObserveRefresh(ok bool) {
	result := "failure"
	if ok {
		result = "success"
	}
	m.TokenRefreshes.WithLabelValues(result).Inc()
}

// ObserveUnlock records an unlock attempt.
func (m *Metrics) ObserveUnlock(method, result string) {
	m.UnlockAttempts.WithLabelValues(method, result).Inc()
}

// ObserveRequest records the duration of a local API request.
// Call with time.Now() at the start of the request.
func (m *Metrics) ObserveRequest(method, route, status string, start time.Time) {
	m.RequestDuration.WithLabelValues(method, route, status).Observe(time.Since(start).Seconds())
}
