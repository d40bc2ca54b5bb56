package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dtroode/spendy/internal/api/http/handler"
	"github.com/dtroode/spendy/internal/api/http/middleware"
	"github.com/dtroode/spendy/internal/category"
	"github.com/dtroode/spendy/internal/logger"
	"github.com/dtroode/spendy/internal/metrics"
	"github.com/dtroode/spendy/internal/model"
)

// Router wires the local intent API.
type Router struct {
	session        handler.SessionService
	source         model.TransactionSource
	archive        model.Storage
	classifier     *category.Classifier
	metrics        *metrics.Metrics
	gatherer       prometheus.Gatherer
	contextManager model.RequestContext
	logger         *logger.Logger
}

// New creates new Router instance. archive may be nil, in which case the statement
// routes are not mounted. metrics and gatherer may be nil to disable instrumentation.
func New(
	session handler.SessionService,
	source model.TransactionSource,
	archive model.Storage,
	classifier *category.Classifier,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
	contextManager model.RequestContext,
	logger *logger.Logger,
) *Router {
	return &Router{
		session:        session,
		source:         source,
		archive:        archive,
		classifier:     classifier,
		metrics:        m,
		gatherer:       gatherer,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Register builds the handler tree with request ID, logging and panic recovery.
func (r *Router) Register() http.Handler {
	mux := chi.NewRouter()

	mux.Use(
		middleware.NewRequestID(r.contextManager).Handle,
		middleware.NewLogging(r.logger, r.metrics, r.contextManager).Handle,
		chimw.Recoverer,
	)

	sessionHandler := handler.NewSession(r.session, r.logger)
	dashboardHandler := handler.NewDashboard(r.session, r.source, r.classifier, r.logger)

	mux.Route("/session", func(s chi.Router) {
		s.Get("/", sessionHandler.Get)
		s.Post("/login", sessionHandler.Login)
		s.Post("/register", sessionHandler.Register)
		s.Post("/pin", sessionHandler.SavePin)
		s.Post("/unlock", sessionHandler.Unlock)
		s.Post("/unlock/biometric", sessionHandler.UnlockBiometric)
		s.Post("/lock", sessionHandler.Lock)
		s.Post("/logout", sessionHandler.Logout)
	})

	mux.Get("/profile", sessionHandler.GetProfile)
	mux.Put("/profile", sessionHandler.UpdateProfile)

	mux.Get("/dashboard", dashboardHandler.Summary)
	mux.Get("/transactions", dashboardHandler.Transactions)

	if r.archive != nil {
		statementHandler := handler.NewStatement(r.session, r.archive, r.source, dashboardHandler, r.logger)
		mux.Route("/statements", func(s chi.Router) {
			s.Post("/import", statementHandler.Import)
			s.Post("/preview", statementHandler.Preview)
			s.Put("/*", statementHandler.Upload)
			s.Delete("/*", statementHandler.Delete)
		})
	}

	if r.gatherer != nil {
		mux.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{}))
	}

	return mux
}
