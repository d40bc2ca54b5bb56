package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	reqctx "github.com/dtroode/spendy/internal/api/http/context"
	"github.com/dtroode/spendy/internal/api/http/router"
	httpServer "github.com/dtroode/spendy/internal/api/http/server"
	"github.com/dtroode/spendy/internal/biometric"
	"github.com/dtroode/spendy/internal/category"
	"github.com/dtroode/spendy/internal/config"
	"github.com/dtroode/spendy/internal/events"
	"github.com/dtroode/spendy/internal/events/amqp"
	"github.com/dtroode/spendy/internal/expense"
	"github.com/dtroode/spendy/internal/identity"
	"github.com/dtroode/spendy/internal/logger"
	"github.com/dtroode/spendy/internal/metrics"
	"github.com/dtroode/spendy/internal/model"
	"github.com/dtroode/spendy/internal/securestore/file"
	"github.com/dtroode/spendy/internal/securestore/memory"
	"github.com/dtroode/spendy/internal/securestore/postgres"
	"github.com/dtroode/spendy/internal/securestore/redis"
	"github.com/dtroode/spendy/internal/securestore/sealed"
	"github.com/dtroode/spendy/internal/server"
	"github.com/dtroode/spendy/internal/service"
	storage "github.com/dtroode/spendy/internal/storage/minio"
	"github.com/dtroode/spendy/internal/token"
	"github.com/dtroode/spendy/internal/transport"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	res := newResources(logger)
	defer res.closeAll()
	// os.Exit skips deferred calls, so late failures release resources first.
	fatal := func(msg string, args ...any) {
		res.closeAll()
		logger.Fatal(msg, args...)
	}

	store, closer, err := newSecretStore(ctx, cfg)
	if err != nil {
		fatal("failed to initialize secret store", "error", err, "backend", cfg.Secrets.Backend)
	}
	res.add(closer)

	m := metrics.New()

	bearer := transport.NewBearer(http.DefaultTransport, logger.WithComponent("bearer"))
	publicClient := &http.Client{Timeout: cfg.Identity.Timeout}
	authorizedClient := &http.Client{Timeout: cfg.Identity.Timeout, Transport: bearer}
	identityClient := identity.NewClient(cfg.Identity.BaseURL, publicClient, authorizedClient, logger.WithComponent("identity"))

	tokenService := service.NewTokenService(
		store,
		identityClient,
		token.NewInspector(),
		cfg.Secrets.Service,
		cfg.Session.RefreshSkew,
		logger.WithComponent("tokens"),
		service.WithTokenMetrics(m),
	)

	publisher, closer := newEventPublisher(cfg, logger)
	res.add(closer)

	var evaluator model.Biometric = biometric.Unavailable{}
	if cfg.Biometric.Command != "" {
		evaluator = biometric.NewCommand(cfg.Biometric.Command, cfg.Biometric.Args, logger.WithComponent("biometric"))
	}

	session := service.NewSession(
		tokenService,
		identityClient,
		store,
		cfg.Secrets.Service,
		logger.WithComponent("session"),
		service.WithBiometric(evaluator),
		service.WithEventPublisher(publisher),
		service.WithSessionMetrics(m),
		service.WithProfileFetchTimeout(cfg.Session.ProfileFetch),
		service.WithPinLength(cfg.Session.PinLength),
	)
	bearer.Bind(tokenService, session.ForceLogout)

	logger.Info("session restored", "state", session.Start(ctx).String())

	expenseClient := expense.NewClient(
		cfg.Expenses.BaseURL,
		&http.Client{Timeout: cfg.Expenses.Timeout, Transport: bearer},
		logger.WithComponent("expenses"),
	)

	classifier, err := category.Load(cfg.CategoryRulesFile)
	if err != nil {
		fatal("failed to load category rules", "error", err, "file", cfg.CategoryRulesFile)
	}

	var archive model.Storage
	if cfg.Storage.Endpoint != "" {
		a, err := storage.Connect(ctx, cfg.Storage.Endpoint, cfg.Storage.AccessKey, cfg.Storage.SecretKey, cfg.Storage.Bucket, cfg.Storage.UseSSL)
		if err != nil {
			fatal("failed to initialize statement archive", "error", err)
		}
		archive = a
	}

	r := router.New(session, expenseClient, archive, classifier, m, prometheus.DefaultGatherer, reqctx.NewManager(), logger)
	apiServer := httpServer.NewHTTPServer(r.Register(), cfg.HTTP.Address)

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener(cfg.HTTP.AllowRemote)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(apiServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", apiServer.Address())
	}

	wg.Wait()
	session.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}

// newSecretStore opens the configured backend and seals it when a key is set.
func newSecretStore(ctx context.Context, cfg *config.Config) (model.SecretStore, io.Closer, error) {
	var (
		store  model.SecretStore
		closer io.Closer
	)

	switch cfg.Secrets.Backend {
	case "postgres":
		db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, nil, err
		}
		store, closer = postgres.NewSecretRepository(db), db
	case "redis":
		client, err := redis.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, nil, err
		}
		store, closer = redis.NewStore(client, cfg.Redis.KeyPrefix), client
	case "memory":
		store = memory.NewStore()
	default:
		path := cfg.Secrets.FilePath
		if path == "" {
			p, err := file.DefaultPath()
			if err != nil {
				return nil, nil, err
			}
			path = p
		}
		s, err := file.Open(path)
		if err != nil {
			return nil, nil, err
		}
		store = s
	}

	if cfg.Secrets.SealKey == "" {
		return store, closer, nil
	}

	key, err := sealed.ParseKey(cfg.Secrets.SealKey)
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, nil, fmt.Errorf("invalid seal key: %w", err)
	}
	return sealed.Wrap(store, key), closer, nil
}

func newEventPublisher(cfg *config.Config, lg *logger.Logger) (model.EventPublisher, io.Closer) {
	if cfg.AMQP.URL == "" {
		return events.NewNoop(lg.WithComponent("events")), nil
	}

	p, err := amqp.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue, lg.WithComponent("events"))
	if err != nil {
		lg.Warn("session events disabled, broker unavailable", "error", err)
		return events.NewNoop(lg.WithComponent("events")), nil
	}
	return p, p
}
