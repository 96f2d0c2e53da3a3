package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	apihttp "github.com/GriffinCanCode/NexusOS/backend/internal/api/http"
	"github.com/GriffinCanCode/NexusOS/backend/internal/api/middleware"
	"github.com/GriffinCanCode/NexusOS/backend/internal/api/ws"
	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/catalog"
	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/command"
	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/intent"
	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/window"
	"github.com/GriffinCanCode/NexusOS/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/NexusOS/backend/internal/infrastructure/events"
	"github.com/GriffinCanCode/NexusOS/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/NexusOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/NexusOS/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/NexusOS/backend/internal/infrastructure/store"
	"github.com/GriffinCanCode/NexusOS/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/NexusOS/backend/internal/providers/translator"
)

// gzipMinSize is the smallest response body worth compressing
const gzipMinSize = 1024

// Server wraps the HTTP server and dependencies
type Server struct {
	config  *config.Config
	logger  *logging.Logger
	metrics *monitoring.Metrics
	tracer  *tracing.Tracer
	events  *events.Broadcaster
	store   *store.Store
	kernel  *window.Manager
	stream  *ws.Handler
	handler http.Handler
}

// NewServer creates a new server instance
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		OutputPaths: []string{"stdout"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return newServer(ctx, cfg, logger)
}

func newServer(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*Server, error) {
	logger.Info("Initializing Nexus OS server",
		zap.String("addr", cfg.Server.Addr()),
		zap.String("store", cfg.Store.Driver),
		zap.String("translator", cfg.Translator.Mode),
	)

	metrics := monitoring.NewMetrics()

	nodes, err := store.Open(ctx, store.Config{
		Driver: cfg.Store.Driver,
		DSN:    cfg.Store.DSN,
	}, logger.Component("store"))
	if err != nil {
		return nil, err
	}
	if cfg.Store.Migrate {
		if err := nodes.Migrate(ctx); err != nil {
			nodes.Close()
			return nil, err
		}
	}

	apps := catalog.New()
	if cfg.Catalog.Path != "" {
		if apps, err = catalog.Load(cfg.Catalog.Path); err != nil {
			nodes.Close()
			return nil, err
		}
		logger.Info("Loaded app catalog",
			zap.String("path", cfg.Catalog.Path),
			zap.Int("apps", len(apps.List())),
		)
	}

	bus := events.NewBroadcaster()
	kernel := window.NewManager(logger.Component("kernel")).
		WithMetrics(metrics).
		WithPublisher(bus)
	dispatcher := intent.NewDispatcher(kernel, apps, logger.Component("intent")).WithMetrics(metrics)

	tr, err := newTranslator(cfg.Translator, metrics, logger)
	if err != nil {
		nodes.Close()
		return nil, err
	}
	tracer := tracing.New("nexusd", logger.Component("trace"))
	commands := command.NewService(tr, dispatcher, logger.Component("command")).WithTracer(tracer)

	handlers := apihttp.NewHandlers(apihttp.Deps{
		Kernel:     kernel,
		Catalog:    apps,
		Dispatcher: dispatcher,
		Commands:   commands,
		Store:      nodes,
		Metrics:    metrics,
		Logger:     logger.Component("http"),
	})
	stream := ws.NewHandler(ws.Deps{
		Kernel:     kernel,
		Titles:     apps,
		Dispatcher: dispatcher,
		Commands:   commands,
		Events:     bus,
		Metrics:    metrics,
		Logger:     logger.Component("ws"),
	})

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(middleware.AccessLog(logger.Component("access")))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig().WithOrigins(cfg.Server.AllowOrigins)))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	handlers.Register(router)
	router.GET("/stream", stream.HandleConnection)

	handler, err := compress(router, cfg.Server.Compress)
	if err != nil {
		tracer.Close()
		nodes.Close()
		return nil, err
	}

	logger.Info("Server initialized successfully")

	return &Server{
		config:  cfg,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
		events:  bus,
		store:   nodes,
		kernel:  kernel,
		stream:  stream,
		handler: handler,
	}, nil
}

// newTranslator builds the configured translator. The remote one is
// guarded by a circuit breaker that logs its state changes.
func newTranslator(cfg config.TranslatorConfig, metrics *monitoring.Metrics, logger *logging.Logger) (translator.Translator, error) {
	log := logger.Component("translator")

	var breaker *resilience.Breaker
	if cfg.Mode == translator.ModeRemote {
		threshold := cfg.BreakerThreshold
		breaker = resilience.New("translator", resilience.Settings{
			Timeout: cfg.BreakerTimeout,
			ReadyToTrip: func(counts resilience.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			OnStateChange: func(name string, from, to resilience.State) {
				log.Warn("Circuit breaker state changed",
					zap.String("breaker", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()),
				)
			},
		})
	}

	return translator.New(translator.Options{
		Mode: cfg.Mode,
		Remote: translator.RemoteConfig{
			URL:     cfg.URL,
			Timeout: cfg.Timeout,
			Retries: cfg.Retries,
		},
		Fallback: cfg.Fallback,
		Breaker:  breaker,
		Metrics:  metrics,
	}, log)
}

// compress gzips responses of router, except the WebSocket stream which
// must reach gin unwrapped so the upgrade can hijack the connection.
func compress(router http.Handler, enabled bool) (http.Handler, error) {
	if !enabled {
		return router, nil
	}

	wrap, err := gzhttp.NewWrapper(gzhttp.MinSize(gzipMinSize))
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip wrapper: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/stream", router)
	mux.Handle("/", wrap(router))
	return mux, nil
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Kernel returns the window manager served by this server
func (s *Server) Kernel() *window.Manager {
	return s.kernel
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully within
// the configured shutdown timeout
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Server.Addr(),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
		defer cancel()

		err := srv.Shutdown(shutdownCtx)

		// Hijacked stream connections are not tracked by Shutdown; closing
		// the broadcaster ends every session.
		s.events.Close()
		done := make(chan struct{})
		go func() {
			s.stream.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-shutdownCtx.Done():
			s.logger.Warn("Stream connections still open after shutdown timeout")
		}
		return err
	})

	return g.Wait()
}

// Close flushes pending spans, releases the store and flushes the logger
func (s *Server) Close() error {
	s.tracer.Close()

	var errs []error
	if err := s.store.Close(); err != nil {
		s.logger.Error("Failed to close store", zap.Error(err))
		errs = append(errs, fmt.Errorf("failed to close store: %w", err))
	}
	_ = s.logger.Sync()
	return errors.Join(errs...)
}
