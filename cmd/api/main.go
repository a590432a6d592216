package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/casegear/configurator/internal/badge"
	"github.com/casegear/configurator/internal/cartclient"
	"github.com/casegear/configurator/internal/catalog"
	"github.com/casegear/configurator/internal/checkout"
	"github.com/casegear/configurator/internal/config"
	"github.com/casegear/configurator/internal/configurator"
	"github.com/casegear/configurator/internal/events"
	"github.com/casegear/configurator/internal/health"
	"github.com/casegear/configurator/internal/obs"
	"github.com/casegear/configurator/internal/security"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel).With().Str("env", cfg.AppEnv).Logger()

	if cfg.MetricsEnabled {
		obs.MustRegisterDomainMetrics(cfg.MetricsNamespace, nil)
	}

	loader := catalog.NewLoader(logger.With().Str("component", "catalog").Logger())
	index, err := loader.LoadFile(cfg.CatalogPath)
	if err != nil {
		// The configurator degrades to empty brand/model lists rather than
		// refusing to start.
		logger.Error().Err(err).Str("path", cfg.CatalogPath).Msg("catalog load failed, serving empty catalog")
	} else {
		logger.Info().
			Int("brands", len(index.Brands())).
			Int("standalone", len(index.StandaloneItems())).
			Msg("catalog loaded")
	}

	registry := &configurator.Registry{
		Catalog:  index,
		MaxSlots: cfg.MaxSlots,
		TTL:      cfg.SessionTTL,
		Log:      logger.With().Str("component", "sessions").Logger(),
	}
	if cfg.MetricsEnabled {
		obs.RegisterSessionGauge(cfg.MetricsNamespace, nil, registry.Count)
	}

	bus := &events.Bus{}
	cartBadge := &badge.Badge{}
	bus.Subscribe(cartBadge)
	bus.Subscribe(eventLogger{logger.With().Str("component", "events").Logger()})

	cartClient := &cartclient.HTTPClient{
		BaseURL: cfg.CartServiceBaseURL,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}

	submitter := &checkout.Submitter{
		Client:    cartClient,
		Events:    bus,
		NoticeTTL: cfg.NoticeTTL,
		Log:       logger.With().Str("component", "checkout").Logger(),
	}
	registry.OnEvict = submitter.Forget

	catalogHandler := &catalog.Handler{Index: index}
	sessionHandler := &configurator.Handler{Registry: registry}
	checkoutHandler := &checkout.Handler{Sessions: registry, Submitter: submitter}
	healthHandler := health.Handler{Checker: cartChecker{client: cartClient}}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	if cfg.MetricsEnabled {
		httpMetrics := obs.NewHTTPMetrics(cfg.MetricsNamespace, nil, nil)
		r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	}
	r.Use(security.Headers{Enable: true}.Middleware)
	r.Use(security.BodyLimit{Max: cfg.MaxBodyBytes}.Middleware)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSAllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", healthHandler.Live)
	r.Get("/readyz", healthHandler.Ready)
	if cfg.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/brands", catalogHandler.Brands)
		r.Get("/brands/{handle}/models", catalogHandler.Models)
		r.Get("/standalone", catalogHandler.Standalone)
		r.Get("/cart-badge", cartBadge.Handler)

		r.Post("/sessions", sessionHandler.CreateSession)
		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", sessionHandler.GetSession)
			r.Delete("/", sessionHandler.DeleteSession)
			r.Get("/summary", sessionHandler.Summary)
			r.Post("/reset", sessionHandler.Reset)

			r.Post("/slots", sessionHandler.AddSlot)
			r.Delete("/slots/{slotID}", sessionHandler.RemoveSlot)
			r.Post("/slots/{slotID}/brand", sessionHandler.ChooseBrand)
			r.Post("/slots/{slotID}/model", sessionHandler.ChooseModel)

			r.Post("/lines", sessionHandler.AddLine)
			r.Patch("/lines/{variantID}", sessionHandler.ChangeQuantity)
			r.Delete("/lines/{variantID}", sessionHandler.RemoveLine)

			r.Post("/standalone/{itemID}", sessionHandler.ToggleStandalone)

			r.Post("/submit", checkoutHandler.Submit)
			r.Get("/submit", checkoutHandler.State)
		})
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry.StartSweeper(ctx, time.Minute)

	server := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown http server")
	}
}

// cartChecker adapts the cart client to the readiness probe.
type cartChecker struct {
	client cartclient.Client
}

func (c cartChecker) PingCartService(ctx context.Context, timeout time.Duration) error {
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	_, err := c.client.GetCart(probeCtx)
	return err
}

// eventLogger mirrors emitted events into the structured log.
type eventLogger struct {
	log zerolog.Logger
}

func (l eventLogger) Notify(_ context.Context, ev events.Event) error {
	l.log.Info().Str("topic", ev.Topic).Fields(ev.Payload).Msg("event")
	return nil
}
