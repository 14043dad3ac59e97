package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mihaimyh/paybridge/internal/config"
	"github.com/mihaimyh/paybridge/pkg/billing"
	"github.com/mihaimyh/paybridge/pkg/billing/billplz"
	zerologadapter "github.com/mihaimyh/paybridge/pkg/billing/logger/zerolog"
	prommetrics "github.com/mihaimyh/paybridge/pkg/billing/metrics/prometheus"
	"github.com/mihaimyh/paybridge/pkg/invoice"
	"github.com/mihaimyh/paybridge/pkg/mailer"
	"github.com/mihaimyh/paybridge/router"
	chirouter "github.com/mihaimyh/paybridge/router/chi"
	echorouter "github.com/mihaimyh/paybridge/router/echo"
	fiberrouter "github.com/mihaimyh/paybridge/router/fiber"
	ginrouter "github.com/mihaimyh/paybridge/router/gin"
	muxrouter "github.com/mihaimyh/paybridge/router/mux"
	"github.com/mihaimyh/paybridge/storage/memory"
	redisstore "github.com/mihaimyh/paybridge/storage/redis"
)

const (
	metricsNamespace  = "paybridge"
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
)

func newServeCmd() *cobra.Command {
	var pretty bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the bill creation and webhook endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			zlog, err := newZerolog(os.Stderr, cfg.LogLevel, pretty)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServe(ctx, cfg, &zlog)
		},
	}

	cmd.Flags().BoolVar(&pretty, "pretty", false, "human-readable console logs")

	return cmd
}

// app is the wired set of components behind the HTTP servers.
type app struct {
	handler  http.Handler
	registry *prometheus.Registry
	closers  []func() error
}

func (a *app) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

func newApp(ctx context.Context, cfg *config.Config, zlog *zerolog.Logger) (*app, error) {
	a := &app{registry: prometheus.NewRegistry()}
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	logger := zerologadapter.NewLogger(zlog)
	metrics := prommetrics.NewMetrics(a.registry, metricsNamespace)

	limiter, err := newRateLimiter(ctx, cfg, a)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	dispatcher := mailer.NewDispatcher(cfg.Mailer(),
		mailer.WithMetrics(metrics),
		mailer.WithLogger(logger),
	)
	issuer := invoice.NewIssuer(invoice.IssuerConfig{
		Numbers:  invoice.NewNumberGenerator(cfg.InvoicePrefix),
		Renderer: invoice.NewRenderer(cfg.Letterhead()),
		Mailer:   dispatcher,
		Metrics:  metrics,
		Logger:   logger,
	})

	bc := cfg.Billing()
	bc.OnPayment = issuer.HandlePayment
	bc.RateLimiter = limiter
	bc.Metrics = metrics
	bc.Logger = logger

	provider, err := billplz.NewProvider(bc)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to create billplz provider: %w", err)
	}

	a.handler, err = newHTTPHandler(cfg.Router, router.FromProvider(provider))
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func newRateLimiter(ctx context.Context, cfg *config.Config, a *app) (billing.RateLimitStore, error) {
	if cfg.RedisURL == "" {
		return memory.NewRateLimiter(cfg.WebhookRateLimit, cfg.RateLimitWindow), nil
	}

	opts, err := goredis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	limiter, err := redisstore.New(goredis.NewClient(opts), cfg.RateLimit())
	if err != nil {
		return nil, fmt.Errorf("failed to create redis rate limiter: %w", err)
	}
	a.closers = append(a.closers, limiter.Close)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := limiter.Ping(pingCtx); err != nil {
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}
	return limiter, nil
}

func newHTTPHandler(name string, h router.Handlers) (http.Handler, error) {
	switch name {
	case "", "chi":
		return chirouter.New(h), nil
	case "gin":
		return ginrouter.New(h), nil
	case "echo":
		return echorouter.New(h), nil
	case "fiber":
		return fiberrouter.Handler(h), nil
	case "mux":
		return muxrouter.New(h), nil
	default:
		return nil, fmt.Errorf("unknown router %q", name)
	}
}

func runServe(ctx context.Context, cfg *config.Config, zlog *zerolog.Logger) error {
	a, err := newApp(ctx, cfg, zlog)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			zlog.Warn().Err(err).Msg("failed to close resources")
		}
	}()

	servers := []*http.Server{{
		Addr:              cfg.HTTPAddr,
		Handler:           a.handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}}
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
		servers = append(servers, &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: readHeaderTimeout,
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		srv := srv
		g.Go(func() error {
			zlog.Info().Str("addr", srv.Addr).Str("router", cfg.Router).Msg("listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server on %s failed: %w", srv.Addr, err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		zlog.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		var errs []error
		for _, srv := range servers {
			errs = append(errs, srv.Shutdown(shutdownCtx))
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}
