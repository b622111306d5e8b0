package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AQUACY/AGHIMS/internal/httpclient"
	"github.com/AQUACY/AGHIMS/internal/router"
	"github.com/AQUACY/AGHIMS/internal/session"
	"github.com/AQUACY/AGHIMS/internal/stores"
	"github.com/AQUACY/AGHIMS/pkg/config"
	"github.com/AQUACY/AGHIMS/pkg/logger"
	"github.com/AQUACY/AGHIMS/pkg/monitoring"
	"github.com/AQUACY/AGHIMS/pkg/notify"
	"github.com/AQUACY/AGHIMS/pkg/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	// Open the local persisted store, falling back to memory so the
	// client still runs on a locked-down workstation
	var store storage.Store
	sqliteStore, err := storage.NewSQLite(cfg.Storage.Path, logger)
	if err != nil {
		logger.WithError(err).Warn("Failed to open local store, session will not persist")
		store = storage.NewMemory()
	} else {
		defer sqliteStore.Close()
		store = sqliteStore
	}

	// Optional observability
	var metrics *monitoring.Metrics
	if cfg.Monitoring.Enabled {
		metrics = monitoring.NewMetrics()
		go func() {
			if err := metrics.Serve(cfg.Monitoring.MetricsPath, cfg.Monitoring.MetricsPort); err != nil {
				logger.WithError(err).Warn("Metrics listener stopped")
			}
		}()
	}

	var tracing *monitoring.TracingManager
	if cfg.Tracing.Enabled {
		tracing, err = monitoring.NewTracingManager(&monitoring.TracingConfig{
			ServiceName:    "aghims-client",
			ServiceVersion: "2.0",
			JaegerEndpoint: cfg.Tracing.JaegerEndpoint,
			Environment:    "production",
			SamplingRate:   cfg.Tracing.SamplingRate,
		})
		if err != nil {
			logger.WithError(err).Warn("Tracing disabled")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				tracing.Shutdown(ctx)
			}()
		}
	}

	notifier := &notify.LogNotifier{Logger: logger}

	// The session, client and navigator reference each other through
	// small closures resolved after construction
	var nav *router.Navigator
	var sess *session.Store

	client := httpclient.New(httpclient.Options{
		BaseURL: cfg.API.ResolveBaseURL(),
		Store:   store,
		Logger:  logger,
		Metrics: metrics,
		Tracing: tracing,
		Timeout: time.Duration(cfg.API.Timeout) * time.Second,
		CurrentPath: func() string {
			if nav == nil {
				return router.LoginPath
			}
			return nav.Current()
		},
		RedirectToLogin: func() {
			if sess != nil {
				sess.Logout()
			}
			if nav != nil {
				nav.ForceLogin()
			}
		},
	})

	sess = session.New(client, store, logger, notifier)
	nav = router.NewNavigator(sess, logger, notifier)

	// Hydrate the session from the last run; never blocks startup
	sess.InitAuth()
	if sess.IsAuthenticated() {
		nav.Navigate(router.LandingPath)
	}

	// Headless login for kiosk deployments
	if username := os.Getenv("HMS_USERNAME"); username != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if sess.Login(ctx, username, os.Getenv("HMS_PASSWORD")) {
			nav.Navigate(router.LandingPath)

			dashboard := stores.NewDashboardStore(client, logger)
			if err := dashboard.Refresh(ctx); err == nil {
				logger.WithComponent("main").
					WithField("stats", dashboard.Stats()).Info("Dashboard loaded")
			}
		}
		cancel()
	}

	logger.WithComponent("main").
		WithField("view", nav.Current()).
		WithField("authenticated", sess.IsAuthenticated()).
		Info("AGHIMS client ready")

	// Wait for interrupt signal to shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("AGHIMS client stopped")
}
