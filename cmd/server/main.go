package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/rlee603166/sharify/internal/auth"
	"github.com/rlee603166/sharify/internal/config"
	"github.com/rlee603166/sharify/internal/ingestion"
	"github.com/rlee603166/sharify/internal/metrics"
	"github.com/rlee603166/sharify/internal/middleware"
	"github.com/rlee603166/sharify/internal/service"
	"github.com/rlee603166/sharify/internal/session"
	"github.com/rlee603166/sharify/internal/storage"
	"github.com/rlee603166/sharify/internal/storage/postgres"
	"github.com/rlee603166/sharify/internal/storage/sqlite"
	"github.com/rlee603166/sharify/pkg/api/apiconnect"
	"github.com/rlee603166/sharify/pkg/logging"
)

func main() {
	configPath := flag.String("config", "", "path to an optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		// Logging is not configured yet
		logging.Setup()
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logging.SetupWithLevel(logging.ParseLevel(cfg.Log.Level))

	if err := run(cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	rates, err := cfg.Rates()
	if err != nil {
		return err
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	// Receipt ingestion is optional
	var transport ingestion.Transport
	if cfg.IngestionEnabled() {
		transport = ingestion.NewClient(cfg.OCR.APIURL, cfg.OCR.APIKey, cfg.OCR.RequestTimeout)
		slog.Info("Receipt ingestion enabled", "ocr_url", cfg.OCR.APIURL)
	} else {
		slog.Warn("Receipt ingestion disabled: ocr.api_url not set")
	}
	sessions := session.NewManager(rates, transport, m,
		ingestion.WithInterval(cfg.OCR.PollInterval),
		ingestion.WithMaxAttempts(cfg.OCR.MaxPollAttempts),
	)
	defer sessions.CloseAll()
	go sessions.RunExpiry(ctx, cfg.Server.SessionTTL, cfg.Server.SessionSweepInterval)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenDuration)
	authenticator := auth.NewPasswordAuthenticator(store)

	mux := http.NewServeMux()

	// Register Connect services
	public := connect.WithInterceptors(
		middleware.LoggingInterceptor(m),
		middleware.OptionalAuth(jwtManager),
	)
	protected := connect.WithInterceptors(
		middleware.LoggingInterceptor(m),
		middleware.RequireAuth(jwtManager),
	)

	authPath, authHandler := apiconnect.NewAuthServiceHandler(
		service.NewAuthService(authenticator, store, jwtManager, slog.Default()),
		public,
	)
	mux.Handle(authPath, authHandler)

	groupPath, groupHandler := apiconnect.NewGroupServiceHandler(service.NewGroupService(store), protected)
	mux.Handle(groupPath, groupHandler)

	splitPath, splitHandler := apiconnect.NewSplitServiceHandler(service.NewSplitService(sessions, store), protected)
	mux.Handle(splitPath, splitHandler)

	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Add logging and CORS middleware
	loggedHandler := loggingMiddleware(corsMiddleware(mux))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           h2c.NewHandler(loggedHandler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", server.Addr, "url", fmt.Sprintf("http://localhost%s", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg config.DatabaseConfig) (storage.Store, error) {
	switch cfg.Driver {
	case "postgres":
		store, err := postgres.New(ctx, cfg.URL, cfg.MaxConns)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgres storage: %w", err)
		}
		slog.Info("Storage initialized", "driver", "postgres")
		return store, nil
	default:
		store, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize sqlite storage: %w", err)
		}
		slog.Info("Storage initialized", "driver", "sqlite", "database", cfg.Path)
		return store, nil
	}
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		slog.Debug("Request received",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)

		next.ServeHTTP(w, r)

		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
