package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/elka/internal/auth"
	"github.com/mmynk/elka/internal/config"
	"github.com/mmynk/elka/internal/middleware"
	"github.com/mmynk/elka/internal/service"
	"github.com/mmynk/elka/internal/storage"
	"github.com/mmynk/elka/internal/storage/redis"
	"github.com/mmynk/elka/internal/storage/sqlite"
	"github.com/mmynk/elka/pkg/api"
	"github.com/mmynk/elka/pkg/logging"
)

// purgeInterval is how often expired sessions are removed from SQLite.
const purgeInterval = time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logging.SetupWithLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize storage", "store", cfg.Store, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	metrics := middleware.NewMetrics("elka", prometheus.DefaultRegisterer)

	// Order matters: the logging interceptor reads the session ID set by RequireSession.
	interceptors := connect.WithInterceptors(
		metrics.Interceptor(),
		middleware.RequireSession(jwtManager, api.StartSessionProcedure),
		middleware.LoggingInterceptor(),
	)

	mux := http.NewServeMux()

	billPath, billHandler := api.NewBillServiceHandler(service.NewBillService(store, jwtManager, cfg.DefaultLang), interceptors)
	mux.Handle(billPath, billHandler)
	mux.Handle("/metrics", promhttp.Handler())

	if cfg.StaticPath != "" {
		staticDir, err := filepath.Abs(cfg.StaticPath)
		if err != nil {
			slog.Error("Failed to resolve static path", "error", err)
			os.Exit(1)
		}
		slog.Info("Serving static files", "path", staticDir)
		mux.Handle("/", staticHandler(staticDir))
	}

	// Wrap with h2c for HTTP/2 without TLS
	handler := h2c.NewHandler(loggingMiddleware(corsMiddleware(mux)), &http2.Server{})

	server := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Shutdown failed", "error", err)
		}
	}()

	slog.Info("Connect server starting", "address", server.Addr, "store", cfg.Store, "default_lang", cfg.DefaultLang)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped")
}

// openStore connects the configured session store. SQLite keeps sessions
// until a background purge drops the ones idle longer than the session TTL;
// Redis expires them on its own.
func openStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.Store {
	case config.StoreRedis:
		store, err := redis.Dial(ctx, cfg.RedisURL, cfg.SessionTTL)
		if err != nil {
			return nil, err
		}
		slog.Info("Storage initialized", "store", "redis")
		return store, nil
	default:
		store, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		slog.Info("Storage initialized", "store", "sqlite", "database", cfg.DBPath)
		go purgeSessions(ctx, store, cfg.SessionTTL)
		return store, nil
	}
}

func purgeSessions(ctx context.Context, store *sqlite.SQLiteStore, ttl time.Duration) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.PurgeBefore(ctx, time.Now().Add(-ttl))
			if err != nil {
				slog.Error("Session purge failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("Purged expired sessions", "rows", n)
			}
		}
	}
}

// staticHandler serves the web client, falling back to index.html for unknown paths.
func staticHandler(staticDir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/"+api.BillServiceName+".") {
			http.NotFound(w, r)
			return
		}

		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}

		filePath := filepath.Join(staticDir, filepath.Clean("/"+urlPath))
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
			return
		}

		http.ServeFile(w, r, filePath)
	})
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		slog.Debug("Request received",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)

		next.ServeHTTP(w, r)

		slog.Info("Request completed",
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
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
