// server is the DiscoverMe MCP server binary. It exposes the profile,
// search and network tools over stdio (the default MCP transport) or over
// HTTP for remote clients.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fredcamaral/gomcp-sdk/protocol"
	"github.com/gorilla/mux"

	"discoverme-mcp/internal/config"
	"discoverme-mcp/internal/logging"
	"discoverme-mcp/internal/mcp"
	"discoverme-mcp/internal/storage"
)

func main() {
	var (
		mode = flag.String("mode", "", "Server mode: stdio or http (overrides config)")
		addr = flag.String("addr", "", "HTTP listen address (overrides config, mode=http only)")
	)
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *mode != "" {
		cfg.Server.Mode = *mode
	}

	logger := logging.NewLogger(logging.ParseLogLevel(cfg.Logging.Level))
	logging.SetDefaultLogger(logger)

	store, err := buildStore(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open store", "error", err)
	}

	srv, err := mcp.NewServer(cfg, store, logger)
	if err != nil {
		logger.Fatal("Failed to create MCP server", "error", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch cfg.Server.Mode {
	case "stdio":
		if err := srv.ServeStdio(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("MCP server failed", "error", err)
		}
	case "http":
		listen := *addr
		if listen == "" {
			listen = fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		}
		if err := serveHTTP(ctx, srv, cfg, listen, logger); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("HTTP server failed", "error", err)
		}
	default:
		logger.Error("Invalid server mode, use stdio or http", "mode", cfg.Server.Mode)
	}

	if err := srv.Close(); err != nil {
		logger.Error("Error during shutdown", "error", err)
	}
}

// buildStore opens the configured backing store, wrapping it in a Redis
// read-through cache when one is enabled.
func buildStore(cfg *config.Config, logger logging.Logger) (storage.Store, error) {
	var store storage.Store
	switch cfg.Storage.Provider {
	case "memory":
		store = storage.NewMemoryStore()
	case "sqlite":
		s, err := storage.NewSQLiteStore(cfg.Storage.Path, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store at %s: %w", cfg.Storage.Path, err)
		}
		store = s
	default:
		return nil, fmt.Errorf("unknown storage provider: %s", cfg.Storage.Provider)
	}

	if cfg.Redis.Enabled {
		cached, err := storage.NewCachedStore(context.Background(), store,
			cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTLSeconds, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect redis cache: %w", err)
		}
		logger.Info("Redis cache enabled", "addr", cfg.Redis.Addr)
		return cached, nil
	}
	return store, nil
}

func serveHTTP(ctx context.Context, srv *mcp.DiscoverMeServer, cfg *config.Config, addr string, logger logging.Logger) error {
	router := mux.NewRouter()
	router.HandleFunc("/mcp", mcpHandler(srv, logger)).Methods(http.MethodPost, http.MethodOptions)
	router.HandleFunc("/health", healthHandler(srv)).Methods(http.MethodGet)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Serving MCP over HTTP", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

// mcpHandler bridges JSON-RPC over HTTP POST to the MCP server.
func mcpHandler(srv *mcp.DiscoverMeServer, logger logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Content-Type", "application/json")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		var req protocol.JSONRPCRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON-RPC request", http.StatusBadRequest)
			return
		}

		resp := srv.HandleRequest(r.Context(), &req)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logger.Error("Error encoding response", "error", err)
		}
	}
}

func healthHandler(srv *mcp.DiscoverMeServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		status := map[string]string{"status": "healthy", "service": "discoverme-mcp"}
		code := http.StatusOK
		if err := srv.HealthCheck(r.Context()); err != nil {
			status["status"] = "degraded"
			status["error"] = err.Error()
			code = http.StatusServiceUnavailable
		}
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(status)
	}
}
