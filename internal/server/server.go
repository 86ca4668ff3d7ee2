// Package server собирает HTTP сервер синхронизации: маршруты,
// middleware и фоновую очистку журнала идемпотентности.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/iudanet/homekeeper/internal/config"
	"github.com/iudanet/homekeeper/internal/server/handlers"
	"github.com/iudanet/homekeeper/internal/server/middleware"
)

const (
	healthPath      = "/api/v1/health"
	rateLimitWindow = time.Minute
)

// Store хранилище, которое нужно серверу
type Store interface {
	handlers.Storage
	handlers.Pinger
}

// Server HTTP сервер синхронизации
type Server struct {
	cfg     *config.ServerConfig
	logger  *slog.Logger
	store   Store
	limiter *middleware.RateLimiter
	http    *http.Server
	now     func() time.Time
}

// New собирает сервер. Хранилище закрывает вызывающая сторона
func New(cfg *config.ServerConfig, logger *slog.Logger, store Store, tokens middleware.TokenValidator) *Server {
	s := &Server{
		cfg:    cfg,
		logger: logger,
		store:  store,
		now:    time.Now,
	}
	if cfg.RateLimit > 0 {
		s.limiter = middleware.NewRateLimiter(cfg.RateLimit, rateLimitWindow, logger)
	}

	s.http = &http.Server{
		Addr:              cfg.Addr,
		Handler:           NewRouter(logger, store, tokens, s.limiter, cfg.LedgerRetention),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
	return s
}

// NewRouter регистрирует маршруты API.
// limiter может быть nil: ограничение запросов выключено
func NewRouter(
	logger *slog.Logger,
	store Store,
	tokens middleware.TokenValidator,
	limiter *middleware.RateLimiter,
	retention time.Duration,
) http.Handler {
	healthHandler := handlers.NewHealthHandler(logger, store)
	syncHandler := handlers.NewSyncHandler(logger, store, retention, func() string {
		return uuid.New().String()
	})
	auth := middleware.AuthMiddleware(logger, tokens)

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+healthPath, healthHandler.Health)
	mux.Handle("POST /api/v1/sync", auth(http.HandlerFunc(syncHandler.HandleSync)))
	mux.Handle("GET /api/v1/entities/{type}", auth(http.HandlerFunc(syncHandler.HandleEntities)))
	mux.Handle("GET /api/v1/ledger/stats", auth(http.HandlerFunc(syncHandler.HandleLedgerStats)))

	chain := []func(http.Handler) http.Handler{
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger, healthPath),
	}
	if limiter != nil {
		chain = append(chain, limiter.Middleware)
	}
	return middleware.Chain(mux, chain...)
}

// Run слушает адрес из конфигурации до отмены ctx
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve обслуживает запросы на ln до отмены ctx, затем
// дожидается активных запросов не дольше ShutdownTimeout
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if s.limiter != nil {
		defer s.limiter.Stop()
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("Server started", "addr", ln.Addr().String())
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		s.runJanitor(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("Shutting down server", "timeout", s.cfg.ShutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return nil
	})

	err := g.Wait()
	s.logger.Info("Server stopped")
	return err
}

// runJanitor периодически удаляет старые выполненные ключи журнала
func (s *Server) runJanitor(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.GCInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.CollectGarbage(ctx); err != nil && ctx.Err() == nil {
				s.logger.Error("Ledger cleanup failed", "error", err)
			}
		}
	}
}

// CollectGarbage удаляет выполненные ключи старше LedgerRetention
func (s *Server) CollectGarbage(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.cfg.LedgerRetention)
	deleted, err := s.store.DeleteCompletedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.logger.Info("Ledger cleaned up", "deleted", deleted, "cutoff", cutoff)
	}
	return deleted, nil
}
