package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tikidan/internal/domain/auth"
	"tikidan/internal/domain/rbac"
	"tikidan/internal/domain/users"
	"tikidan/internal/platform/config"
	"tikidan/internal/platform/db"
	"tikidan/internal/platform/metrics"
)

func Run() error {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return fmt.Errorf("db connect failed: %w", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			return fmt.Errorf("migrations failed: %w", err)
		}
	}

	collector := metrics.New()
	resolver := rbac.NewResolver(rbac.Default(), rbac.WithUnknownRoleHook(func(user rbac.User) {
		slog.Warn("unknown role, falling back to dashboard only", "userId", user.ID, "role", user.Role)
		collector.UnknownRole(user.Role)
	}))
	usersSvc := users.NewService(users.NewStore(pool), resolver.Registry())
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.JWTTTL)

	if cfg.RunSeed {
		if err := db.Seed(ctx, usersSvc, cfg); err != nil {
			return fmt.Errorf("seed failed: %w", err)
		}
	}

	router := NewRouter(Deps{
		Config:   cfg,
		Users:    usersSvc,
		Auth:     auth.NewService(usersSvc, issuer),
		Gate:     rbac.NewGate(issuer, usersSvc, resolver),
		Metrics:  collector,
		ReadyzFn: pool.Ping,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", cfg.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		slog.Info("server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
