package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"coursecloud/internal/gateway"
	"coursecloud/internal/gateway/accounts"
	"coursecloud/internal/jwttoken"
	"coursecloud/internal/platform/config"
	"coursecloud/internal/platform/httpserver"
	"coursecloud/internal/platform/logger"
	"coursecloud/internal/platform/middleware"
	"coursecloud/pkg/platform/httputil"
)

// main wires the edge gateway: the auth endpoints, the account table seeded
// from config, and the whitelist reverse proxy in front of the three
// downstream services.
func main() {
	cfg := config.GatewayFromEnv()
	log := logger.New("gateway")

	accountStore := accounts.NewStore()
	if cfg.SeedCredential != "" {
		if err := accountStore.Seed(uuid.NewString(), "admin", cfg.SeedCredential, "ADMIN"); err != nil {
			log.Error("failed to seed admin account", "error", err)
			os.Exit(1)
		}
		log.Info("seeded admin account")
	} else {
		log.Warn("no seed credential configured, login is disabled")
	}

	tokens := jwttoken.New(cfg.JWTSigningKey, "coursecloud-gateway")
	svc := gateway.NewService(accountStore, tokens, cfg.TokenTTL)
	h := gateway.NewHandler(svc, log)

	proxy, err := gateway.NewProxy(svc, cfg.AuthWhitelist, []gateway.Route{
		{Prefix: "/api/courses", Target: cfg.CatalogURL},
		{Prefix: "/api/users", Target: cfg.UserURL},
		{Prefix: "/api/enrollments", Target: cfg.EnrollmentURL},
	}, log)
	if err != nil {
		log.Error("failed to build proxy", "error", err)
		os.Exit(1)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(log))
	h.Register(r)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		httputil.OK(w, map[string]string{"status": "up"})
	})
	// Everything else goes through the authenticating proxy.
	r.NotFound(proxy.ServeHTTP)

	srv := httpserver.New(cfg.Addr, r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("gateway listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("gateway exited", "error", err)
		os.Exit(1)
	}
}
