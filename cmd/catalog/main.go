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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"coursecloud/internal/catalog"
	catalogmetrics "coursecloud/internal/catalog/metrics"
	"coursecloud/internal/catalog/service"
	"coursecloud/internal/catalog/store"
	"coursecloud/internal/platform/config"
	"coursecloud/internal/platform/httpserver"
	"coursecloud/internal/platform/logger"
	"coursecloud/internal/platform/middleware"
	"coursecloud/internal/platform/postgres"
	"coursecloud/pkg/platform/httputil"
)

// main wires the course registry service: store selection by DSN, the chi
// router with shared middleware, and graceful shutdown.
func main() {
	cfg := config.CatalogFromEnv()
	log := logger.New("catalog")

	db, err := postgres.Open(cfg.PostgresDSN)
	if err != nil {
		log.Error("failed to open postgres", "error", err)
		os.Exit(1)
	}

	var courses store.Store
	if db != nil {
		defer db.Close()
		courses = store.NewPostgres(db)
		log.Info("using postgres course store")
	} else {
		courses = store.NewInMemory()
		log.Info("using in-memory course store")
	}

	svc := catalog.NewService(courses, service.WithMetrics(catalogmetrics.New()))
	h := catalog.NewHandler(svc, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(log))
	h.Register(r)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		httputil.OK(w, map[string]string{"status": "up"})
	})

	srv := httpserver.New(cfg.Addr, r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("catalog service listening", "addr", cfg.Addr)
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
		log.Error("catalog service exited", "error", err)
		os.Exit(1)
	}
}
