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

	"coursecloud/internal/enrollment"
	"coursecloud/internal/enrollment/audit"
	"coursecloud/internal/enrollment/client"
	enrollmentmetrics "coursecloud/internal/enrollment/metrics"
	"coursecloud/internal/enrollment/service"
	"coursecloud/internal/enrollment/store"
	"coursecloud/internal/platform/config"
	"coursecloud/internal/platform/httpserver"
	"coursecloud/internal/platform/logger"
	"coursecloud/internal/platform/middleware"
	"coursecloud/internal/platform/postgres"
	platformredis "coursecloud/internal/platform/redis"
	"coursecloud/pkg/platform/httputil"
)

// main wires the enrollment coordinator: remote clients for catalog and
// identity, the enrollment store, and the audit pipeline. With a postgres
// DSN and Kafka brokers configured, audit events take the outbox road; in
// development they land in memory.
func main() {
	cfg := config.EnrollmentFromEnv()
	log := logger.New("enrollment")

	db, err := postgres.Open(cfg.PostgresDSN)
	if err != nil {
		log.Error("failed to open postgres", "error", err)
		os.Exit(1)
	}

	var enrollments store.Store
	if db != nil {
		defer db.Close()
		enrollments = store.NewPostgres(db)
		log.Info("using postgres enrollment store")
	} else {
		enrollments = store.NewInMemory()
		log.Info("using in-memory enrollment store")
	}

	courseClient := client.NewHTTPCourseClient(cfg.CatalogBaseURL, cfg.ClientTimeout)
	var identityClient client.IdentityClient = client.NewHTTPIdentityClient(cfg.UserBaseURL, cfg.ClientTimeout)

	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		identityClient = client.NewCachedIdentityClient(identityClient, redisClient, cfg.IdentityTTL, log)
		log.Info("identity cache enabled", "ttl", cfg.IdentityTTL)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	// Audit pipeline: publisher -> worker -> store, plus the outbox relay
	// when Kafka is configured.
	publisher := audit.NewPublisher(256, log)
	var auditStore audit.Store
	if db != nil && len(cfg.KafkaBrokers) > 0 {
		outbox := audit.NewOutbox(db)
		auditStore = outbox

		producer, err := audit.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			log.Error("failed to create kafka producer", "error", err)
			os.Exit(1)
		}
		defer producer.Close()

		relay := audit.NewRelay(outbox, producer, time.Second, log)
		g.Go(func() error {
			err := relay.Run(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
		log.Info("audit outbox relay enabled", "topic", cfg.KafkaTopic)
	} else {
		auditStore = audit.NewInMemory()
	}
	worker := audit.NewWorker(auditStore, publisher.Inbox(), log)
	g.Go(func() error {
		err := worker.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	svc := enrollment.NewService(enrollments, courseClient, identityClient, log,
		service.WithMetrics(enrollmentmetrics.New()),
		service.WithAuditor(publisher),
	)
	h := enrollment.NewHandler(svc, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(log))
	h.Register(r)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		httputil.OK(w, map[string]string{"status": "up"})
	})

	srv := httpserver.New(cfg.Addr, r)
	g.Go(func() error {
		log.Info("enrollment service listening", "addr", cfg.Addr)
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
		log.Error("enrollment service exited", "error", err)
		os.Exit(1)
	}
}
