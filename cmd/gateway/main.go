package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	auth "github.com/mind-engage/h5pimporter/internal/auth/middleware"
	"github.com/mind-engage/h5pimporter/internal/config"
	"github.com/mind-engage/h5pimporter/internal/content"
	"github.com/mind-engage/h5pimporter/internal/db"
	"github.com/mind-engage/h5pimporter/internal/h5p"
	"github.com/mind-engage/h5pimporter/internal/importer"
	"github.com/mind-engage/h5pimporter/internal/logging"
	"github.com/mind-engage/h5pimporter/internal/metrics"
	rbac "github.com/mind-engage/h5pimporter/internal/rbac"
	"github.com/mind-engage/h5pimporter/internal/storage"
	syncx "github.com/mind-engage/h5pimporter/internal/sync"
	"github.com/mind-engage/h5pimporter/internal/tracing"
	"github.com/mind-engage/h5pimporter/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	var tp *sdktrace.TracerProvider
	if cfg.TracingEnabled {
		if tp, err = tracing.Init("h5pimporter", cfg.TracingCollectorEndpoint); err != nil {
			logger.Fatal("tracing init failed", zap.Error(err))
		}
	}

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer dbh.Close()
	store := content.NewSQLStore(dbh)
	events := syncx.NewEventRepo(dbh, "")

	registry := h5p.NewDefaultRegistry(logger)
	if cfg.SeedLibraries {
		for _, t := range registry.Types() {
			if _, err := store.EnsureLibrary(ctx, t.Library, t.Label); err != nil {
				logger.Fatal("seed library", zap.String("library", t.Library), zap.Error(err))
			}
		}
	}

	// --- Upload staging ---
	blobs, err := openBlobStore(ctx, cfg)
	if err != nil {
		logger.Fatal("blob store", zap.Error(err))
	}
	sweeper := storage.NewSweeper(blobs, cfg.UploadMaxAge, logger)
	if cfg.UploadSweepSpec != "" {
		if err := sweeper.Start(cfg.UploadSweepSpec); err != nil {
			logger.Fatal("upload sweeper", zap.String("spec", cfg.UploadSweepSpec), zap.Error(err))
		}
		defer sweeper.Stop()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	svc := importer.NewService(registry, store, logger)
	svc.Blobs = blobs
	svc.Events = events
	svc.Metrics = m
	svc.DefaultLanguage = cfg.DefaultLanguage

	static, err := web.Static()
	if err != nil {
		logger.Fatal("static assets", zap.Error(err))
	}

	s := &server{
		cfg:      cfg,
		log:      logger,
		registry: registry,
		store:    store,
		events:   events,
		importer: svc,
		authSvc:  auth.NewAuthService(cfg.AuthHMACSecret),
		accounts: map[string]auth.Account{cfg.AdminUser: {PassHash: cfg.AdminPassHash, Role: rbac.RoleAdmin}},
		metrics:  m,
		static:   static,
		ready:    dbh.PingContext,
	}

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: s.routes(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Info("listening", zap.String("addr", cfg.HTTPAddr), zap.String("mode", string(cfg.Mode)),
			zap.String("db", cfg.DBDriver), zap.String("blobs", cfg.BlobDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
	if err := tracing.Shutdown(shutdownCtx, tp); err != nil {
		logger.Error("tracing shutdown", zap.Error(err))
	}
}

func openBlobStore(ctx context.Context, cfg config.Config) (storage.BlobStore, error) {
	if cfg.BlobDriver == "minio" {
		return storage.NewMinioStore(ctx, storage.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			Secure:    cfg.MinioSecure,
		})
	}
	return storage.NewFSStore(cfg.BlobBasePath)
}
