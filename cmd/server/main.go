package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"genetrack-backend-go/internal/config"
	"genetrack-backend-go/internal/db"
	"genetrack-backend-go/internal/events"
	httpapi "genetrack-backend-go/internal/http"
	"genetrack-backend-go/internal/migrations"
	"genetrack-backend-go/internal/schema"
	"genetrack-backend-go/internal/services"
	"genetrack-backend-go/internal/storage"
	"genetrack-backend-go/internal/store"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, cleanupLogs, err := setupLogger(cfg.LogDir, cfg.LogRetentionDays, cfg.LogLevel)
	if err != nil {
		log.Printf("logger setup failed: %v", err)
		logger = slog.Default()
	} else {
		defer cleanupLogs()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	database, err := db.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		fatal(logger, "db", err)
	}
	defer database.Close()
	dialect, err := schema.DialectForDriver(cfg.DatabaseDriver)
	if err != nil {
		fatal(logger, "dialect", err)
	}
	if err := migrations.Apply(ctx, database, os.DirFS(filepath.Join(cfg.MigrationsDir, string(dialect))), logger); err != nil {
		fatal(logger, "migrations", err)
	}

	blobs, err := openBlobs(ctx, cfg)
	if err != nil {
		fatal(logger, "storage", err)
	}
	publisher := openPublisher(cfg, logger)
	defer publisher.Close()

	st := store.New(database, logger)
	svc := services.New(services.Options{
		Store:  st,
		Blobs:  blobs,
		Events: publisher,
		Sessions: services.SessionSigner{
			Secret: []byte(cfg.SessionSecret),
			Issuer: cfg.SessionIssuer,
			TTL:    cfg.SessionTTL,
		},
		APITokenTTL: cfg.APITokenTTL,
		Logger:      logger,
	})
	go svc.RunTokenSweeper(ctx, time.Duration(cfg.TokenSweepSeconds)*time.Second)

	server := httpapi.NewServer(st, cfg.CorsOrigins, logger)
	addr := ":" + cfg.Port
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", addr, "database", cfg.DatabaseDriver, "storage", blobs.Driver())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(logger, "server", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)
	<-stop
	cancel()
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	_ = httpServer.Shutdown(ctxShutdown)
	logger.Info("shutdown complete")
}

func fatal(logger *slog.Logger, what string, err error) {
	logger.Error(what+" failed", "error", err)
	os.Exit(1)
}

func openBlobs(ctx context.Context, cfg config.Config) (storage.Store, error) {
	if cfg.StorageDriver == "s3" {
		return storage.NewS3(ctx, storage.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
		})
	}
	return storage.NewFS(cfg.StoragePath)
}

func openPublisher(cfg config.Config, logger *slog.Logger) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		return events.LogPublisher{Logger: logger}
	}
	return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaEventsTopic)
}
