package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "resume-compiler/internal/adapter/http"
	repo "resume-compiler/internal/adapter/repository"
	"resume-compiler/internal/config"
	"resume-compiler/internal/infrastructure/migration"
	"resume-compiler/internal/wiring"
	infra "resume-compiler/pkg/infrastructure"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := cfg.Log.NewLogger()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// infra setup
	var jobsPool *pgxpool.Pool
	if cfg.Database.URL != "" {
		jobsPool, err = infra.NewJobsPool(ctx, cfg.Database.URL)
		if err != nil {
			logger.Warn("jobs DB not available", zap.Error(err))
			jobsPool = nil
		} else {
			defer jobsPool.Close()
			if err := migration.RunMigrations(ctx, jobsPool, logger.Named("migration")); err != nil {
				logger.Warn("migrations failed", zap.Error(err))
			}
		}
	}

	jobsRepo := repo.NewJobsRepo(jobsPool)
	processor, err := wiring.Processor(cfg, jobsRepo, logger)
	if err != nil {
		logger.Fatal("processor setup failed", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		BodyLimit:             4 << 20,
		DisableStartupMessage: true,
	})
	httpadapter.NewHandler(processor, logger.Named("http")).Register(app)

	go func() {
		logger.Info("listening", zap.String("port", cfg.Server.Port))
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}
