package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"apartment-estimator/internal/artifact"
	"apartment-estimator/internal/common/camunda"
	"apartment-estimator/internal/common/config"
	"apartment-estimator/internal/common/database"
	apphttp "apartment-estimator/internal/common/http"
	"apartment-estimator/internal/common/logger"
	"apartment-estimator/internal/common/observability"
	"apartment-estimator/internal/estimation"
	"apartment-estimator/internal/pipeline/normalize"
	"apartment-estimator/internal/training"

	eap "apartment-estimator/internal/workers/estimation/estimate-apartment-price"
	tpm "apartment-estimator/internal/workers/training/train-price-model"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info", "console").Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting estimator...", zap.String("environment", cfg.App.Environment))

	obs := observability.New("estimator")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Backends ---
	conns, err := database.ConnectAll(ctx, cfg.Database, database.DefaultRetryPolicy, log)
	if err != nil {
		zapLog.Fatal("backend connection failed after retries", zap.Error(err))
	}
	defer conns.Close()

	var redisClient redis.Cmdable
	if conns.Redis != nil {
		redisClient = conns.Redis.Client
	}

	// --- Artifacts ---
	store, err := artifact.StoreFromConfig(cfg.Artifact, redisClient)
	if err != nil {
		zapLog.Fatal("artifact store config invalid", zap.Error(err))
	}

	res, err := estimation.Load(ctx, store, normalize.NewLogReporter(log))
	if err != nil {
		if cfg.Artifact.RequiredAtStartup {
			zapLog.Fatal("artifacts could not be loaded", zap.String("store", store.Name()), zap.Error(err))
		}
		zapLog.Warn("serving without artifacts until restart", zap.String("store", store.Name()), zap.Error(err))
		res = estimation.Unloaded()
	} else {
		zapLog.Info("Artifacts loaded", zap.String("store", store.Name()), zap.String("version", res.Version()))
	}

	svc, err := estimation.NewService(res, log, obs)
	if err != nil {
		zapLog.Fatal("estimation service init failed", zap.Error(err))
	}

	// --- HTTP ---
	var limiter *apphttp.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = apphttp.NewRateLimiter(
			redisClient,
			cfg.RateLimit.Requests,
			time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute,
			log,
		)
	}
	server := apphttp.NewServer(cfg, svc, limiter, log)
	go func() {
		if err := server.Start(); err != nil {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Workers ---
	var zc *camunda.Client
	if cfg.Camunda.Enabled {
		zc, err = camunda.NewClient(ctx, cfg.Camunda.BrokerAddress, log)
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		zapLog.Info("Zeebe client connected successfully")

		zc.StartWorker(eap.TaskType, config.GetWorkerConfig(cfg, eap.TaskType),
			eap.NewHandler(eap.LoadConfig(cfg), svc.ForChannel(estimation.ChannelWorker), log))

		if config.IsWorkerEnabled(cfg, tpm.TaskType) {
			job, err := training.NewJobFromConfig(ctx, cfg, training.ConnectionsFrom(conns), log, obs)
			if err != nil {
				zapLog.Fatal("training job config invalid", zap.Error(err))
			}
			zc.StartWorker(tpm.TaskType, config.GetWorkerConfig(cfg, tpm.TaskType),
				tpm.NewHandler(tpm.LoadConfig(cfg), job, log))
		}
	}

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(shutdownCtx); err != nil {
		zapLog.Error("Error stopping HTTP server", zap.Error(err))
	}
	if zc != nil {
		if err := zc.Close(); err != nil {
			zapLog.Error("Error closing Zeebe client", zap.Error(err))
		}
	}

	zapLog.Info("Estimator stopped gracefully")
}
