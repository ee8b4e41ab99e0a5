// Command trainer runs one training job and writes the artifacts.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"apartment-estimator/internal/common/config"
	"apartment-estimator/internal/common/database"
	"apartment-estimator/internal/common/logger"
	"apartment-estimator/internal/common/observability"
	"apartment-estimator/internal/training"
)

func main() {
	configPath := flag.String("config", "", "Path to a config file (default: configs/config.yaml plus environment overlay)")
	csvPath := flag.String("csv", "", "Override training.csv_path and read the batch from this CSV")
	flag.Parse()

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		logger.New("info", "console").Fatal("config load failed", zap.Error(err))
	}
	if *csvPath != "" {
		cfg.Training.Source = config.TrainingSourceCSV
		cfg.Training.CSVPath = *csvPath
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	obs := observability.New("trainer")
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conns, err := database.ConnectAll(ctx, cfg.Database, database.DefaultRetryPolicy, log)
	if err != nil {
		zapLog.Fatal("backend connection failed after retries", zap.Error(err))
	}
	defer conns.Close()

	job, err := training.NewJobFromConfig(ctx, cfg, training.ConnectionsFrom(conns), log, obs)
	if err != nil {
		zapLog.Fatal("training job config invalid", zap.Error(err))
	}

	res, err := job.Execute(ctx)
	if err != nil {
		zapLog.Error("training failed", zap.Error(err))
		conns.Close()
		os.Exit(1)
	}

	report := res.Artifacts.Bundle.Report
	zapLog.Info("training finished",
		zap.String("version", res.Artifacts.Bundle.Version),
		zap.Int("recordsIn", res.RecordsIn),
		zap.Int("recordsUsed", res.RecordsUsed),
		zap.Float64("cvR2", report.CVScore),
		zap.Float64("testR2", report.TestR2),
		zap.Float64("testMAE", report.TestMAE),
		zap.Float64("testRMSE", report.TestRMSE),
		zap.Duration("duration", res.Duration),
	)
}
