package training

import (
	"context"
	"time"

	"apartment-estimator/internal/artifact"
	"apartment-estimator/internal/common/logger"
	"apartment-estimator/internal/common/metrics"
	"apartment-estimator/internal/common/observability"
	"apartment-estimator/internal/dataset"
)

// RunRecorder persists training run summaries.
type RunRecorder interface {
	Record(ctx context.Context, run dataset.TrainingRun) error
}

// Job loads a batch, trains, and writes the artifacts to every store.
// Recorder and Metrics are optional.
type Job struct {
	Source   dataset.Source
	Trainer  *Trainer
	Stores   []artifact.Store
	Recorder RunRecorder
	Metrics  *observability.Observability
	Log      logger.Logger
}

func (j *Job) Execute(ctx context.Context) (*Result, error) {
	start := time.Now()
	res, err := j.execute(ctx)
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.TrainingRuns.WithLabelValues(status).Inc()
	if j.Metrics != nil {
		j.Metrics.RecordTrainingRun(ctx, time.Since(start), status)
	}
	return res, err
}

func (j *Job) execute(ctx context.Context) (*Result, error) {
	listings, err := j.Source.Load(ctx)
	if err != nil {
		return nil, err
	}
	j.Log.Info("training batch loaded", map[string]interface{}{
		"source":  j.Source.Name(),
		"records": len(listings),
	})

	res, err := j.Trainer.Run(ctx, listings)
	if err != nil {
		return nil, err
	}

	for _, s := range j.Stores {
		if err := s.Save(ctx, res.Artifacts); err != nil {
			return nil, err
		}
		j.Log.Info("artifacts saved", map[string]interface{}{
			"store":   s.Name(),
			"version": res.Artifacts.Bundle.Version,
		})
	}

	if j.Recorder != nil {
		if err := j.Recorder.Record(ctx, res.Run()); err != nil {
			j.Log.WithError(err).Warn("failed to record training run", map[string]interface{}{
				"version": res.Artifacts.Bundle.Version,
			})
		}
	}
	return res, nil
}
