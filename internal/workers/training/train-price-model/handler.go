// internal/workers/training/train-price-model/handler.go
package trainpricemodel

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "apartment-estimator/internal/common/errors"
	"apartment-estimator/internal/common/logger"
	"apartment-estimator/internal/common/metrics"
	"apartment-estimator/internal/training"
)

const (
	TaskType = "train-price-model"
)

// Runner executes one training job.
type Runner interface {
	Execute(ctx context.Context) (*training.Result, error)
}

type Handler struct {
	config     *Config
	runner     Runner
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, runner Runner, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		runner:     runner,
		errHandler: apperrors.NewErrorHandler(l),
		logger:     l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.fail(client, job, apperrors.NewInvalidRequestError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.fail(client, job, err)
		return
	}

	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) fail(client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(apperrors.AsStandard(err).Code)).Inc()
	h.errHandler.HandleJobError(context.Background(), client, job, err)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		input = &Input{}
	}
	h.logger.Info("training run started", map[string]interface{}{
		"requestedBy": input.RequestedBy,
	})

	res, err := h.runner.Execute(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, apperrors.NewTrainingFailedError(fmt.Errorf("training interrupted: %w", ctx.Err()))
		}
		return nil, err
	}

	report := res.Artifacts.Bundle.Report
	return &Output{
		ModelVersion: res.Artifacts.Bundle.Version,
		RecordsIn:    res.RecordsIn,
		RecordsUsed:  res.RecordsUsed,
		Dropped:      res.Dropped,
		CVR2:         report.CVScore,
		TestR2:       report.TestR2,
		TestMAE:      report.TestMAE,
		TestRMSE:     report.TestRMSE,
		DurationMs:   res.Duration.Milliseconds(),
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
