// internal/workers/estimation/estimate-apartment-price/handler.go
package estimateapartmentprice

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "apartment-estimator/internal/common/errors"
	"apartment-estimator/internal/common/logger"
	"apartment-estimator/internal/common/metrics"
	"apartment-estimator/internal/estimation"
	"apartment-estimator/internal/models"
)

const (
	TaskType = "estimate-apartment-price"
)

type Estimator interface {
	DecodeRequest(body []byte) (models.EstimateRequest, error)
	Estimate(ctx context.Context, req models.EstimateRequest) (*estimation.Estimate, error)
}

type Handler struct {
	config     *Config
	estimator  Estimator
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, estimator Estimator, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		estimator:  estimator,
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
		h.fail(ctx, client, job, apperrors.NewInvalidRequestError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.fail(ctx, client, job, err)
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
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(apperrors.AsStandard(err).Code)).Inc()
	h.errHandler.HandleJobError(ctx, client, job, err)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil || len(input.Apartment) == 0 {
		return nil, apperrors.NewInvalidRequestError("apartment variable is required")
	}

	req, err := h.estimator.DecodeRequest(input.Apartment)
	if err != nil {
		return nil, err
	}

	est, err := h.estimator.Estimate(ctx, req)
	if err != nil {
		return nil, err
	}

	h.logger.Info("estimate computed", map[string]interface{}{
		"location":     req.Location,
		"priceKm":      est.PriceKM,
		"modelVersion": est.ModelVersion,
	})

	return &Output{
		EstimatedPriceKM:     est.PriceKM,
		ModelVersion:         est.ModelVersion,
		ApproximatedFeatures: est.Approximated,
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
