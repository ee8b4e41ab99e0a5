package estimation

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	apperrors "apartment-estimator/internal/common/errors"
	"apartment-estimator/internal/common/logger"
	"apartment-estimator/internal/common/metrics"
	"apartment-estimator/internal/common/observability"
	"apartment-estimator/internal/common/validation"
	"apartment-estimator/internal/models"
	"apartment-estimator/internal/pipeline/pricing"
)

// Channels label where a request came from.
const (
	ChannelHTTP   = "http"
	ChannelWorker = "worker"
)

const statusSuccess = "success"

// Estimate is the result of one request.
type Estimate struct {
	PriceKM      int64    `json:"estimated_price_km"`
	RawPrice     float64  `json:"raw_price_km"`
	ModelVersion string   `json:"model_version"`
	Approximated []string `json:"approximated_features,omitempty"`
}

// Service is safe for concurrent use; it never mutates its resources.
type Service struct {
	res       *Resources
	validator *validation.Validator
	log       logger.Logger
	obs       *observability.Observability
	channel   string
}

// NewService wires res behind request validation. res may be Unloaded().
// obs is optional.
func NewService(res *Resources, log logger.Logger, obs *observability.Observability) (*Service, error) {
	v, err := validation.NewEstimateRequestValidator()
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if res == nil {
		res = Unloaded()
	}
	return &Service{res: res, validator: v, log: log, obs: obs, channel: ChannelHTTP}, nil
}

// ForChannel returns a copy of s that labels its metrics with ch.
func (s *Service) ForChannel(ch string) *Service {
	c := *s
	c.channel = ch
	return &c
}

// Ready reports whether both the model and the city table are loaded.
func (s *Service) Ready() bool {
	return s.res.IsLoaded()
}

func (s *Service) ModelVersion() string {
	return s.res.Version()
}

// DecodeRequest validates a raw JSON body against the request schema and
// decodes it.
func (s *Service) DecodeRequest(body []byte) (models.EstimateRequest, error) {
	var req models.EstimateRequest
	res, err := s.validator.ValidateJSON(body)
	if err != nil {
		return req, apperrors.NewInvalidRequestError(err.Error())
	}
	if !res.Valid {
		return req, invalid(res)
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return req, apperrors.NewInvalidRequestError(err.Error())
	}
	return req, nil
}

// Estimate assembles, predicts and rounds one request.
func (s *Service) Estimate(ctx context.Context, req models.EstimateRequest) (*Estimate, error) {
	start := time.Now()
	est, err := s.estimate(req)

	status := statusSuccess
	if err != nil {
		status = string(apperrors.AsStandard(err).Code)
	}
	d := time.Since(start)
	metrics.EstimationsTotal.WithLabelValues(s.channel, status).Inc()
	metrics.EstimationDuration.WithLabelValues(s.channel).Observe(d.Seconds())
	if s.obs != nil {
		s.obs.RecordEstimation(ctx, d, s.channel, status)
	}
	return est, err
}

func (s *Service) estimate(req models.EstimateRequest) (*Estimate, error) {
	if !s.res.IsLoaded() {
		return nil, apperrors.NewResourceUnavailableError("model or city price table not loaded")
	}

	if canon, ok := models.CanonicalLocation(req.Location); ok {
		req.Location = canon
	}
	if err := s.validate(req); err != nil {
		return nil, err
	}

	vec, err := s.res.assembler.FromUserForm(req)
	if err != nil {
		return nil, err
	}

	var approximated []string
	if len(vec.Approximated) > 0 {
		approximated = make([]string, len(vec.Approximated))
		for i, f := range vec.Approximated {
			approximated[i] = f.String()
			metrics.ApproximatedFeatures.WithLabelValues(approximated[i]).Inc()
		}
		s.log.Debug("text features approximated from form flags", map[string]interface{}{
			"fields":  approximated,
			"channel": s.channel,
		})
	}

	raw, err := s.res.model.Predict(vec)
	if err != nil {
		return nil, err
	}

	return &Estimate{
		PriceKM:      pricing.RoundPrice(raw),
		RawPrice:     raw,
		ModelVersion: s.res.Version(),
		Approximated: approximated,
	}, nil
}

func (s *Service) validate(req models.EstimateRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return apperrors.NewInvalidRequestError(err.Error())
	}
	res, err := s.validator.ValidateJSON(body)
	if err != nil {
		return apperrors.NewInvalidRequestError(err.Error())
	}
	if !res.Valid {
		return invalid(res)
	}
	return nil
}

func invalid(res *validation.ValidationResult) error {
	stdErr := apperrors.NewInvalidRequestError(strings.Join(res.GetErrorMessages(), "; "))
	return stdErr.WithMetadata("errors", res.Errors)
}
