// internal/common/http/server.go
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"apartment-estimator/internal/common/config"
	apperrors "apartment-estimator/internal/common/errors"
	"apartment-estimator/internal/common/logger"
	"apartment-estimator/internal/estimation"
	"apartment-estimator/internal/models"
)

const maxBodyBytes = 64 << 10

// Estimator is the serving core behind the HTTP surface.
type Estimator interface {
	DecodeRequest(body []byte) (models.EstimateRequest, error)
	Estimate(ctx context.Context, req models.EstimateRequest) (*estimation.Estimate, error)
	Ready() bool
	ModelVersion() string
}

type Server struct {
	httpServer *http.Server
	log        logger.Logger
}

// NewServer builds the router. limiter may be nil to disable rate limiting.
func NewServer(cfg *config.Config, est Estimator, limiter *RateLimiter, log logger.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.App.HTTPPort),
			Handler:           NewRouter(cfg.CORS, est, limiter, log),
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}
}

// NewRouter wires the estimate, probe and metrics routes.
func NewRouter(corsCfg config.CORSConfig, est Estimator, limiter *RateLimiter, log logger.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP, LoggerMiddleware(log), middleware.Recoverer)
	r.Use(SecurityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsCfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	h := &estimateHandler{est: est, log: log}

	r.Get("/health", h.health)
	r.Get("/ready", h.ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter.Middleware)
		}
		r.Post("/estimate", h.estimate)
	})

	return r
}

func (s *Server) Start() error {
	s.log.Info("Starting HTTP server", map[string]interface{}{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("Stopping HTTP server", nil)
	return s.httpServer.Shutdown(ctx)
}

type estimateHandler struct {
	est Estimator
	log logger.Logger
}

func (h *estimateHandler) health(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *estimateHandler) ready(w http.ResponseWriter, r *http.Request) {
	if !h.est.Ready() {
		RespondWithJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_loaded"})
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]string{
		"status":        "ready",
		"model_version": h.est.ModelVersion(),
	})
}

func (h *estimateHandler) estimate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		WriteError(w, apperrors.NewInvalidRequestError("request body too large or unreadable"))
		return
	}

	req, err := h.est.DecodeRequest(body)
	if err != nil {
		WriteError(w, err)
		return
	}

	est, err := h.est.Estimate(r.Context(), req)
	if err != nil {
		stdErr := apperrors.AsStandard(err)
		if apperrors.HTTPStatus(stdErr.Code) >= http.StatusInternalServerError {
			h.log.WithError(err).Error("Estimation failed", map[string]interface{}{
				"code":     stdErr.Code,
				"location": req.Location,
			})
		}
		WriteError(w, stdErr)
		return
	}

	RespondWithJSON(w, http.StatusOK, models.EstimateResponse{EstimatedPriceKM: est.PriceKM})
}
