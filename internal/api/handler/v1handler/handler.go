// Package v1handler implements the v1 HTTP API: scoring, the model report,
// the feature schema and background training runs.
package v1handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"fraudrisk/internal/scoring"
	"fraudrisk/internal/training"
	"fraudrisk/pkg/domain"
	"fraudrisk/pkg/logger"
	"fraudrisk/pkg/schema"
	"fraudrisk/pkg/serrors"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/jx"
	"go.uber.org/zap"
)

// DefaultMaxBodyBytes bounds request bodies when Deps leaves it unset.
const DefaultMaxBodyBytes = 64 << 10

// Deps are the services the v1 handlers call.
type Deps struct {
	Scorer scoring.Scorer
	// Report belongs to the model behind Scorer.
	Report domain.EvaluationReport
	// Trainer enables the /train endpoints when set.
	Trainer      training.Trainer
	MaxBodyBytes int64
}

// Handler serves the v1 API.
type Handler struct {
	deps Deps
}

// New returns a Handler. A zero MaxBodyBytes means DefaultMaxBodyBytes.
func New(deps Deps) *Handler {
	if deps.MaxBodyBytes <= 0 {
		deps.MaxBodyBytes = DefaultMaxBodyBytes
	}

	return &Handler{deps: deps}
}

// Routes returns the router mounted under /v1.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/predict", h.Predict)
	r.Get("/report", h.Report)
	r.Get("/schema", h.Schema)
	if h.deps.Trainer != nil {
		r.Post("/train", h.Train)
		r.Get("/train/{id}", h.TrainingRun)
	}

	return r
}

// Healthz reports liveness. The model is loaded before the listener starts,
// so a running server is always ready to score.
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("status", func(e *jx.Encoder) { e.Str("ok") })
	})
	writeJSON(w, http.StatusOK, e.Bytes())
}

func (h *Handler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.deps.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, bodyError(fmt.Sprintf("at most %d bytes", tooLarge.Limit), "a larger body", err)
		}

		return nil, fmt.Errorf("could not read request body: %w", err)
	}

	return body, nil
}

// bodyError reports a request body that could not be decoded at all.
func bodyError(expected, actual string, cause error) error {
	return serrors.Wrap(serrors.ErrBadRequest, &schema.FieldError{
		Field:    "body",
		Reason:   schema.ReasonMismatch,
		Expected: expected,
		Actual:   actual,
	}, "malformed request body: %v", cause)
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// NewError renders err as {"error", "code"[, "field"]} with the status of its
// semantic kind. Server errors are logged and their details withheld.
func (h *Handler) NewError(ctx context.Context, w http.ResponseWriter, err error) {
	status := serrors.HTTPStatus(err)

	code := serrors.ErrInternal.Error()
	if k := serrors.KindOf(err); k != nil {
		code = k.Error()
	}
	message := err.Error()
	if status >= http.StatusInternalServerError {
		logger.Error(ctx, "request failed", zap.Error(err))
		code = serrors.ErrInternal.Error()
		message = "internal error"
	}

	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("error", func(e *jx.Encoder) { e.Str(message) })
		e.Field("code", func(e *jx.Encoder) { e.Str(code) })
		if fe, ok := schema.FieldOf(err); ok && status < http.StatusInternalServerError {
			e.Field("field", func(e *jx.Encoder) { e.Str(fe.Field) })
		}
	})
	writeJSON(w, status, e.Bytes())
}
