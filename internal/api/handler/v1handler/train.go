package v1handler

import (
	"fmt"
	"net/http"
	"time"

	"fraudrisk/internal/training"
	"fraudrisk/pkg/domain"
	"fraudrisk/pkg/serrors"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/jx"
	"github.com/google/uuid"
)

// DecodeTrainRequest parses {"path": "...", "format": "raw"|"dataset"}.
// Format defaults to raw.
func DecodeTrainRequest(body []byte) (training.Source, error) {
	src := training.Source{Format: domain.SourceFormatRaw}

	d := jx.DecodeBytes(body)
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "path":
			v, err := d.Str()
			src.Path = v

			return err //nolint: wrapcheck
		case "format":
			v, err := d.Str()
			src.Format = domain.SourceFormat(v)

			return err //nolint: wrapcheck
		default:
			return d.Skip() //nolint: wrapcheck
		}
	})
	if err != nil {
		return training.Source{}, bodyError("a JSON object with string path and format", "malformed JSON", err)
	}

	return src, nil
}

// EncodeTrainingRun renders a run, with its report summary once completed.
func EncodeTrainingRun(run *domain.TrainingRun) []byte {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(run.ID.String()) })
		e.Field("source", func(e *jx.Encoder) { e.Str(run.Source) })
		e.Field("format", func(e *jx.Encoder) { e.Str(string(run.Format)) })
		e.Field("status", func(e *jx.Encoder) { e.Str(string(run.Status)) })
		e.Field("attempts", func(e *jx.Encoder) { e.UInt(run.Attempts) })
		if run.LastError != "" {
			e.Field("lastError", func(e *jx.Encoder) { e.Str(run.LastError) })
		}
		if run.Report != nil {
			s := run.Report.Summary()
			e.Field("report", func(e *jx.Encoder) {
				e.Obj(func(e *jx.Encoder) {
					e.Field("accuracy", func(e *jx.Encoder) { e.Float64(s.Accuracy) })
					e.Field("precision", func(e *jx.Encoder) { e.Float64(s.Precision) })
					e.Field("recall", func(e *jx.Encoder) { e.Float64(s.Recall) })
					e.Field("f1", func(e *jx.Encoder) { e.Float64(s.F1) })
				})
			})
		}
		e.Field("createdAt", func(e *jx.Encoder) { e.Str(run.CreatedAt.Format(time.RFC3339Nano)) })
		if !run.UpdatedAt.IsZero() {
			e.Field("updatedAt", func(e *jx.Encoder) { e.Str(run.UpdatedAt.Format(time.RFC3339Nano)) })
		}
	})

	return e.Bytes()
}

// Train queues a background training run.
func (h *Handler) Train(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := h.readBody(w, r)
	if err != nil {
		h.NewError(ctx, w, err)

		return
	}
	src, err := DecodeTrainRequest(body)
	if err != nil {
		h.NewError(ctx, w, err)

		return
	}

	run, err := h.deps.Trainer.Enqueue(ctx, src)
	if err != nil {
		h.NewError(ctx, w, err)

		return
	}

	w.Header().Set("Location", fmt.Sprintf("/v1/train/%s", run.ID))
	writeJSON(w, http.StatusAccepted, EncodeTrainingRun(run))
}

// TrainingRun returns a training run by id.
func (h *Handler) TrainingRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.NewError(ctx, w, serrors.Wrap(serrors.ErrBadRequest, err, "invalid training run id"))

		return
	}

	run, err := h.deps.Trainer.Run(ctx, domain.RunID(id))
	if err != nil {
		h.NewError(ctx, w, err)

		return
	}

	writeJSON(w, http.StatusOK, EncodeTrainingRun(run))
}
