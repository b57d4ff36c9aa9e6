package v1handler

import (
	"net/http"

	"fraudrisk/pkg/schema"

	"github.com/go-faster/jx"
)

// Report returns the metrics of the served model as rounded percentages.
func (h *Handler) Report(w http.ResponseWriter, _ *http.Request) {
	s := h.deps.Report.Summary()

	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("accuracy", func(e *jx.Encoder) { e.Float64(s.Accuracy) })
		e.Field("precision", func(e *jx.Encoder) { e.Float64(s.Precision) })
		e.Field("recall", func(e *jx.Encoder) { e.Float64(s.Recall) })
		e.Field("f1", func(e *jx.Encoder) { e.Float64(s.F1) })
	})
	writeJSON(w, http.StatusOK, e.Bytes())
}

// Schema describes the expected feature vector.
func (h *Handler) Schema(w http.ResponseWriter, _ *http.Request) {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("size", func(e *jx.Encoder) { e.Int(schema.Size) })
		e.Field("features", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for i, f := range schema.Features() {
					e.Obj(func(e *jx.Encoder) {
						e.Field("index", func(e *jx.Encoder) { e.Int(i) })
						e.Field("name", func(e *jx.Encoder) { e.Str(f.Name) })
						e.Field("kind", func(e *jx.Encoder) { e.Str(string(f.Kind)) })
						e.Field("doc", func(e *jx.Encoder) { e.Str(f.Doc) })
					})
				}
			})
		})
	})
	writeJSON(w, http.StatusOK, e.Bytes())
}
