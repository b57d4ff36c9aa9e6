package v1handler

import (
	"fmt"
	"net/http"

	"fraudrisk/pkg/schema"

	"github.com/go-faster/jx"
)

// DecodePredictRequest parses {"features":[...]} into a vector. Items must be
// JSON numbers; the length is left to schema validation.
func DecodePredictRequest(body []byte) (schema.FeatureVector, error) {
	d := jx.DecodeBytes(body)
	if d.Next() != jx.Object {
		return nil, bodyError("a JSON object", d.Next().String(), fmt.Errorf("body is not an object"))
	}

	var (
		features schema.FeatureVector
		seen     bool
	)
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		if string(key) != "features" {
			return d.Skip() //nolint: wrapcheck
		}
		seen = true

		if tt := d.Next(); tt != jx.Array {
			if err := d.Skip(); err != nil {
				return err //nolint: wrapcheck
			}

			return schema.Mismatch("features", schema.ReasonMismatch,
				fmt.Sprintf("an array of %d numbers", schema.Size), tt.String())
		}

		features = schema.FeatureVector{}
		return d.Arr(func(d *jx.Decoder) error {
			i := len(features)
			if tt := d.Next(); tt != jx.Number {
				if err := d.Skip(); err != nil {
					return err //nolint: wrapcheck
				}

				return schema.Mismatch(schema.ItemField(i), schema.ReasonMismatch, "a number", tt.String())
			}
			v, err := d.Float64()
			if err != nil {
				return schema.Mismatch(schema.ItemField(i), schema.ReasonMismatch, "a number", err.Error())
			}
			features = append(features, v)

			return nil
		})
	})
	if err != nil {
		if _, ok := schema.FieldOf(err); ok {
			return nil, err
		}

		return nil, bodyError("valid JSON", "malformed JSON", err)
	}
	if d.Next() != jx.Invalid {
		return nil, bodyError("a single JSON object", "trailing data", fmt.Errorf("unexpected data after object"))
	}
	if !seen {
		return nil, schema.Mismatch("features", schema.ReasonMissing,
			fmt.Sprintf("an array of %d numbers", schema.Size), "nothing")
	}

	return features, nil
}

// EncodePredictResponse renders {"fraud_risk":0|1,"risk_score":risk}.
func EncodePredictResponse(isFraud bool, risk float64) []byte {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("fraud_risk", func(e *jx.Encoder) {
			if isFraud {
				e.Int(1)
			} else {
				e.Int(0)
			}
		})
		e.Field("risk_score", func(e *jx.Encoder) { e.Float64(risk) })
	})

	return e.Bytes()
}

// Predict scores the posted feature vector.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := h.readBody(w, r)
	if err != nil {
		h.NewError(ctx, w, err)

		return
	}
	features, err := DecodePredictRequest(body)
	if err != nil {
		h.NewError(ctx, w, err)

		return
	}

	isFraud, risk, err := h.deps.Scorer.Score(ctx, features)
	if err != nil {
		h.NewError(ctx, w, err)

		return
	}

	writeJSON(w, http.StatusOK, EncodePredictResponse(isFraud, risk))
}
