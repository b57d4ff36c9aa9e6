package training

import (
	"net/http"

	"fraudrisk/pkg/serrors"
)

// ErrInsufficientData means the dataset can not produce a meaningful model:
// fewer than two records, a single label value, or a split whose training
// partition holds only one class.
var ErrInsufficientData = serrors.NewKind("INSUFFICIENT_DATA") //nolint: gochecknoglobals

func init() { //nolint: gochecknoinits
	serrors.RegisterStatus(ErrInsufficientData, http.StatusUnprocessableEntity)
}
