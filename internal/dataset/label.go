package dataset

import (
	"strings"

	"fraudrisk/pkg/domain"
	"fraudrisk/pkg/serrors"
)

// LabelMap translates categorical raw labels into binary labels. Keys are
// compared after trimming whitespace and lower-casing.
type LabelMap map[string]domain.Label

// DefaultLabels is the lookup of the phishing URL corpus.
func DefaultLabels() LabelMap {
	return LabelMap{
		"bad":  domain.LabelFraudulent,
		"good": domain.LabelSafe,
	}
}

// Map returns the binary label for raw or fails with ErrUnknownLabel.
func (m LabelMap) Map(raw string) (domain.Label, error) {
	label, ok := m[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return 0, serrors.With(ErrUnknownLabel, "unknown label %q", raw)
	}

	return label, nil
}
