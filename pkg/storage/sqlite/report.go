package sqlite

import (
	"encoding/json"
	"fmt"

	"fraudrisk/pkg/domain"
)

func jsonReport(report domain.EvaluationReport) (string, error) {
	b, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("could not marshal report: %w", err)
	}

	return string(b), nil
}

func parseReport(s string) (domain.EvaluationReport, error) {
	var report domain.EvaluationReport
	if err := json.Unmarshal([]byte(s), &report); err != nil {
		return report, fmt.Errorf("could not unmarshal report: %w", err)
	}

	return report, nil
}
