package training

import "fraudrisk/pkg/domain"

// Evaluate compares predictions with labels, treating fraud as the positive
// class. A metric whose denominator is zero is reported as 0.
func Evaluate(predicted, actual []domain.Label) domain.EvaluationReport {
	var cm domain.ConfusionMatrix
	for i := range actual {
		switch {
		case predicted[i] == domain.LabelFraudulent && actual[i] == domain.LabelFraudulent:
			cm.TruePositives++
		case predicted[i] == domain.LabelFraudulent:
			cm.FalsePositives++
		case actual[i] == domain.LabelFraudulent:
			cm.FalseNegatives++
		default:
			cm.TrueNegatives++
		}
	}

	precision := ratio(cm.TruePositives, cm.TruePositives+cm.FalsePositives)
	recall := ratio(cm.TruePositives, cm.TruePositives+cm.FalseNegatives)
	f1 := 0.0
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}

	return domain.EvaluationReport{
		Accuracy:  ratio(cm.TruePositives+cm.TrueNegatives, cm.Total()),
		Precision: precision,
		Recall:    recall,
		F1:        f1,
		Confusion: cm,
		TestSize:  cm.Total(),
	}
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}

	return float64(num) / float64(den)
}
