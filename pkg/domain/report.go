package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConfusionMatrix counts test-split predictions against their labels, with
// fraud as the positive class.
type ConfusionMatrix struct {
	TruePositives  int `json:"truePositives"`
	FalsePositives int `json:"falsePositives"`
	TrueNegatives  int `json:"trueNegatives"`
	FalseNegatives int `json:"falseNegatives"`
}

// Total is the number of evaluated predictions.
func (c ConfusionMatrix) Total() int {
	return c.TruePositives + c.FalsePositives + c.TrueNegatives + c.FalseNegatives
}

// EvaluationReport holds held-out metrics of one training run. Metric values
// are fractions in [0, 1].
type EvaluationReport struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`

	Confusion ConfusionMatrix `json:"confusion"`
	TrainSize int             `json:"trainSize"`
	TestSize  int             `json:"testSize"`
	TrainedAt time.Time       `json:"trainedAt"`
}

// ReportSummary is the interchange form of a report: percentages rounded to
// two decimals, as consumed by the frontend.
type ReportSummary struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

var hundred = decimal.NewFromInt(100) //nolint: gochecknoglobals

func percent(v float64) float64 {
	return decimal.NewFromFloat(v).Mul(hundred).Round(2).InexactFloat64()
}

// Summary converts r into its interchange form.
func (r EvaluationReport) Summary() ReportSummary {
	return ReportSummary{
		Accuracy:  percent(r.Accuracy),
		Precision: percent(r.Precision),
		Recall:    percent(r.Recall),
		F1:        percent(r.F1),
	}
}
