package training_test

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fraudrisk/internal/training"
	"fraudrisk/pkg/domain"
	"fraudrisk/pkg/logger"
	"fraudrisk/pkg/schema"
)

func TestMain(m *testing.M) {
	logger.Setup(logger.DevelopmentEnvironment, "error")
	m.Run()
}

// syntheticDataset labels a record fraudulent when its spam score is high.
// Every other feature is noise.
func syntheticDataset(n int, seed int64) domain.Dataset {
	rng := rand.New(rand.NewSource(seed))
	records := make([]domain.LabeledRecord, n)
	for i := range records {
		fraud := i%2 == 1
		spam := rng.Float64() * 0.4
		label := domain.LabelSafe
		if fraud {
			spam += 0.6
			label = domain.LabelFraudulent
		}
		records[i] = domain.LabeledRecord{
			Domain:       fmt.Sprintf("site-%d.com", i),
			Features:     schema.FeatureVector{float64(rng.Intn(20)), float64(rng.Intn(2)), float64(rng.Intn(2)), spam},
			IsFraudulent: label,
		}
	}

	return domain.NewDataset(records)
}

func fixedClock() time.Time {
	return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
}

func TestSplit(t *testing.T) {
	records := syntheticDataset(35, 1).Records()

	train, test := training.Split(records, 0.2, 42)
	require.Len(t, test, 7)
	require.Len(t, train, 28)

	seen := map[string]bool{}
	for _, r := range append(append([]domain.LabeledRecord{}, train...), test...) {
		require.False(t, seen[r.Domain])
		seen[r.Domain] = true
	}
	require.Len(t, seen, 35)

	train2, test2 := training.Split(records, 0.2, 42)
	require.Equal(t, train, train2)
	require.Equal(t, test, test2)

	_, test3 := training.Split(records, 0.2, 7)
	require.NotEqual(t, test, test3)

	_, test = training.Split(records[:10], 0.2, 42)
	require.Len(t, test, 2)
	_, test = training.Split(records[:11], 0.2, 42)
	require.Len(t, test, 3)
}

func TestEvaluate(t *testing.T) {
	f, s := domain.LabelFraudulent, domain.LabelSafe

	t.Run("perfect", func(t *testing.T) {
		r := training.Evaluate([]domain.Label{f, s, f, s}, []domain.Label{f, s, f, s})
		require.InDelta(t, 1.0, r.Accuracy, 1e-12)
		require.InDelta(t, 1.0, r.Precision, 1e-12)
		require.InDelta(t, 1.0, r.Recall, 1e-12)
		require.InDelta(t, 1.0, r.F1, 1e-12)
		require.Equal(t, 4, r.TestSize)
	})

	t.Run("no positive predictions", func(t *testing.T) {
		r := training.Evaluate([]domain.Label{s, s, s, s}, []domain.Label{f, s, f, s})
		require.InDelta(t, 0.5, r.Accuracy, 1e-12)
		require.Zero(t, r.Precision)
		require.Zero(t, r.Recall)
		require.Zero(t, r.F1)
		require.Equal(t, domain.ConfusionMatrix{TrueNegatives: 2, FalseNegatives: 2}, r.Confusion)
	})

	t.Run("mixed", func(t *testing.T) {
		// tp=2 fp=1 fn=1 tn=1
		r := training.Evaluate([]domain.Label{f, f, f, s, s}, []domain.Label{f, f, s, f, s})
		require.InDelta(t, 0.6, r.Accuracy, 1e-12)
		require.InDelta(t, 2.0/3, r.Precision, 1e-12)
		require.InDelta(t, 2.0/3, r.Recall, 1e-12)
		require.InDelta(t, 2.0/3, r.F1, 1e-12)
	})

	t.Run("empty", func(t *testing.T) {
		r := training.Evaluate(nil, nil)
		require.Zero(t, r.Accuracy)
		require.Zero(t, r.F1)
	})
}

func TestEngine_InsufficientData(t *testing.T) {
	e := training.NewEngine(training.WithClock(fixedClock))
	ctx := context.Background()

	_, _, err := e.Train(ctx, domain.NewDataset(nil))
	require.ErrorIs(t, err, training.ErrInsufficientData)

	one := syntheticDataset(1, 1)
	_, _, err = e.Train(ctx, one)
	require.ErrorIs(t, err, training.ErrInsufficientData)

	var safeOnly []domain.LabeledRecord
	for _, r := range syntheticDataset(20, 1).Records() {
		if r.IsFraudulent == domain.LabelSafe {
			safeOnly = append(safeOnly, r)
		}
	}
	_, _, err = e.Train(ctx, domain.NewDataset(safeOnly))
	require.ErrorIs(t, err, training.ErrInsufficientData)

	// two records: one goes to the test split, leaving one class to train on
	_, _, err = e.Train(ctx, syntheticDataset(2, 1))
	require.ErrorIs(t, err, training.ErrInsufficientData)
}

func TestEngine_RejectsSchemaMismatch(t *testing.T) {
	e := training.NewEngine(training.WithClock(fixedClock))
	records := syntheticDataset(20, 2).Records()

	short := append([]domain.LabeledRecord{}, records...)
	short[7].Features = schema.FeatureVector{3, 1, 0}
	_, _, err := e.Train(context.Background(), domain.NewDataset(short))
	require.ErrorIs(t, err, schema.ErrSchemaMismatch)
	require.True(t, training.IsPermanent(err))
	fe, ok := schema.FieldOf(err)
	require.True(t, ok)
	require.Equal(t, schema.SpamScore, fe.Field)
	require.ErrorContains(t, err, "record 7 (site-7.com)")

	outOfDomain := append([]domain.LabeledRecord{}, records...)
	outOfDomain[3].Features = schema.FeatureVector{3, 2, 0, 0.5}
	_, _, err = e.Train(context.Background(), domain.NewDataset(outOfDomain))
	fe, ok = schema.FieldOf(err)
	require.True(t, ok)
	require.Equal(t, schema.HasSSL, fe.Field)

	badLabel := append([]domain.LabeledRecord{}, records...)
	badLabel[0].IsFraudulent = domain.Label(2)
	_, _, err = e.Train(context.Background(), domain.NewDataset(badLabel))
	fe, ok = schema.FieldOf(err)
	require.True(t, ok)
	require.Equal(t, schema.LabelColumn, fe.Field)
}

func TestEngine_Train(t *testing.T) {
	ds := syntheticDataset(200, 3)
	e := training.NewEngine(training.WithClock(fixedClock))

	model, report, err := e.Train(context.Background(), ds)
	require.NoError(t, err)
	require.Equal(t, schema.Size, model.InputSize())
	require.Len(t, model.Trees, training.Trees)

	require.Equal(t, 40, report.TestSize)
	require.Equal(t, 160, report.TrainSize)
	require.Equal(t, report.TestSize, report.Confusion.Total())
	require.Equal(t, fixedClock(), report.TrainedAt)
	for _, v := range []float64{report.Accuracy, report.Precision, report.Recall, report.F1} {
		require.GreaterOrEqual(t, v, 0.0)
		require.LessOrEqual(t, v, 1.0)
	}
	require.GreaterOrEqual(t, report.Accuracy, 0.9)

	require.Less(t, model.PredictProba([]float64{5, 1, 0, 0.1}), 0.5)
	require.Equal(t, 0, model.Predict([]float64{5, 1, 0, 0.1}))
}

func TestEngine_Deterministic(t *testing.T) {
	ds := syntheticDataset(120, 4)

	m1, r1, err := training.NewEngine(training.WithClock(fixedClock)).Train(context.Background(), ds)
	require.NoError(t, err)
	m2, r2, err := training.NewEngine(training.WithClock(fixedClock)).Train(context.Background(), ds)
	require.NoError(t, err)

	require.Equal(t, r1, r2)
	require.Equal(t, m1, m2)
}
