// Package forest implements a random forest binary classifier: an ensemble of
// CART trees grown on bootstrap samples with Gini impurity and a random subset
// of candidate features per split. Training is single-threaded and fully
// determined by Options.Seed, so equal inputs produce equal forests.
//
// A fitted Forest is immutable; Predict and PredictProba are safe for
// concurrent use.
package forest

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

var (
	// ErrNoSamples is returned when Fit receives no rows.
	ErrNoSamples = errors.New("no training samples")
	// ErrSingleClass is returned when every training label is the same.
	ErrSingleClass = errors.New("training labels contain a single class")
	// ErrShape is returned when rows and labels disagree in size or width.
	ErrShape = errors.New("inconsistent training data shape")
)

// Options configure Fit.
type Options struct {
	// Trees is the number of trees in the ensemble.
	Trees int
	// Seed drives bootstrap sampling and feature selection.
	Seed int64
	// MaxFeatures is the number of candidate features per split. Zero means
	// floor(sqrt(features)).
	MaxFeatures int
	// MaxDepth limits tree depth. Zero grows trees until leaves are pure.
	MaxDepth int
	// MinSamplesSplit is the minimum node size that may be split.
	MinSamplesSplit int
}

// DefaultOptions returns 100 trees seeded with 42.
func DefaultOptions() Options {
	return Options{
		Trees:           100,
		Seed:            42,
		MinSamplesSplit: 2,
	}
}

// Forest is a fitted classifier.
type Forest struct {
	NumFeatures int    `json:"numFeatures"`
	Trees       []Tree `json:"trees"`
}

// Fit grows a forest on rows X with binary labels y (0 or 1).
func Fit(X [][]float64, y []int, opts Options) (*Forest, error) {
	if len(X) == 0 {
		return nil, ErrNoSamples
	}
	if len(X) != len(y) {
		return nil, fmt.Errorf("%w: %d rows, %d labels", ErrShape, len(X), len(y))
	}
	width := len(X[0])
	if width == 0 {
		return nil, fmt.Errorf("%w: rows have no features", ErrShape)
	}
	positives := 0
	for i, row := range X {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d features, want %d", ErrShape, i, len(row), width)
		}
		switch y[i] {
		case 0:
		case 1:
			positives++
		default:
			return nil, fmt.Errorf("%w: label %d at row %d is not binary", ErrShape, y[i], i)
		}
	}
	if positives == 0 || positives == len(y) {
		return nil, ErrSingleClass
	}

	if opts.Trees <= 0 {
		opts.Trees = DefaultOptions().Trees
	}
	if opts.MinSamplesSplit < 2 {
		opts.MinSamplesSplit = 2
	}
	if opts.MaxFeatures <= 0 || opts.MaxFeatures > width {
		opts.MaxFeatures = max(1, int(math.Sqrt(float64(width))))
	}

	rng := rand.New(rand.NewSource(opts.Seed)) //nolint: gosec
	f := &Forest{
		NumFeatures: width,
		Trees:       make([]Tree, opts.Trees),
	}
	for t := range f.Trees {
		g := &grower{
			x:    X,
			y:    y,
			opts: opts,
			rng:  rand.New(rand.NewSource(rng.Int63())), //nolint: gosec
		}
		f.Trees[t] = g.grow(bootstrap(g.rng, len(X)))
	}

	return f, nil
}

// InputSize is the feature vector length the forest was fitted on.
func (f *Forest) InputSize() int { return f.NumFeatures }

// PredictProba returns the probability that x belongs to the positive class,
// averaged over all trees.
func (f *Forest) PredictProba(x []float64) float64 {
	if len(f.Trees) == 0 {
		return 0
	}

	sum := 0.0
	for i := range f.Trees {
		sum += f.Trees[i].predict(x)
	}

	return sum / float64(len(f.Trees))
}

// Predict returns 1 when the positive class is the majority vote, else 0.
func (f *Forest) Predict(x []float64) int {
	if f.PredictProba(x) > 0.5 {
		return 1
	}

	return 0
}

func bootstrap(rng *rand.Rand, n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = rng.Intn(n)
	}

	return idx
}
