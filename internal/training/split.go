package training

import (
	"math/rand"

	"fraudrisk/pkg/domain"

	"github.com/shopspring/decimal"
)

// Split partitions records into a training and a held-out test partition.
// The test partition holds ceil(testFraction·n) records picked by a shuffle
// seeded with seed, so equal input order yields equal partitions.
func Split(records []domain.LabeledRecord, testFraction float64, seed int64) (train, test []domain.LabeledRecord) {
	n := len(records)
	k := testSize(n, testFraction)

	perm := rand.New(rand.NewSource(seed)).Perm(n) //nolint: gosec
	test = make([]domain.LabeledRecord, 0, k)
	train = make([]domain.LabeledRecord, 0, n-k)
	for i, idx := range perm {
		if i < k {
			test = append(test, records[idx])
		} else {
			train = append(train, records[idx])
		}
	}

	return train, test
}

// testSize is computed in decimal so that e.g. 0.2·35 is exactly 7.
func testSize(n int, fraction float64) int {
	k := int(decimal.NewFromFloat(fraction).Mul(decimal.NewFromInt(int64(n))).Ceil().IntPart())

	return min(max(k, 0), n)
}
