package domain

import "fraudrisk/pkg/schema"

// Label is the binary training target. LabelFraudulent is the positive class.
type Label int

const (
	LabelSafe       Label = 0
	LabelFraudulent Label = 1
)

// LabeledRecord is one training example.
type LabeledRecord struct {
	// Domain is the registrable domain; it identifies the row but is not a feature.
	Domain string
	// Features conform to the feature schema.
	Features schema.FeatureVector
	// IsFraudulent is the label.
	IsFraudulent Label
}

// Dataset is an ordered sequence of records with unique domains. It is
// immutable once built: accessors hand out copies.
type Dataset struct {
	records []LabeledRecord
}

// NewDataset copies records into a new Dataset. Callers are responsible for
// schema conformance and domain uniqueness; the dataset builder guarantees both.
func NewDataset(records []LabeledRecord) Dataset {
	out := make([]LabeledRecord, len(records))
	for i, r := range records {
		out[i] = r.clone()
	}

	return Dataset{records: out}
}

// Len returns the number of records.
func (d Dataset) Len() int { return len(d.records) }

// At returns a copy of the i-th record.
func (d Dataset) At(i int) LabeledRecord { return d.records[i].clone() }

// Records returns a copy of all records in order.
func (d Dataset) Records() []LabeledRecord {
	out := make([]LabeledRecord, len(d.records))
	for i, r := range d.records {
		out[i] = r.clone()
	}

	return out
}

// LabelCounts returns the number of safe and fraudulent records.
func (d Dataset) LabelCounts() (safe, fraudulent int) {
	for _, r := range d.records {
		if r.IsFraudulent == LabelFraudulent {
			fraudulent++
		} else {
			safe++
		}
	}

	return safe, fraudulent
}

func (r LabeledRecord) clone() LabeledRecord {
	r.Features = append(schema.FeatureVector(nil), r.Features...)

	return r
}
