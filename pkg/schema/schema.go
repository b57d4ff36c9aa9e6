// Package schema is the single definition of the classifier's input contract:
// the ordered feature names, their value domains and the label column. The
// dataset builder, the training engine and the scoring service all validate
// against it, so a drift between training and serving fails loudly instead of
// silently shifting columns.
package schema

import (
	"fmt"
	"math"
)

// Kind describes the value domain of a feature.
type Kind string

const (
	// KindCount is a non-negative integer.
	KindCount Kind = "count"
	// KindBinary is exactly 0 or 1.
	KindBinary Kind = "binary"
	// KindUnit is a real number in [0, 1].
	KindUnit Kind = "unit"
)

// Feature is one named input of the classifier.
type Feature struct {
	Name string
	Kind Kind
	// Doc is a short human description, served alongside the schema.
	Doc string
}

// Feature names, in schema order.
const (
	DomainAge    = "domain_age"
	HasSSL       = "has_ssl"
	WhoisPrivacy = "whois_privacy"
	SpamScore    = "spam_score"
)

// Identifier and label columns of the dataset interchange format.
const (
	DomainColumn = "domain"
	LabelColumn  = "is_fraudulent"
)

// Feature indexes into a FeatureVector.
const (
	DomainAgeIdx = iota
	HasSSLIdx
	WhoisPrivacyIdx
	SpamScoreIdx
)

var features = [...]Feature{ //nolint: gochecknoglobals
	{Name: DomainAge, Kind: KindCount, Doc: "age of the domain registration in years"},
	{Name: HasSSL, Kind: KindBinary, Doc: "1 when the URL is served over https"},
	{Name: WhoisPrivacy, Kind: KindBinary, Doc: "1 when WHOIS registrant details are hidden"},
	{Name: SpamScore, Kind: KindUnit, Doc: "spam reputation score"},
}

// Size is the number of features in a FeatureVector.
const Size = len(features)

// Features returns a copy of the ordered feature definitions.
func Features() []Feature {
	out := make([]Feature, Size)
	copy(out, features[:])

	return out
}

// Names returns the ordered feature names.
func Names() []string {
	out := make([]string, Size)
	for i, f := range features {
		out[i] = f.Name
	}

	return out
}

// Columns returns the header of the dataset interchange file.
func Columns() []string {
	return append(append([]string{DomainColumn}, Names()...), LabelColumn)
}

// FeatureVector holds one value per feature, positionally matching Names().
type FeatureVector []float64

// Named returns the vector as a name → value map.
func (v FeatureVector) Named() map[string]float64 {
	out := make(map[string]float64, len(v))
	for i, val := range v {
		if i < Size {
			out[features[i].Name] = val
		}
	}

	return out
}

// Validate checks v against the schema and returns a schema mismatch error
// naming the first missing, extra or out-of-domain field.
func Validate(v FeatureVector) error {
	for i, f := range features {
		if i >= len(v) {
			return mismatch(f.Name, ReasonMissing, "a value", fmt.Sprintf("%d values", len(v)))
		}
		if err := checkValue(f, v[i]); err != nil {
			return err
		}
	}
	if len(v) > Size {
		return mismatch(ItemField(Size), ReasonExtra,
			fmt.Sprintf("%d values", Size), fmt.Sprintf("%d values", len(v)))
	}

	return nil
}

// ItemField names position i of a vector: the feature name inside the schema,
// features[i] past its end.
func ItemField(i int) string {
	if i >= 0 && i < Size {
		return features[i].Name
	}

	return fmt.Sprintf("features[%d]", i)
}

// FromNamed builds a vector from a name → value map, rejecting missing or
// unknown names.
func FromNamed(named map[string]float64) (FeatureVector, error) {
	v := make(FeatureVector, Size)
	for i, f := range features {
		val, ok := named[f.Name]
		if !ok {
			return nil, mismatch(f.Name, ReasonMissing, "a value", "nothing")
		}
		v[i] = val
	}
	if len(named) > Size {
		for name := range named {
			if indexOf(name) < 0 {
				return nil, mismatch(name, ReasonExtra, "no such feature", "a value")
			}
		}
	}

	return v, Validate(v)
}

// Check verifies that names equals the dataset interchange header exactly.
func Check(names []string) error {
	want := Columns()
	for i, col := range want {
		if i >= len(names) {
			return mismatch(col, ReasonMissing, "column "+col, "end of header")
		}
		if names[i] != col {
			return mismatch(col, ReasonMismatch, "column "+col, "column "+names[i])
		}
	}
	if len(names) > len(want) {
		return mismatch(names[len(want)], ReasonExtra, fmt.Sprintf("%d columns", len(want)),
			fmt.Sprintf("%d columns", len(names)))
	}

	return nil
}

func checkValue(f Feature, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return mismatch(f.Name, ReasonOutOfDomain, string(f.Kind), "non-finite value")
	}

	ok := true
	switch f.Kind {
	case KindCount:
		ok = val >= 0 && val == math.Trunc(val)
	case KindBinary:
		ok = val == 0 || val == 1
	case KindUnit:
		ok = val >= 0 && val <= 1
	}
	if !ok {
		return mismatch(f.Name, ReasonOutOfDomain, string(f.Kind), fmt.Sprintf("%g", val))
	}

	return nil
}

func indexOf(name string) int {
	for i, f := range features {
		if f.Name == name {
			return i
		}
	}

	return -1
}
