package dataset

import (
	"context"
	"strings"

	"fraudrisk/pkg/schema"
)

// RawRecord is one row of the raw labeled corpus.
type RawRecord struct {
	URL   string
	Label string
}

// Extractor computes the feature vector of a record whose registrable domain
// is already known. Real extractors (WHOIS age, reputation feeds) implement it
// without touching the schema or the training code.
//
//go:generate mockgen -package mockdataset -source=extractor.go -destination=mock/mockdataset.go *
type Extractor interface {
	Extract(ctx context.Context, rec RawRecord, registrable string) (schema.FeatureVector, error)
}

// Placeholders are the constant values used for signals that are not computed
// yet.
type Placeholders struct {
	// DomainAge in years.
	DomainAge int
	// WhoisPrivacy is 1 when registrant details are assumed hidden.
	WhoisPrivacy int
	// SpamScore in [0, 1].
	SpamScore float64
}

// DefaultPlaceholders mirrors the values the corpus was first labeled with.
func DefaultPlaceholders() Placeholders {
	return Placeholders{
		DomainAge:    1,
		WhoisPrivacy: 1,
		SpamScore:    0.8,
	}
}

// PlaceholderExtractor derives has_ssl from the URL scheme and fills every
// other feature with a constant.
type PlaceholderExtractor struct {
	values Placeholders
}

var _ Extractor = (*PlaceholderExtractor)(nil)

// NewPlaceholderExtractor returns an extractor emitting the given constants.
func NewPlaceholderExtractor(values Placeholders) *PlaceholderExtractor {
	return &PlaceholderExtractor{values: values}
}

func (p *PlaceholderExtractor) Extract(_ context.Context, rec RawRecord, _ string) (schema.FeatureVector, error) {
	v := make(schema.FeatureVector, schema.Size)
	v[schema.DomainAgeIdx] = float64(p.values.DomainAge)
	v[schema.WhoisPrivacyIdx] = float64(p.values.WhoisPrivacy)
	v[schema.SpamScoreIdx] = p.values.SpamScore
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(rec.URL)), "https") {
		v[schema.HasSSLIdx] = 1
	}

	return v, nil
}
