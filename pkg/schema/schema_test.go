package schema_test

import (
	"math"
	"testing"

	"fraudrisk/pkg/schema"

	"github.com/stretchr/testify/require"
)

func TestNamesAndColumns(t *testing.T) {
	require.Equal(t, []string{"domain_age", "has_ssl", "whois_privacy", "spam_score"}, schema.Names())
	require.Equal(t,
		[]string{"domain", "domain_age", "has_ssl", "whois_privacy", "spam_score", "is_fraudulent"},
		schema.Columns())
	require.Equal(t, 4, schema.Size)

	// callers can not mutate the definitions
	fs := schema.Features()
	fs[0].Name = "changed"
	require.Equal(t, "domain_age", schema.Features()[0].Name)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		in     schema.FeatureVector
		field  string
		reason schema.Reason
	}{
		{name: "valid", in: schema.FeatureVector{5, 1, 0, 0.1}},
		{name: "valid bounds", in: schema.FeatureVector{0, 0, 1, 1}},
		{name: "empty", in: schema.FeatureVector{}, field: "domain_age", reason: schema.ReasonMissing},
		{name: "three values", in: schema.FeatureVector{5, 1, 0}, field: "spam_score", reason: schema.ReasonMissing},
		{name: "five values", in: schema.FeatureVector{5, 1, 0, 0.1, 7}, field: "features[4]", reason: schema.ReasonExtra},
		{name: "negative age", in: schema.FeatureVector{-1, 1, 0, 0.1}, field: "domain_age", reason: schema.ReasonOutOfDomain},
		{name: "fractional age", in: schema.FeatureVector{1.5, 1, 0, 0.1}, field: "domain_age", reason: schema.ReasonOutOfDomain},
		{name: "ssl not binary", in: schema.FeatureVector{1, 2, 0, 0.1}, field: "has_ssl", reason: schema.ReasonOutOfDomain},
		{name: "privacy not binary", in: schema.FeatureVector{1, 1, 0.5, 0.1}, field: "whois_privacy", reason: schema.ReasonOutOfDomain},
		{name: "spam above one", in: schema.FeatureVector{1, 1, 0, 1.01}, field: "spam_score", reason: schema.ReasonOutOfDomain},
		{name: "nan", in: schema.FeatureVector{1, 1, 0, math.NaN()}, field: "spam_score", reason: schema.ReasonOutOfDomain},
		{name: "first offender wins", in: schema.FeatureVector{-3, 9, 9}, field: "domain_age", reason: schema.ReasonOutOfDomain},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := schema.Validate(tc.in)
			if tc.field == "" {
				require.NoError(t, err)

				return
			}

			require.ErrorIs(t, err, schema.ErrSchemaMismatch)
			fe, ok := schema.FieldOf(err)
			require.True(t, ok)
			require.Equal(t, tc.field, fe.Field)
			require.Equal(t, tc.reason, fe.Reason)
		})
	}
}

func TestItemField(t *testing.T) {
	require.Equal(t, schema.DomainAge, schema.ItemField(0))
	require.Equal(t, schema.SpamScore, schema.ItemField(schema.Size-1))
	require.Equal(t, "features[4]", schema.ItemField(schema.Size))
	require.Equal(t, "features[-1]", schema.ItemField(-1))
}

func TestFromNamed(t *testing.T) {
	v, err := schema.FromNamed(map[string]float64{
		"spam_score": 0.2, "domain_age": 3, "has_ssl": 1, "whois_privacy": 0,
	})
	require.NoError(t, err)
	require.Equal(t, schema.FeatureVector{3, 1, 0, 0.2}, v)
	require.Equal(t, 0.2, v.Named()["spam_score"])

	_, err = schema.FromNamed(map[string]float64{"domain_age": 3, "has_ssl": 1, "whois_privacy": 0})
	fe, ok := schema.FieldOf(err)
	require.True(t, ok)
	require.Equal(t, "spam_score", fe.Field)

	_, err = schema.FromNamed(map[string]float64{
		"spam_score": 0.2, "domain_age": 3, "has_ssl": 1, "whois_privacy": 0, "page_rank": 4,
	})
	fe, ok = schema.FieldOf(err)
	require.True(t, ok)
	require.Equal(t, "page_rank", fe.Field)
	require.Equal(t, schema.ReasonExtra, fe.Reason)
}

func TestCheck(t *testing.T) {
	require.NoError(t, schema.Check(schema.Columns()))

	err := schema.Check([]string{"domain", "has_ssl", "domain_age", "whois_privacy", "spam_score", "is_fraudulent"})
	fe, ok := schema.FieldOf(err)
	require.True(t, ok)
	require.Equal(t, "domain_age", fe.Field)

	err = schema.Check([]string{"domain", "domain_age"})
	fe, ok = schema.FieldOf(err)
	require.True(t, ok)
	require.Equal(t, "has_ssl", fe.Field)
	require.Equal(t, schema.ReasonMissing, fe.Reason)

	err = schema.Check(append(schema.Columns(), "notes"))
	fe, ok = schema.FieldOf(err)
	require.True(t, ok)
	require.Equal(t, "notes", fe.Field)
}
