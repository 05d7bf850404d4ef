package classify

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/featrix/modelcard/internal/card"
)

func TestClassifyString(t *testing.T) {
	tests := []struct {
		domain Domain
		raw    string
		want   Tier
	}{
		{Status, "done", Positive},
		{Status, "DONE", Positive},
		{Status, "Training", Caution},
		{Status, "failed", Negative},
		{Status, "PAUSED", Unknown},
		{Status, " done", Unknown},
		{Status, "", Unknown},
		{Severity, "HIGH", Negative},
		{Severity, "moderate", Caution},
		{Severity, "Low", Info},
		{Severity, "critical", Unknown},
		{QualityAssessment, "Excellent", Positive},
		{QualityAssessment, "good", Info},
		{QualityAssessment, "FAIR", Caution},
		{QualityAssessment, "poor", Negative},
		{QualityAssessment, "done", Unknown},
		{Domain("bogus"), "done", Unknown},
	}
	for _, tt := range tests {
		t.Run(string(tt.domain)+"/"+tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyString(tt.domain, tt.raw))
		})
	}
}

func TestClassifyValue(t *testing.T) {
	assert.Equal(t, Positive, Classify(Status, card.TextValue("Done")))
	assert.Equal(t, Unknown, Classify(Status, card.Value{}))
	assert.Equal(t, Unknown, Classify(Status, card.NumberValue(1)))
}

func TestParseDomain(t *testing.T) {
	d, err := ParseDomain("Severity")
	require.NoError(t, err)
	assert.Equal(t, Severity, d)

	d, err = ParseDomain("assessment")
	require.NoError(t, err)
	assert.Equal(t, QualityAssessment, d)

	_, err = ParseDomain("color")
	assert.Error(t, err)
}

func TestValuesOrderedByTier(t *testing.T) {
	assert.Equal(t, []string{"excellent", "good", "fair", "poor"}, Values(QualityAssessment))
	assert.Equal(t, []string{"low", "moderate", "high"}, Values(Severity))
}

func TestTierText(t *testing.T) {
	b, err := json.Marshal(map[string]Tier{"t": Caution})
	require.NoError(t, err)
	assert.JSONEq(t, `{"t":"caution"}`, string(b))

	var tier Tier
	require.NoError(t, tier.UnmarshalText([]byte("Negative")))
	assert.Equal(t, Negative, tier)
	assert.Error(t, tier.UnmarshalText([]byte("purple")))
	assert.Equal(t, "unknown", Tier(42).String())
}
