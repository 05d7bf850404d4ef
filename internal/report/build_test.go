package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/featrix/modelcard/internal/card"
	"github.com/featrix/modelcard/internal/cardtest"
	"github.com/featrix/modelcard/internal/classify"
	"github.com/featrix/modelcard/internal/format"
)

func build(t *testing.T, fixture string) *Card {
	t.Helper()
	doc, err := card.Parse(cardtest.Load(fixture))
	require.NoError(t, err)
	return Build(doc, DefaultOptions())
}

func buildJSON(t *testing.T, src string) *Card {
	t.Helper()
	doc, err := card.Parse([]byte(src))
	require.NoError(t, err)
	return Build(doc, DefaultOptions())
}

func display(t *testing.T, s *Section, key string) string {
	t.Helper()
	require.NotNil(t, s)
	f, ok := s.Field(key)
	require.True(t, ok, "field %q missing from %s", key, s.ID)
	return f.Display
}

func TestBuildSectionOrder(t *testing.T) {
	c := build(t, cardtest.SinglePredictor)
	require.Len(t, c.Sections, len(SectionOrder))
	for i, id := range SectionOrder {
		assert.Equal(t, string(id), c.Sections[i].ID)
		assert.Equal(t, id.Title(), c.Sections[i].Title)
		assert.True(t, c.Sections[i].Present, id)
	}
	assert.Equal(t, "MODEL CARD: alphafreight-mini", c.Title)
}

func TestBuildAbsentSections(t *testing.T) {
	c := build(t, cardtest.Minimal)
	for _, s := range c.Sections {
		if s.ID == string(SectionIdentification) {
			assert.True(t, s.Present)
			continue
		}
		assert.False(t, s.Present, s.ID)
		assert.Empty(t, s.Fields, s.ID)
		assert.Empty(t, s.Subsections, s.ID)
	}
	assert.Len(t, c.Present(), 1)
	assert.Equal(t, []string{"model_identification"}, c.SectionIDs())
}

func TestBuildEmptyAndMistypedSections(t *testing.T) {
	c := buildJSON(t, `{
		"training_dataset": {},
		"feature_inventory": {"name": "x"},
		"model_architecture": [1, 2],
		"column_statistics": {},
		"provenance": null
	}`)
	for _, s := range c.Sections {
		assert.False(t, s.Present, s.ID)
	}
	assert.Equal(t, "Model Card", c.Name)
}

func TestBuildIdentification(t *testing.T) {
	c := build(t, cardtest.SinglePredictor)
	s := c.Section(SectionIdentification)

	assert.Equal(t, "public-alphafreight-", display(t, s, "session_id"))
	assert.Equal(t, DisplayClassifier, display(t, s, "model_type"))
	assert.Equal(t, "DONE", display(t, s, "status"))
	assert.Equal(t, "SET", display(t, s, "target_column_type"))
	assert.Equal(t, "BURRITO", display(t, s, "compute_cluster"))

	status, _ := s.Field("status")
	assert.Equal(t, classify.Status, status.Domain)
	assert.Equal(t, classify.Positive, status.Tier)
	assert.True(t, status.Categorical())
}

func TestBuildIdentificationEmptyStrings(t *testing.T) {
	c := buildJSON(t, `{"model_identification": {"model_type": "", "session_id": "", "name": "blank"}}`)
	s := c.Section(SectionIdentification)

	assert.Equal(t, format.NA, display(t, s, "model_type"))
	assert.Equal(t, format.NA, display(t, s, "session_id"))
}

func TestBuildMissingFieldsDisplayNA(t *testing.T) {
	c := build(t, cardtest.Minimal)
	s := c.Section(SectionIdentification)

	assert.Equal(t, format.NA, display(t, s, "job_id"))
	assert.Equal(t, format.NA, display(t, s, "compute_cluster"))
	assert.Equal(t, "short-id", display(t, s, "session_id"))
	assert.Equal(t, DisplayRegression, display(t, s, "model_type"))

	status, _ := s.Field("status")
	assert.Equal(t, classify.Unknown, status.Tier)
	for _, f := range s.Fields {
		assert.NotEmpty(t, f.Display, f.Key)
	}
}

func TestBuildDataset(t *testing.T) {
	c := build(t, cardtest.EmbeddingSpace)
	s := c.Section(SectionDataset)

	assert.Equal(t, "12,480", display(t, s, "train_rows"))
	assert.Equal(t, "15,600", display(t, s, "total_rows"))
	assert.Equal(t, format.NA, display(t, s, "target_column"))

	names := s.Sub("feature_names")
	require.NotNil(t, names)
	require.Len(t, names.Fields, 12)
	assert.Equal(t, "1", names.Fields[0].Label)
	assert.Equal(t, "c01", names.Fields[0].Display)
	assert.Equal(t, "training_dataset.feature_names", names.ID)
}

func TestBuildFeatures(t *testing.T) {
	c := build(t, cardtest.EmbeddingSpace)
	s := c.Section(SectionFeatures)
	require.Len(t, s.Subsections, 5)

	first := s.Subsections[0]
	assert.Equal(t, "feature_inventory.0", first.ID)
	assert.Equal(t, "c01", first.Title)
	assert.Equal(t, format.NA, display(t, first, "unique_values"))
	_, hasSamples := first.Field("sample_values")
	assert.False(t, hasSamples)

	stats := first.Sub("statistics")
	require.NotNil(t, stats)
	assert.Equal(t, "feature_inventory.0.statistics", stats.ID)
	assert.Equal(t, "0", display(t, stats, "min"))
	assert.Equal(t, "1250.5", display(t, stats, "max"))
	assert.Equal(t, "87.125", display(t, stats, "std"))

	second := s.Subsections[1]
	assert.Equal(t, "a, b, c, d, e (+2 more)", display(t, second, "sample_values"))
	assert.Nil(t, second.Sub("statistics"))
}

func TestBuildFeatureTargetEmphasis(t *testing.T) {
	c := buildJSON(t, `{
		"model_identification": {"target_column": "churn"},
		"feature_inventory": [{"name": "age"}, {"name": "churn"}]
	}`)
	s := c.Section(SectionFeatures)
	require.Len(t, s.Subsections, 2)
	assert.False(t, s.Subsections[0].Emphasis)
	assert.True(t, s.Subsections[1].Emphasis)
}

func TestBuildMetrics(t *testing.T) {
	c := build(t, cardtest.SinglePredictor)
	s := c.Section(SectionMetrics)

	cm := s.Sub("classification_metrics")
	require.NotNil(t, cm)
	assert.Equal(t, "92.50%", display(t, cm, "accuracy"))
	assert.Equal(t, "96.70%", display(t, cm, "auc"))
	assert.Equal(t, "true", display(t, cm, "is_binary"))

	ot := s.Sub("optimal_threshold")
	assert.Equal(t, "0.452", display(t, ot, "optimal_threshold"))
	assert.Equal(t, "89.90%", display(t, ot, "optimal_threshold_f1"))

	best := s.Sub("best_epoch")
	assert.Equal(t, "0.1334", display(t, best, "validation_loss"))
	_, hasSpread := best.Field("spread_loss")
	assert.False(t, hasSpread)

	assert.Nil(t, s.Sub("loss_progression"))
	assert.Nil(t, s.Sub("argmax_metrics"))
}

func TestBuildEmbeddingSpaceMetrics(t *testing.T) {
	c := build(t, cardtest.EmbeddingSpace)
	s := c.Section(SectionMetrics)

	best := s.Sub("best_epoch")
	assert.Equal(t, "2.418", display(t, best, "validation_loss"))
	assert.Equal(t, "0.75", display(t, best, "spread_loss"))

	lp := s.Sub("loss_progression")
	assert.Equal(t, "75.58", display(t, lp, "improvement_pct"))
	assert.NotNil(t, s.Sub("final_epoch"))
	assert.Nil(t, s.Sub("classification_metrics"))
}

func TestBuildArchitectureOptionalRows(t *testing.T) {
	sp := build(t, cardtest.SinglePredictor).Section(SectionArchitecture)
	assert.Equal(t, "264,925,317", display(t, sp, "predictor_parameters"))
	assert.Len(t, sp.Fields, 3)

	es := build(t, cardtest.EmbeddingSpace).Section(SectionArchitecture)
	require.Len(t, es.Fields, 1)
	assert.Equal(t, "embedding_space_d_model", es.Fields[0].Key)
}

func TestBuildQuality(t *testing.T) {
	c := build(t, cardtest.EmbeddingSpace)
	s := c.Section(SectionQuality)

	assessment, ok := s.Field("assessment")
	require.True(t, ok)
	assert.Equal(t, classify.Info, assessment.Tier)

	recs := s.Sub("recommendations")
	require.Len(t, recs.Subsections, 1)
	assert.Equal(t, "Consider dropping c12", display(t, recs.Subsections[0], "suggestion"))

	warnings := s.Sub("warnings")
	require.Len(t, warnings.Subsections, 2)
	low := warnings.Subsections[0]
	assert.Equal(t, "model_quality.warnings.0", low.ID)
	assert.Equal(t, "SLOW_CONVERGENCE", low.Title)
	sev, _ := low.Field("severity")
	assert.Equal(t, classify.Info, sev.Tier)
	_, hasRec := low.Field("recommendation")
	assert.False(t, hasRec)
	assert.Contains(t, display(t, low, "details"), `"plateau_start": 40`)

	high := warnings.Subsections[1]
	sev, _ = high.Field("severity")
	assert.Equal(t, classify.Negative, sev.Tier)
	assert.Equal(t, "Bucket or hash c04", display(t, high, "recommendation"))

	assert.Equal(t, "Loss variance above threshold in final epochs", display(t, s, "training_quality_warning"))
}

func TestBuildQualityNullWarningOmitted(t *testing.T) {
	s := build(t, cardtest.SinglePredictor).Section(SectionQuality)
	_, ok := s.Field("training_quality_warning")
	assert.False(t, ok)
	_, ok = s.Field("assessment")
	assert.False(t, ok)
	assert.Nil(t, s.Sub("recommendations"))

	sev, _ := s.Sub("warnings").Subsections[0].Field("severity")
	assert.Equal(t, classify.Caution, sev.Tier)
}

func TestBuildProvenanceAndTechnical(t *testing.T) {
	c := build(t, cardtest.EmbeddingSpace)
	prov := c.Section(SectionProvenance)
	assert.Equal(t, "2h 5m (125.40 minutes)", display(t, prov, "training_duration_minutes"))
	assert.Contains(t, display(t, prov, "version_info"), `"featrix": "0.2.971"`)

	tech := c.Section(SectionTechnical)
	assert.Equal(t, "layer_norm", display(t, tech, "normalization"))

	sp := build(t, cardtest.SinglePredictor)
	_, ok := sp.Section(SectionTechnical).Field("normalization")
	assert.False(t, ok)
	_, ok = sp.Section(SectionProvenance).Field("version_info")
	assert.False(t, ok)
}

func TestBuildColumnStatisticsOrder(t *testing.T) {
	c := build(t, cardtest.EmbeddingSpace)
	s := c.Section(SectionColumnStats)
	require.Len(t, s.Subsections, 12)
	assert.Equal(t, "c01", s.Subsections[0].Title)
	assert.Equal(t, "c12", s.Subsections[11].Title)
	assert.Equal(t, "2.75", display(t, s.Subsections[3], "mutual_information_bits"))
}

func TestBuildPrecisionOption(t *testing.T) {
	doc, err := card.Parse(cardtest.Load(cardtest.SinglePredictor))
	require.NoError(t, err)
	c := Build(doc, Options{Precision: 2, SampleValues: 2})

	best := c.Section(SectionMetrics).Sub("best_epoch")
	assert.Equal(t, "0.13", display(t, best, "validation_loss"))

	feat := c.Section(SectionFeatures).Subsections[1]
	assert.Equal(t, "long_haul, local_delivery (+3 more)", display(t, feat, "sample_values"))
}

func TestBuildIsDeterministic(t *testing.T) {
	a := build(t, cardtest.EmbeddingSpace)
	b := build(t, cardtest.EmbeddingSpace)
	assert.Equal(t, a, b)
}
