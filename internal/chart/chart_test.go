package chart

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/featrix/modelcard/internal/card"
	"github.com/featrix/modelcard/internal/cardtest"
	"github.com/featrix/modelcard/internal/format"
	"github.com/featrix/modelcard/internal/report"
)

func model(t *testing.T, src []byte) *report.Card {
	t.Helper()
	doc, err := card.Parse(src)
	require.NoError(t, err)
	return report.Build(doc, report.DefaultOptions())
}

func labels(s Series) []string {
	out := make([]string, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Label
	}
	return out
}

func TestFeatureTypesFirstSeenOrder(t *testing.T) {
	c := model(t, []byte(`{"feature_inventory": [
		{"type": "set"}, {"type": "scalar"}, {"type": "set"},
		{"name": "untyped"}, {"type": "free_string"}, {"type": "scalar"}, {"type": "set"}
	]}`))

	s := FeatureTypes(c)
	assert.Equal(t, Pie, s.Kind)
	assert.Equal(t, []string{"set", "scalar", format.NA, "free_string"}, labels(s))
	assert.Equal(t, []Point{
		{Label: "set", Value: 3},
		{Label: "scalar", Value: 2},
		{Label: format.NA, Value: 1},
		{Label: "free_string", Value: 1},
	}, s.Points)
}

func TestClassificationMetricsAllPresent(t *testing.T) {
	c := model(t, cardtest.Load(cardtest.SinglePredictor))

	s := ClassificationMetrics(c)
	assert.Equal(t, Bar, s.Kind)
	require.Len(t, s.Points, 5)
	assert.Equal(t, []string{"Accuracy", "Precision", "Recall", "F1", "AUC"}, labels(s))
	want := []float64{0.925, 0.912, 0.887, 0.899, 0.967}
	for i, p := range s.Points {
		assert.InDelta(t, want[i], p.Value, 1e-12)
	}
}

func TestClassificationMetricsDropsZeroAndNull(t *testing.T) {
	c := model(t, []byte(`{"training_metrics": {"classification_metrics": {
		"accuracy": 0.8, "precision": 0, "recall": null, "f1": 0.7, "auc": "high"
	}}}`))

	s := ClassificationMetrics(c)
	assert.Equal(t, []string{"Accuracy", "F1"}, labels(s))
}

func TestClassificationMetricsMissing(t *testing.T) {
	c := model(t, cardtest.Load(cardtest.EmbeddingSpace))
	assert.True(t, ClassificationMetrics(c).Empty())

	c = model(t, cardtest.Load(cardtest.Minimal))
	assert.True(t, ClassificationMetrics(c).Empty())
}

func TestColumnStatisticsTopTen(t *testing.T) {
	c := model(t, cardtest.Load(cardtest.EmbeddingSpace))

	s := ColumnStatistics(c, DefaultTopColumns)
	require.Len(t, s.Points, 10)
	for i := 1; i < len(s.Points); i++ {
		assert.GreaterOrEqual(t, s.Points[i-1].Value, s.Points[i].Value)
	}
	// c04 and c11 tie at 2.75; c01, c03 and c07 tie at 0.42.
	assert.Equal(t, []string{"c08", "c04", "c11", "c02", "c06", "c09", "c10", "c01", "c03", "c07"}, labels(s))
}

func TestColumnStatisticsSkipsNonNumeric(t *testing.T) {
	var b strings.Builder
	b.WriteString(`{"column_statistics": {`)
	for i := 0; i < 12; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `"col%d": {"mutual_information_bits": %d}`, i, i%4)
	}
	b.WriteString(`, "broken": {"mutual_information_bits": null}, "odd": 7}}`)

	s := ColumnStatistics(model(t, []byte(b.String())), 10)
	require.Len(t, s.Points, 10)
	assert.NotContains(t, labels(s), "broken")
	assert.NotContains(t, labels(s), "odd")
	assert.Equal(t, "col3", s.Points[0].Label)
	assert.Equal(t, "col7", s.Points[1].Label)
}

func TestDeriveEmptyCard(t *testing.T) {
	charts := Derive(model(t, []byte(`{}`)), DefaultOptions())
	for _, s := range charts.All() {
		assert.True(t, s.Empty(), s.ID)
	}
}

func TestDeriveTopColumnsOption(t *testing.T) {
	charts := Derive(model(t, cardtest.Load(cardtest.EmbeddingSpace)), Options{TopColumns: 3})
	assert.Len(t, charts.ColumnStatistics.Points, 3)
	assert.Equal(t, []string{"scalar", "set", "free_string"}, labels(charts.FeatureTypes))
}

func TestMermaid(t *testing.T) {
	pie := Series{Kind: Pie, Title: "Feature Types", Points: []Point{{"set", 2}, {"sc\"alar", 1}}}
	assert.Equal(t, "pie title Feature Types\n    \"set\" : 2\n    \"sc#quot;alar\" : 1\n", Mermaid(pie))

	bar := Series{Kind: Bar, Title: "Metrics", Points: []Point{{"Accuracy", 0.925}, {"AUC", 0.967}}}
	want := "xychart-beta\n    title \"Metrics\"\n    x-axis [\"Accuracy\", \"AUC\"]\n    bar [0.925, 0.967]\n"
	assert.Equal(t, want, Mermaid(bar))

	assert.Equal(t, "", Mermaid(Series{Kind: Bar}))
}
