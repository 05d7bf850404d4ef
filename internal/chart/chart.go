// Package chart derives the chart series shown alongside a model card.
//
// The series are computed from the section model, not the raw document, so
// a chart can never disagree with the tables next to it. The two business
// rules that decide what is plotted live here: classification metrics that
// are missing or zero are dropped, and column statistics keep only the
// highest mutual-information columns.
package chart

import (
	"sort"

	"github.com/featrix/modelcard/internal/format"
	"github.com/featrix/modelcard/internal/report"
)

// Kind is the visual form of a series.
type Kind string

const (
	Pie Kind = "pie"
	Bar Kind = "bar"
)

// Series identifiers.
const (
	FeatureTypesID          = "feature_types"
	ClassificationMetricsID = "classification_metrics"
	ColumnStatisticsID      = "column_statistics"
)

// DefaultTopColumns is how many columns the column-statistics series keeps.
const DefaultTopColumns = 10

// Point is one labelled value.
type Point struct {
	Label string  `yaml:"label" json:"label"`
	Value float64 `yaml:"value" json:"value"`
}

// Series is an ordered list of points.
type Series struct {
	ID     string  `yaml:"id" json:"id"`
	Title  string  `yaml:"title" json:"title"`
	Kind   Kind    `yaml:"kind" json:"kind"`
	Points []Point `yaml:"points" json:"points"`
}

// Empty reports whether the series has nothing to plot.
func (s Series) Empty() bool { return len(s.Points) == 0 }

// Charts holds the three derived series.
type Charts struct {
	FeatureTypes          Series `yaml:"feature_types" json:"feature_types"`
	ClassificationMetrics Series `yaml:"classification_metrics" json:"classification_metrics"`
	ColumnStatistics      Series `yaml:"column_statistics" json:"column_statistics"`
}

// All returns the series in display order.
func (c Charts) All() []Series {
	return []Series{c.FeatureTypes, c.ClassificationMetrics, c.ColumnStatistics}
}

// Options tune derivation.
type Options struct {
	// TopColumns caps the column-statistics series.
	TopColumns int
}

// DefaultOptions returns the standard derivation options.
func DefaultOptions() Options {
	return Options{TopColumns: DefaultTopColumns}
}

// Derive computes all three series from c.
func Derive(c *report.Card, opts Options) Charts {
	if opts.TopColumns <= 0 {
		opts.TopColumns = DefaultTopColumns
	}
	return Charts{
		FeatureTypes:          FeatureTypes(c),
		ClassificationMetrics: ClassificationMetrics(c),
		ColumnStatistics:      ColumnStatistics(c, opts.TopColumns),
	}
}

// FeatureTypes counts features per type. Types appear in the order they are
// first seen; a feature without a type counts as format.NA.
func FeatureTypes(c *report.Card) Series {
	s := Series{ID: FeatureTypesID, Title: "Feature Types", Kind: Pie}
	features := c.Section(report.SectionFeatures)
	if features == nil || !features.Present {
		return s
	}
	index := make(map[string]int)
	for _, feat := range features.Subsections {
		label := format.NA
		if f, ok := feat.Field("type"); ok {
			label = f.Display
		}
		i, seen := index[label]
		if !seen {
			i = len(s.Points)
			index[label] = i
			s.Points = append(s.Points, Point{Label: label})
		}
		s.Points[i].Value++
	}
	return s
}

// metricOrder is the fixed order of the classification-metric series.
var metricOrder = []struct {
	key   string
	label string
}{
	{"accuracy", "Accuracy"},
	{"precision", "Precision"},
	{"recall", "Recall"},
	{"f1", "F1"},
	{"auc", "AUC"},
}

// ClassificationMetrics lists accuracy, precision, recall, F1 and AUC as
// 0..1 fractions. Metrics that are missing or exactly zero are left out.
func ClassificationMetrics(c *report.Card) Series {
	s := Series{ID: ClassificationMetricsID, Title: "Classification Metrics", Kind: Bar}
	metrics := c.Section(report.SectionMetrics)
	cm := metrics.Sub("classification_metrics")
	if cm == nil || !cm.Present {
		return s
	}
	for _, m := range metricOrder {
		f, ok := cm.Field(m.key)
		if !ok {
			continue
		}
		v, ok := f.Raw.Float()
		if !ok || v == 0 {
			continue
		}
		s.Points = append(s.Points, Point{Label: m.label, Value: v})
	}
	return s
}

// ColumnStatistics ranks columns by mutual information, highest first, and
// keeps the first top. Ties keep document order. Columns without a numeric
// mutual information value are skipped.
func ColumnStatistics(c *report.Card, top int) Series {
	s := Series{ID: ColumnStatisticsID, Title: "Top Columns by Mutual Information", Kind: Bar}
	stats := c.Section(report.SectionColumnStats)
	if stats == nil || !stats.Present {
		return s
	}
	for _, col := range stats.Subsections {
		f, ok := col.Field("mutual_information_bits")
		if !ok {
			continue
		}
		v, ok := f.Raw.Float()
		if !ok {
			continue
		}
		s.Points = append(s.Points, Point{Label: col.Title, Value: v})
	}
	sort.SliceStable(s.Points, func(i, j int) bool {
		return s.Points[i].Value > s.Points[j].Value
	})
	if top > 0 && len(s.Points) > top {
		s.Points = s.Points[:top]
	}
	return s
}
