// Package report builds the section model of a model card.
//
// A Card is an ordered list of ten top-level sections. Each section carries
// fields that are already formatted and classified, so every renderer shows
// the same rounding and the same tier for a given value. A Card is built once
// per render call and is read-only afterwards.
package report

import (
	"encoding/json"

	"github.com/featrix/modelcard/internal/card"
	"github.com/featrix/modelcard/internal/classify"
)

// SectionID identifies a top-level section. The value is the document key
// the section is read from.
type SectionID string

const (
	SectionIdentification SectionID = "model_identification"
	SectionDataset        SectionID = "training_dataset"
	SectionFeatures       SectionID = "feature_inventory"
	SectionConfiguration  SectionID = "training_configuration"
	SectionMetrics        SectionID = "training_metrics"
	SectionArchitecture   SectionID = "model_architecture"
	SectionQuality        SectionID = "model_quality"
	SectionTechnical      SectionID = "technical_details"
	SectionProvenance     SectionID = "provenance"
	SectionColumnStats    SectionID = "column_statistics"
)

// SectionOrder is the fixed order sections appear in every output.
var SectionOrder = []SectionID{
	SectionIdentification,
	SectionDataset,
	SectionFeatures,
	SectionConfiguration,
	SectionMetrics,
	SectionArchitecture,
	SectionQuality,
	SectionTechnical,
	SectionProvenance,
	SectionColumnStats,
}

var sectionTitles = map[SectionID]string{
	SectionIdentification: "Model Identification",
	SectionDataset:        "Training Dataset",
	SectionFeatures:       "Feature Inventory",
	SectionConfiguration:  "Training Configuration",
	SectionMetrics:        "Training Metrics",
	SectionArchitecture:   "Model Architecture",
	SectionQuality:        "Model Quality",
	SectionTechnical:      "Technical Details",
	SectionProvenance:     "Provenance",
	SectionColumnStats:    "Column Statistics",
}

// Title returns the display title of a top-level section.
func (id SectionID) Title() string {
	return sectionTitles[id]
}

// Field is one formatted leaf value.
type Field struct {
	// Key is the document key the value was read from.
	Key string `yaml:"key" json:"key"`

	// Label is the human-readable name.
	Label string `yaml:"label" json:"label"`

	// Raw is the lifted document value. Charts read numbers from here.
	Raw card.Value `yaml:"raw" json:"raw"`

	// Display is the formatted string. It is never empty for an absent
	// value; absent values display as format.NA.
	Display string `yaml:"display" json:"display"`

	// Domain is set for categorical fields (status, severity, quality).
	Domain classify.Domain `yaml:"domain,omitempty" json:"domain,omitempty"`

	// Tier is the classification of a categorical field. It is encoded
	// only when Domain is set.
	Tier classify.Tier `yaml:"tier,omitempty" json:"tier,omitempty"`
}

// Categorical reports whether the field was classified.
func (f Field) Categorical() bool {
	return f.Domain != ""
}

// fieldWire is the encoded form of a Field. Tier is a pointer so that it is
// written for every categorical field, Unknown included, and omitted for
// the rest.
type fieldWire struct {
	Key     string          `yaml:"key" json:"key"`
	Label   string          `yaml:"label" json:"label"`
	Raw     card.Value      `yaml:"raw" json:"raw"`
	Display string          `yaml:"display" json:"display"`
	Domain  classify.Domain `yaml:"domain,omitempty" json:"domain,omitempty"`
	Tier    *classify.Tier  `yaml:"tier,omitempty" json:"tier,omitempty"`
}

func (f Field) wire() fieldWire {
	w := fieldWire{Key: f.Key, Label: f.Label, Raw: f.Raw, Display: f.Display, Domain: f.Domain}
	if f.Categorical() {
		tier := f.Tier
		w.Tier = &tier
	}
	return w
}

// MarshalJSON encodes the field, with its tier when categorical.
func (f Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.wire())
}

// MarshalYAML encodes the field, with its tier when categorical.
func (f Field) MarshalYAML() (any, error) {
	return f.wire(), nil
}

// Section is one logical grouping of the card.
type Section struct {
	// ID is unique within a card and stable across renders, e.g.
	// "feature_inventory.0.statistics".
	ID string `yaml:"id" json:"id"`

	// Key is the local part of ID.
	Key string `yaml:"-" json:"-"`

	Title string `yaml:"title" json:"title"`

	// Present is false when the document holds no data for the section.
	// Renderers emit nothing at all for such a section.
	Present bool `yaml:"present" json:"present"`

	// Emphasis marks a row renderers should highlight, such as the
	// feature that is the target column.
	Emphasis bool `yaml:"emphasis,omitempty" json:"emphasis,omitempty"`

	Fields      []Field    `yaml:"fields,omitempty" json:"fields,omitempty"`
	Subsections []*Section `yaml:"subsections,omitempty" json:"subsections,omitempty"`
}

// Field returns the field with the given key.
func (s *Section) Field(key string) (Field, bool) {
	if s == nil {
		return Field{}, false
	}
	for _, f := range s.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Sub returns the direct subsection with the given local key, or nil.
func (s *Section) Sub(key string) *Section {
	if s == nil {
		return nil
	}
	for _, sub := range s.Subsections {
		if sub.Key == key {
			return sub
		}
	}
	return nil
}

// Card is the complete section model of one document.
type Card struct {
	// Title is "MODEL CARD: <name>".
	Title string `yaml:"title" json:"title"`

	// Name is the model name, "Model Card" when the document has none.
	Name string `yaml:"name" json:"name"`

	Sections []*Section `yaml:"sections" json:"sections"`
}

// Section returns the top-level section with the given id, or nil.
func (c *Card) Section(id SectionID) *Section {
	for _, s := range c.Sections {
		if s.ID == string(id) {
			return s
		}
	}
	return nil
}

// Present returns the top-level sections that have data, in order.
func (c *Card) Present() []*Section {
	var out []*Section
	for _, s := range c.Sections {
		if s.Present {
			out = append(out, s)
		}
	}
	return out
}

// Walk calls fn for every present section depth first. Returning false
// from fn skips that section's subsections.
func (c *Card) Walk(fn func(s *Section, depth int) bool) {
	var walk func(s *Section, depth int)
	walk = func(s *Section, depth int) {
		if !s.Present {
			return
		}
		if !fn(s, depth) {
			return
		}
		for _, sub := range s.Subsections {
			walk(sub, depth+1)
		}
	}
	for _, s := range c.Sections {
		walk(s, 0)
	}
}

// SectionIDs lists the ids of every present section, nested ones included.
func (c *Card) SectionIDs() []string {
	var ids []string
	c.Walk(func(s *Section, _ int) bool {
		ids = append(ids, s.ID)
		return true
	})
	return ids
}
