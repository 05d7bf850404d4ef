package catalog

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/featrix/modelcard/internal/card"
	"github.com/featrix/modelcard/internal/classify"
	"github.com/featrix/modelcard/internal/report"
)

// Entry is the catalog summary of one model card.
type Entry struct {
	ID         string        `yaml:"id" json:"id"`
	Name       string        `yaml:"name" json:"name"`
	ModelType  string        `yaml:"model_type" json:"model_type"`
	Status     string        `yaml:"status" json:"status"`
	StatusTier classify.Tier `yaml:"status_tier" json:"status_tier"`
	Assessment string        `yaml:"assessment,omitempty" json:"assessment,omitempty"`
	Accuracy   *float64      `yaml:"accuracy,omitempty" json:"accuracy,omitempty"`
	AUC        *float64      `yaml:"auc,omitempty" json:"auc,omitempty"`
	Warnings   int           `yaml:"warnings" json:"warnings"`
	Source     string        `yaml:"source" json:"source"`
	IndexedAt  time.Time     `yaml:"indexed_at" json:"indexed_at"`
}

// NewEntry summarizes doc, read from source. Cards without a session id get
// an id derived from the absolute source path so re-indexing the same file
// replaces its entry.
func NewEntry(doc *card.Document, source string) Entry {
	if abs, err := filepath.Abs(source); err == nil {
		source = abs
	}

	id, _ := doc.Text("model_identification.session_id").Str()
	if id == "" {
		id = uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+source)).String()
	}

	name, _ := doc.Text("model_identification.name").Str()
	status, _ := doc.Text("model_identification.status").Str()
	assessment, _ := doc.Text("model_quality.assessment").Str()

	return Entry{
		ID:   id,
		Name: name,
		ModelType: report.ModelTypeDisplay(
			doc.Get("model_identification.model_type"),
			doc.Get("model_identification.target_column_type"),
		),
		Status:     status,
		StatusTier: classify.ClassifyString(classify.Status, status),
		Assessment: assessment,
		Accuracy:   optional(doc.Number("training_metrics.classification_metrics.accuracy")),
		AUC:        optional(doc.Number("training_metrics.classification_metrics.auc")),
		Warnings:   doc.Len("model_quality.warnings"),
		Source:     source,
	}
}

func optional(v card.Value) *float64 {
	f, ok := v.Float()
	if !ok {
		return nil
	}
	return &f
}
