package report

import (
	"strings"

	"github.com/featrix/modelcard/internal/card"
	"github.com/featrix/modelcard/internal/format"
)

// Model type display names.
const (
	DisplayEmbeddingSpace  = "Foundational Embedding Space"
	DisplayClassifier      = "Classifier"
	DisplayRegression      = "Regression"
	DisplaySinglePredictor = "Single Predictor"
)

// ModelTypeDisplay maps the raw model type and target column type to the name
// shown to readers. Both inputs match case-insensitively. Unrecognized model
// types pass through unchanged; an empty model type is NA.
func ModelTypeDisplay(modelType, targetType card.Value) string {
	raw, ok := modelType.Str()
	if !ok {
		return format.Text(modelType)
	}
	if raw == "" {
		return format.NA
	}
	switch strings.ToLower(raw) {
	case "embedding space", "es":
		return DisplayEmbeddingSpace
	case "single predictor", "sp":
		target, _ := targetType.Str()
		switch strings.ToLower(target) {
		case "set":
			return DisplayClassifier
		case "scalar":
			return DisplayRegression
		}
		return DisplaySinglePredictor
	}
	return raw
}

// IsSinglePredictor reports whether the raw model type names a single
// predictor.
func IsSinglePredictor(modelType card.Value) bool {
	raw, _ := modelType.Str()
	switch strings.ToLower(raw) {
	case "single predictor", "sp":
		return true
	}
	return false
}
