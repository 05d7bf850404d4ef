// Package schema checks model cards against the published JSON Schema.
//
// Validation is advisory: renderers accept any JSON object, so a schema
// violation is reported as an Issue rather than an error. Only input that
// is not a JSON object fails, with card.ErrMalformedInput.
package schema

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/featrix/modelcard/internal/card"
)

//go:embed modelcard.schema.json
var source string

// Source returns the embedded draft-07 schema document.
func Source() string {
	return source
}

// Issue is one schema violation.
type Issue struct {
	Field       string `yaml:"field" json:"field"`
	Type        string `yaml:"type" json:"type"`
	Description string `yaml:"description" json:"description"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Field, i.Description)
}

var (
	compileOnce sync.Once
	compiled    *gojsonschema.Schema
	compileErr  error
)

func load() (*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiled, compileErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(source))
		if compileErr != nil {
			compileErr = fmt.Errorf("compile model card schema: %w", compileErr)
		}
	})
	return compiled, compileErr
}

// Validate checks doc against the schema. Issues are sorted by field.
func Validate(doc []byte) ([]Issue, error) {
	if _, err := card.Parse(doc); err != nil {
		return nil, err
	}

	s, err := load()
	if err != nil {
		return nil, err
	}

	result, err := s.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("validate model card: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}

	issues := make([]Issue, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		issues = append(issues, Issue{
			Field:       re.Field(),
			Type:        re.Type(),
			Description: re.Description(),
		})
	}
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Field < issues[j].Field
	})
	return issues, nil
}
