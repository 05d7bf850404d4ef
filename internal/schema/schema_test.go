package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/featrix/modelcard/internal/card"
	"github.com/featrix/modelcard/internal/cardtest"
)

func TestFixturesConform(t *testing.T) {
	for _, name := range cardtest.Names() {
		t.Run(name, func(t *testing.T) {
			issues, err := Validate(cardtest.Load(name))
			require.NoError(t, err)
			assert.Empty(t, issues)
		})
	}
}

func TestValidateReportsIssues(t *testing.T) {
	doc := []byte(`{
		"model_identification": {"name": 7},
		"training_dataset": {"train_rows": "many"},
		"training_metrics": {"classification_metrics": {"accuracy": 1.5}}
	}`)

	issues, err := Validate(doc)
	require.NoError(t, err)
	require.Len(t, issues, 3)

	fields := make([]string, len(issues))
	for i, is := range issues {
		fields[i] = is.Field
	}
	assert.Equal(t, []string{
		"model_identification.name",
		"training_dataset.train_rows",
		"training_metrics.classification_metrics.accuracy",
	}, fields)
	assert.Equal(t, "invalid_type", issues[0].Type)
	assert.Contains(t, issues[1].String(), "training_dataset.train_rows: ")
}

func TestValidateNullsAreAccepted(t *testing.T) {
	doc := []byte(`{
		"model_identification": {"name": null, "status": null},
		"training_metrics": null,
		"column_statistics": {"a": {"mutual_information_bits": null}}
	}`)

	issues, err := Validate(doc)
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestValidateMissingIdentification(t *testing.T) {
	issues, err := Validate([]byte(`{"provenance": {}}`))
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "required", issues[0].Type)
}

func TestValidateMalformed(t *testing.T) {
	for _, doc := range []string{`{"a":`, `[1, 2]`, `"text"`, ``} {
		_, err := Validate([]byte(doc))
		assert.ErrorIs(t, err, card.ErrMalformedInput, doc)
	}
}

func TestSourceIsEmbedded(t *testing.T) {
	assert.Contains(t, Source(), "draft-07")
}
