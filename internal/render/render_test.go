package render

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/featrix/modelcard/internal/card"
	"github.com/featrix/modelcard/internal/cardtest"
	"github.com/featrix/modelcard/internal/output"
)

func TestRenderersRejectMalformedInput(t *testing.T) {
	r := New(DefaultOptions())
	bad := []byte(`{"model_identification": `)

	_, err := r.Markup(bad)
	assert.ErrorIs(t, err, card.ErrMalformedInput)
	_, err = r.Brief(bad)
	assert.ErrorIs(t, err, card.ErrMalformedInput)
	_, err = r.Detailed(bad)
	assert.ErrorIs(t, err, card.ErrMalformedInput)
	_, err = r.Interactive(bad, nil, output.InteractiveOptions{})
	assert.ErrorIs(t, err, card.ErrMalformedInput)
}

func TestRenderEveryFormat(t *testing.T) {
	r := New(DefaultOptions())
	doc := cardtest.Load(cardtest.SinglePredictor)

	for _, f := range []output.Format{
		output.FormatHTML, output.FormatText, output.FormatInteractive,
		output.FormatTree, output.FormatJSON, output.FormatYAML,
	} {
		t.Run(f.String(), func(t *testing.T) {
			out, err := r.Render(doc, f, output.TextBrief)
			require.NoError(t, err)
			assert.Contains(t, out, "alphafreight-mini")
		})
	}

	_, err := r.Render(doc, output.Format("pdf"), "")
	assert.Error(t, err)
}

func TestRenderJSONModel(t *testing.T) {
	out, err := New(DefaultOptions()).Render(cardtest.Load(cardtest.EmbeddingSpace), output.FormatJSON, "")
	require.NoError(t, err)

	var m struct {
		Charts struct {
			ColumnStatistics struct {
				Points []struct {
					Label string  `json:"label"`
					Value float64 `json:"value"`
				} `json:"points"`
			} `json:"column_statistics"`
		} `json:"charts"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	require.Len(t, m.Charts.ColumnStatistics.Points, 10)
	assert.Equal(t, "c08", m.Charts.ColumnStatistics.Points[0].Label)
}

func TestCollapsedOption(t *testing.T) {
	opts := DefaultOptions()
	opts.Collapsed = true
	r := New(opts)
	doc := cardtest.Load(cardtest.SinglePredictor)

	html, err := r.Markup(doc)
	require.NoError(t, err)
	assert.NotContains(t, html, " open>")

	tree, err := r.Interactive(doc, nil, output.InteractiveOptions{InstanceID: "x"})
	require.NoError(t, err)
	assert.Equal(t, false, tree.Find("model_identification").Props["visible"])

	vis := output.NewVisibility("model_identification")
	tree, err = r.Interactive(doc, &vis, output.InteractiveOptions{InstanceID: "x"})
	require.NoError(t, err)
	assert.Equal(t, true, tree.Find("model_identification").Props["visible"])
}

func TestNowStampsFooter(t *testing.T) {
	opts := DefaultOptions()
	opts.Now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	html, err := New(opts).Markup(cardtest.Load(cardtest.Minimal))
	require.NoError(t, err)
	assert.Contains(t, html, "Generated 2026-01-02 03:04:05 UTC")
}

func TestToFile(t *testing.T) {
	r := New(DefaultOptions())
	doc := cardtest.Load(cardtest.SinglePredictor)
	dir := t.TempDir()

	brief := filepath.Join(dir, "brief.txt")
	require.NoError(t, r.TextToFile(doc, brief, output.TextBrief))
	got, err := os.ReadFile(brief)
	require.NoError(t, err)
	want, err := r.Brief(doc)
	require.NoError(t, err)
	assert.Equal(t, want, string(got))

	html := filepath.Join(dir, "card.html")
	require.NoError(t, r.MarkupToFile(doc, html))
	got, err = os.ReadFile(html)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(got), "<!DOCTYPE html>"))

	page := filepath.Join(dir, "interactive.html")
	require.NoError(t, r.InteractiveToFile(doc, page))
	_, err = os.Stat(page)
	assert.NoError(t, err)
}

func TestToFileErrorsAreDistinct(t *testing.T) {
	r := New(DefaultOptions())
	dir := t.TempDir()

	// Malformed input writes nothing.
	target := filepath.Join(dir, "out.html")
	err := r.MarkupToFile([]byte("nope"), target)
	require.ErrorIs(t, err, card.ErrMalformedInput)
	var we *output.WriteError
	assert.False(t, errors.As(err, &we))
	_, statErr := os.Stat(target)
	assert.True(t, os.IsNotExist(statErr))

	// A good document and a bad path is a write error.
	err = r.MarkupToFile(cardtest.Load(cardtest.Minimal), filepath.Join(dir, "no", "such", "dir.html"))
	require.Error(t, err)
	assert.True(t, errors.As(err, &we))
	assert.False(t, errors.Is(err, card.ErrMalformedInput))
}
