// Package cardtest holds model-card fixtures shared by package tests.
package cardtest

import (
	"embed"
	"fmt"
)

//go:embed testdata/*.json
var fixtures embed.FS

// Fixture names.
const (
	SinglePredictor = "single_predictor"
	EmbeddingSpace  = "embedding_space"
	Minimal         = "minimal"
)

// Load returns the raw JSON of the named fixture. It panics on an unknown
// name since fixtures are compiled in.
func Load(name string) []byte {
	data, err := fixtures.ReadFile("testdata/" + name + ".json")
	if err != nil {
		panic(fmt.Sprintf("cardtest: unknown fixture %q", name))
	}
	return data
}

// Names lists every fixture.
func Names() []string {
	return []string{SinglePredictor, EmbeddingSpace, Minimal}
}
