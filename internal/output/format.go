package output

import (
	"fmt"
	"strings"
)

// Format represents the output format type.
type Format string

const (
	// FormatHTML is the self-contained static document with collapsible
	// sections.
	FormatHTML Format = "html"

	// FormatText is plain text, brief or detailed per TextMode.
	FormatText Format = "text"

	// FormatInteractive is an HTML page driven by the component tree, with
	// client-side toggles and charts.
	FormatInteractive Format = "interactive"

	// FormatTree is the interactive component tree encoded as JSON.
	FormatTree Format = "tree"

	// FormatJSON is the section model and chart series as JSON.
	FormatJSON Format = "json"

	// FormatYAML is the section model and chart series as YAML.
	FormatYAML Format = "yaml"
)

// DefaultFormat is the format used when none is specified.
const DefaultFormat = FormatHTML

// ParseFormat parses a format string into a Format value.
// Accepts: "html", "text", "interactive", "tree", "json", "yaml"
// (case-insensitive). "txt" is accepted as an alias for "text".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "html":
		return FormatHTML, nil
	case "text", "txt":
		return FormatText, nil
	case "interactive":
		return FormatInteractive, nil
	case "tree":
		return FormatTree, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("invalid format: %q (expected html, text, interactive, tree, json, or yaml)", s)
	}
}

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// Extension is the conventional file extension for the format.
func (f Format) Extension() string {
	switch f {
	case FormatHTML, FormatInteractive:
		return ".html"
	case FormatText:
		return ".txt"
	case FormatYAML:
		return ".yaml"
	default:
		return ".json"
	}
}

// ValidateFormat checks if a format value is valid.
func ValidateFormat(f Format) bool {
	switch f {
	case FormatHTML, FormatText, FormatInteractive, FormatTree, FormatJSON, FormatYAML:
		return true
	default:
		return false
	}
}

// TextMode selects how much the plain-text adapter prints.
//   - Brief: identification and top-line metrics
//   - Detailed: every present section
type TextMode string

const (
	TextBrief    TextMode = "brief"
	TextDetailed TextMode = "detailed"
)

// DefaultTextMode is the text mode used when none is specified.
const DefaultTextMode = TextDetailed

// ParseTextMode parses a text mode string.
func ParseTextMode(s string) (TextMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "brief":
		return TextBrief, nil
	case "detailed", "full":
		return TextDetailed, nil
	default:
		return "", fmt.Errorf("invalid text mode: %q (expected brief or detailed)", s)
	}
}

// String returns the string representation of the text mode.
func (m TextMode) String() string {
	return string(m)
}

// ValidateTextMode checks if a text mode value is valid.
func ValidateTextMode(m TextMode) bool {
	return m == TextBrief || m == TextDetailed
}
