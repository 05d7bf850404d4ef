// Package classify maps the enumerated strings of a model card to semantic
// tiers. It is the only place the status, severity and quality vocabularies
// are defined; renderers choose colours from the Tier, never from raw strings.
package classify

import (
	"fmt"
	"strings"

	"github.com/featrix/modelcard/internal/card"
)

// Tier is a normalized classification.
type Tier int

const (
	Unknown Tier = iota
	Positive
	Info
	Caution
	Negative
)

var tierNames = map[Tier]string{
	Unknown:  "unknown",
	Positive: "positive",
	Info:     "info",
	Caution:  "caution",
	Negative: "negative",
}

func (t Tier) String() string {
	if s, ok := tierNames[t]; ok {
		return s
	}
	return tierNames[Unknown]
}

// MarshalText encodes the tier by name for YAML and JSON output.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText accepts the names produced by MarshalText.
func (t *Tier) UnmarshalText(b []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(b)))
	for tier, name := range tierNames {
		if name == s {
			*t = tier
			return nil
		}
	}
	return fmt.Errorf("unknown tier %q", string(b))
}

// Domain selects which vocabulary a value belongs to.
type Domain string

const (
	Status            Domain = "status"
	Severity          Domain = "severity"
	QualityAssessment Domain = "quality"
)

var vocabularies = map[Domain]map[string]Tier{
	Status: {
		"done":     Positive,
		"training": Caution,
		"failed":   Negative,
	},
	Severity: {
		"high":     Negative,
		"moderate": Caution,
		"low":      Info,
	},
	QualityAssessment: {
		"excellent": Positive,
		"good":      Info,
		"fair":      Caution,
		"poor":      Negative,
	},
}

// ParseDomain parses a domain name.
func ParseDomain(s string) (Domain, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "status":
		return Status, nil
	case "severity":
		return Severity, nil
	case "quality", "quality_assessment", "assessment":
		return QualityAssessment, nil
	default:
		return "", fmt.Errorf("invalid domain %q: must be status, severity, or quality", s)
	}
}

// Values returns the known raw values of a domain, ordered by tier.
func Values(d Domain) []string {
	var out []string
	for _, tier := range []Tier{Positive, Info, Caution, Negative} {
		for raw, t := range vocabularies[d] {
			if t == tier {
				out = append(out, raw)
			}
		}
	}
	return out
}

// ClassifyString matches s case-insensitively and exactly against the
// domain's vocabulary. Unmatched values are Unknown.
func ClassifyString(d Domain, s string) Tier {
	vocab, ok := vocabularies[d]
	if !ok {
		return Unknown
	}
	if tier, ok := vocab[strings.ToLower(s)]; ok {
		return tier
	}
	return Unknown
}

// Classify classifies a card value. Anything other than text is Unknown.
func Classify(d Domain, v card.Value) Tier {
	s, ok := v.Str()
	if !ok {
		return Unknown
	}
	return ClassifyString(d, s)
}
