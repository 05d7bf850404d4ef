package output

import (
	"fmt"
	"strings"

	"github.com/featrix/modelcard/internal/classify"
)

// TierStyle is how a tier is drawn in the HTML outputs.
type TierStyle struct {
	Color string // badge background
	Class string // CSS class
}

// TierStyles maps every tier to its style. This is the only colour table;
// the markup and interactive adapters both read it.
var TierStyles = map[classify.Tier]TierStyle{
	classify.Positive: {Color: "#28a745", Class: "tier-positive"},
	classify.Info:     {Color: "#007bff", Class: "tier-info"},
	classify.Caution:  {Color: "#ffc107", Class: "tier-caution"},
	classify.Negative: {Color: "#dc3545", Class: "tier-negative"},
	classify.Unknown:  {Color: "#6c757d", Class: "tier-unknown"},
}

// StyleFor returns the style of t, falling back to the Unknown style.
func StyleFor(t classify.Tier) TierStyle {
	if s, ok := TierStyles[t]; ok {
		return s
	}
	return TierStyles[classify.Unknown]
}

var tierOrder = []classify.Tier{
	classify.Positive,
	classify.Info,
	classify.Caution,
	classify.Negative,
	classify.Unknown,
}

// TierCSS returns one rule per tier class.
func TierCSS() string {
	var sb strings.Builder
	for _, tier := range tierOrder {
		style := StyleFor(tier)
		fmt.Fprintf(&sb, ".%s { background: %s; color: #fff; }\n", style.Class, style.Color)
	}
	return sb.String()
}
