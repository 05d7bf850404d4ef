package output

import (
	"github.com/google/uuid"

	"github.com/featrix/modelcard/internal/chart"
	"github.com/featrix/modelcard/internal/report"
)

// Component types of the interactive tree.
const (
	ComponentCard     = "card"
	ComponentHeader   = "header"
	ComponentControls = "controls"
	ComponentButton   = "button"
	ComponentCharts   = "charts"
	ComponentChart    = "chart"
	ComponentSection  = "section"
	ComponentField    = "field"
	ComponentBadge    = "badge"
)

// Control actions carried by button components.
const (
	ActionExpandAll   = "expand_all"
	ActionCollapseAll = "collapse_all"
)

// Component is one node of the interactive UI description.
type Component struct {
	Type     string         `yaml:"type" json:"type"`
	ID       string         `yaml:"id,omitempty" json:"id,omitempty"`
	Props    map[string]any `yaml:"props,omitempty" json:"props,omitempty"`
	Children []*Component   `yaml:"children,omitempty" json:"children,omitempty"`
}

// Find returns the first node with the given id, depth first.
func (c *Component) Find(id string) *Component {
	if c == nil {
		return nil
	}
	if c.ID == id {
		return c
	}
	for _, child := range c.Children {
		if found := child.Find(id); found != nil {
			return found
		}
	}
	return nil
}

// Count returns how many nodes of type typ the tree holds.
func (c *Component) Count(typ string) int {
	if c == nil {
		return 0
	}
	n := 0
	if c.Type == typ {
		n++
	}
	for _, child := range c.Children {
		n += child.Count(typ)
	}
	return n
}

// InteractiveOptions configure the component tree.
type InteractiveOptions struct {
	// InstanceID names the rendered instance. Empty generates a random id.
	InstanceID string
}

// RenderInteractive builds the component tree for c. Sections start
// expanded when vis contains their id; the tree never stores or changes
// vis. Empty chart series produce no chart node.
func RenderInteractive(c *report.Card, charts chart.Charts, vis Visibility, opts InteractiveOptions) *Component {
	instance := opts.InstanceID
	if instance == "" {
		instance = uuid.NewString()
	}

	root := &Component{
		Type:  ComponentCard,
		ID:    instance,
		Props: map[string]any{"title": c.Title, "name": c.Name},
	}
	root.Children = append(root.Children,
		&Component{Type: ComponentHeader, Props: map[string]any{"title": c.Title}},
		&Component{Type: ComponentControls, Children: []*Component{
			{Type: ComponentButton, Props: map[string]any{"label": "Expand All", "action": ActionExpandAll}},
			{Type: ComponentButton, Props: map[string]any{"label": "Collapse All", "action": ActionCollapseAll}},
		}},
	)

	var chartNodes []*Component
	for _, s := range charts.All() {
		if s.Empty() {
			continue
		}
		chartNodes = append(chartNodes, chartComponent(s))
	}
	if len(chartNodes) > 0 {
		root.Children = append(root.Children, &Component{Type: ComponentCharts, Children: chartNodes})
	}

	for _, s := range c.Present() {
		root.Children = append(root.Children, sectionComponent(s, vis))
	}
	return root
}

func chartComponent(s chart.Series) *Component {
	labels := make([]string, len(s.Points))
	values := make([]float64, len(s.Points))
	for i, p := range s.Points {
		labels[i] = p.Label
		values[i] = p.Value
	}
	return &Component{
		Type: ComponentChart,
		ID:   "chart." + s.ID,
		Props: map[string]any{
			"kind":    string(s.Kind),
			"title":   s.Title,
			"labels":  labels,
			"values":  values,
			"mermaid": chart.Mermaid(s),
		},
	}
}

func sectionComponent(s *report.Section, vis Visibility) *Component {
	node := &Component{
		Type: ComponentSection,
		ID:   s.ID,
		Props: map[string]any{
			"title":   s.Title,
			"visible": vis.Visible(s.ID),
		},
	}
	if s.Emphasis {
		node.Props["emphasis"] = true
	}
	for _, f := range s.Fields {
		props := map[string]any{"key": f.Key, "label": f.Label, "display": f.Display}
		typ := ComponentField
		if f.Categorical() {
			typ = ComponentBadge
			style := StyleFor(f.Tier)
			props["tier"] = f.Tier.String()
			props["color"] = style.Color
			props["class"] = style.Class
		}
		node.Children = append(node.Children, &Component{Type: typ, Props: props})
	}
	for _, sub := range s.Subsections {
		if sub.Present {
			node.Children = append(node.Children, sectionComponent(sub, vis))
		}
	}
	return node
}
