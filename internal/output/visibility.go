package output

import (
	"sort"

	"github.com/featrix/modelcard/internal/report"
)

// Visibility is the set of expanded section ids of one rendered instance.
// It is view state: it lives outside the section model and every operation
// returns a new set.
type Visibility struct {
	ids map[string]struct{}
}

// NewVisibility returns a set holding ids.
func NewVisibility(ids ...string) Visibility {
	v := Visibility{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		v.ids[id] = struct{}{}
	}
	return v
}

// AllVisible expands every present section of c, nested ones included.
func AllVisible(c *report.Card) Visibility {
	return NewVisibility(c.SectionIDs()...)
}

// ExpandAll is the expand-all control.
func ExpandAll(c *report.Card) Visibility { return AllVisible(c) }

// CollapseAll is the collapse-all control.
func CollapseAll() Visibility { return NewVisibility() }

// Visible reports whether id is expanded.
func (v Visibility) Visible(id string) bool {
	_, ok := v.ids[id]
	return ok
}

// Toggle returns a copy of v with id flipped.
func (v Visibility) Toggle(id string) Visibility {
	out := NewVisibility(v.IDs()...)
	if v.Visible(id) {
		delete(out.ids, id)
	} else {
		out.ids[id] = struct{}{}
	}
	return out
}

// IDs returns the expanded ids sorted.
func (v Visibility) IDs() []string {
	ids := make([]string, 0, len(v.ids))
	for id := range v.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len is the number of expanded ids.
func (v Visibility) Len() int { return len(v.ids) }
