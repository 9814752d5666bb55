package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"listing_brochure/internal/domain"
)

// TemplateJSON decodes and normalizes a stored template.
func TemplateJSON(b []byte) (domain.Template, error) {
	var t domain.Template
	if err := json.Unmarshal(b, &t); err != nil {
		return domain.Template{}, fmt.Errorf("decode template: %w", err)
	}
	return NormalizeTemplate(t), nil
}

// NormalizeTemplate repairs structural problems instead of rejecting them:
// column counts are at least 1, width lists match their column count and
// element column indexes are clamped into range.
func NormalizeTemplate(in domain.Template) domain.Template {
	t := in.Clone()
	for i := range t.Sections {
		s := &t.Sections[i]
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		if s.Design.Columns < 1 {
			s.Design.Columns = 1
		}
		for j := range s.Design.Containers {
			c := &s.Design.Containers[j]
			if c.ID == "" {
				c.ID = uuid.NewString()
			}
			NormalizeContainer(c)
			for k := range c.Elements {
				e := &c.Elements[k]
				if e.ID == "" {
					e.ID = uuid.NewString()
				}
				ClampColumn(e, s.Design.Columns)
			}
		}
	}
	return t
}

// NormalizeContainer fixes a container's column count and width list.
func NormalizeContainer(c *domain.Container) {
	if c.Columns < 1 {
		c.Columns = 1
	}
	widths := make([]int, c.Columns)
	for i := range widths {
		w := 1
		if i < len(c.ColumnWidths) && c.ColumnWidths[i] > 0 {
			w = c.ColumnWidths[i]
		}
		widths[i] = w
	}
	c.ColumnWidths = widths
}

// ClampColumn pulls an element's column index into [0, columns).
func ClampColumn(e *domain.ContentElement, columns int) {
	if e.ColumnIndex == nil {
		return
	}
	ci := *e.ColumnIndex
	if ci < 0 {
		ci = 0
	}
	if ci > columns-1 {
		ci = columns - 1
	}
	e.ColumnIndex = &ci
}
