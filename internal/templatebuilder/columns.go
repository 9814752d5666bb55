package templatebuilder

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"listing_brochure/internal/domain"
	"listing_brochure/internal/mapping"
)

func newContainer() domain.Container {
	return domain.Container{ID: uuid.NewString(), Columns: 1, ColumnWidths: []int{1}, Elements: []domain.ContentElement{}}
}

// AddColumn widens a section by one column. Containers that spanned every
// column gain the new one too.
func (b *Builder) AddColumn(sectionID string) error {
	s, err := b.section(sectionID)
	if err != nil {
		return err
	}
	old := s.Design.Columns
	s.Design.Columns++
	for i := range s.Design.Containers {
		c := &s.Design.Containers[i]
		if c.Columns == old {
			c.Columns++
			c.ColumnWidths = append(c.ColumnWidths, 1)
		}
	}
	b.dirty = true
	return nil
}

// RemoveColumn drops column index from a section. Elements placed in that
// column move to the column before it (or stay in column 0), elements further
// right shift down by one, and elements left of it or without an index are
// not touched.
func (b *Builder) RemoveColumn(sectionID string, index int) error {
	s, err := b.section(sectionID)
	if err != nil {
		return err
	}
	if s.Design.Columns-1 < 1 {
		return ErrLastColumn
	}
	if index < 0 || index >= s.Design.Columns {
		return fmt.Errorf("%w: column %d of %d", ErrInvalidOperation, index, s.Design.Columns)
	}
	s.Design.Columns--
	for i := range s.Design.Containers {
		c := &s.Design.Containers[i]
		if index < c.Columns && c.Columns > 1 {
			c.Columns--
			if index < len(c.ColumnWidths) {
				c.ColumnWidths = slices.Delete(c.ColumnWidths, index, index+1)
			}
		}
		if c.Columns > s.Design.Columns {
			c.Columns = s.Design.Columns
		}
		mapping.NormalizeContainer(c)
		for j := range c.Elements {
			reindex(&c.Elements[j], index)
			mapping.ClampColumn(&c.Elements[j], s.Design.Columns)
		}
	}
	b.dirty = true
	return nil
}

func reindex(e *domain.ContentElement, removed int) {
	if e.ColumnIndex == nil {
		return
	}
	ci := *e.ColumnIndex
	switch {
	case ci == removed:
		ci = max(0, removed-1)
	case ci > removed:
		ci--
	default:
		return
	}
	e.ColumnIndex = &ci
}

// AddContainer appends an empty one-column container to a section.
func (b *Builder) AddContainer(sectionID string) (string, error) {
	s, err := b.section(sectionID)
	if err != nil {
		return "", err
	}
	c := newContainer()
	s.Design.Containers = append(s.Design.Containers, c)
	b.dirty = true
	return c.ID, nil
}

func (b *Builder) RemoveContainer(sectionID, containerID string) error {
	s, err := b.section(sectionID)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(s.Design.Containers, func(c domain.Container) bool { return c.ID == containerID })
	if i < 0 {
		return fmt.Errorf("container %s: %w", containerID, domain.ErrNotFound)
	}
	s.Design.Containers = slices.Delete(s.Design.Containers, i, i+1)
	b.dirty = true
	return nil
}

// SetColumnWidths sets relative widths; the number of widths becomes the
// container's column count and may not exceed the section's.
func (b *Builder) SetColumnWidths(sectionID, containerID string, widths []int) error {
	s, err := b.section(sectionID)
	if err != nil {
		return err
	}
	c, err := container(s, containerID)
	if err != nil {
		return err
	}
	if len(widths) == 0 || len(widths) > s.Design.Columns {
		return fmt.Errorf("%w: %d widths for %d columns", ErrInvalidOperation, len(widths), s.Design.Columns)
	}
	for _, w := range widths {
		if w <= 0 {
			return fmt.Errorf("%w: column width must be positive", ErrInvalidOperation)
		}
	}
	c.Columns = len(widths)
	c.ColumnWidths = slices.Clone(widths)
	b.dirty = true
	return nil
}
