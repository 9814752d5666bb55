package templatebuilder

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"listing_brochure/internal/domain"
)

// checkColumn rejects a column the container does not draw.
func checkColumn(s *domain.Section, c *domain.Container, column int) error {
	limit := min(s.Design.Columns, max(c.Columns, 1))
	if column < 0 || column >= limit {
		return fmt.Errorf("%w: column %d of %d in container %s", ErrInvalidOperation, column, limit, c.ID)
	}
	return nil
}

// AddElement places a new content element into a container column.
func (b *Builder) AddElement(sectionID, containerID, typ string, column int) (string, error) {
	s, err := b.section(sectionID)
	if err != nil {
		return "", err
	}
	c, err := container(s, containerID)
	if err != nil {
		return "", err
	}
	if err := checkColumn(s, c, column); err != nil {
		return "", err
	}
	col := column
	e := domain.ContentElement{ID: uuid.NewString(), Type: typ, ColumnIndex: &col}
	c.Elements = append(c.Elements, e)
	b.dirty = true
	return e.ID, nil
}

// locate finds the container index and element index of an element.
func locate(s *domain.Section, elementID string) (int, int, bool) {
	for ci, c := range s.Design.Containers {
		if ei := slices.IndexFunc(c.Elements, func(e domain.ContentElement) bool { return e.ID == elementID }); ei >= 0 {
			return ci, ei, true
		}
	}
	return 0, 0, false
}

// MoveElement drops an element into a column of a container. The element
// leaves its previous place, so it is only ever in one column.
func (b *Builder) MoveElement(sectionID, elementID, containerID string, column int) error {
	s, err := b.section(sectionID)
	if err != nil {
		return err
	}
	dst, err := container(s, containerID)
	if err != nil {
		return err
	}
	if err := checkColumn(s, dst, column); err != nil {
		return err
	}
	ci, ei, ok := locate(s, elementID)
	if !ok {
		return fmt.Errorf("element %s: %w", elementID, domain.ErrNotFound)
	}
	src := &s.Design.Containers[ci]
	e := src.Elements[ei]
	src.Elements = slices.Delete(src.Elements, ei, ei+1)

	col := column
	e.ColumnIndex = &col
	dst.Elements = append(dst.Elements, e)
	b.dirty = true
	return nil
}

func (b *Builder) RemoveElement(sectionID, elementID string) error {
	s, err := b.section(sectionID)
	if err != nil {
		return err
	}
	ci, ei, ok := locate(s, elementID)
	if !ok {
		return fmt.Errorf("element %s: %w", elementID, domain.ErrNotFound)
	}
	c := &s.Design.Containers[ci]
	c.Elements = slices.Delete(c.Elements, ei, ei+1)
	b.dirty = true
	return nil
}
