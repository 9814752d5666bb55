// Package templatebuilder edits a working copy of a brochure template. Every
// operation is a pure transformation of that copy; nothing is persisted until
// the caller saves the snapshot.
package templatebuilder

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"listing_brochure/internal/domain"
	"listing_brochure/internal/mapping"
)

var (
	ErrInvalidOperation = errors.New("invalid template operation")
	ErrLastColumn       = fmt.Errorf("%w: a section keeps at least one column", ErrInvalidOperation)
)

// Builder holds the working copy plus UI state that never reaches the store.
type Builder struct {
	tpl      domain.Template
	selected string
	dirty    bool
}

// New starts editing a deep, normalized copy of t.
func New(t domain.Template) *Builder {
	return &Builder{tpl: mapping.NormalizeTemplate(t)}
}

// NewBlank starts a template with no id, so saving it inserts a new record.
func NewBlank(name string) *Builder {
	return &Builder{tpl: domain.Template{Name: name, Sections: []domain.Section{}}}
}

func (b *Builder) Dirty() bool      { return b.dirty }
func (b *Builder) Selected() string { return b.selected }

// Select marks a section as active in the editor.
func (b *Builder) Select(sectionID string) error {
	if _, err := b.section(sectionID); err != nil {
		return err
	}
	b.selected = sectionID
	return nil
}

// Snapshot returns a copy of the working template ready to save. Selection
// and dirty state are not part of it.
func (b *Builder) Snapshot() domain.Template {
	return b.tpl.Clone()
}

// Validate reports field errors that block saving.
func (b *Builder) Validate() error {
	return Validate(b.tpl)
}

// Validate checks a template without a builder.
func Validate(t domain.Template) error {
	ve := &domain.ValidationError{}
	if strings.TrimSpace(t.Name) == "" {
		ve.Add("name", "is required")
	}
	for i, s := range t.Sections {
		if !s.Type.Valid() {
			ve.Add(fmt.Sprintf("sections[%d].type", i), fmt.Sprintf("unknown section type %q", s.Type))
		}
	}
	return ve.OrNil()
}

func (b *Builder) Rename(name, description string) {
	b.tpl.Name = name
	b.tpl.Description = description
	b.dirty = true
}

func (b *Builder) section(id string) (*domain.Section, error) {
	for i := range b.tpl.Sections {
		if b.tpl.Sections[i].ID == id {
			return &b.tpl.Sections[i], nil
		}
	}
	return nil, fmt.Errorf("section %s: %w", id, domain.ErrNotFound)
}

func container(s *domain.Section, id string) (*domain.Container, error) {
	for i := range s.Design.Containers {
		if s.Design.Containers[i].ID == id {
			return &s.Design.Containers[i], nil
		}
	}
	return nil, fmt.Errorf("container %s: %w", id, domain.ErrNotFound)
}

// MoveSection moves the section at position from to position to. The list is
// reindexed by id, so no section is duplicated or lost.
func (b *Builder) MoveSection(from, to int) error {
	n := len(b.tpl.Sections)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("%w: move %d to %d of %d sections", ErrInvalidOperation, from, to, n)
	}
	if from == to {
		return nil
	}
	s := b.tpl.Sections[from]
	b.tpl.Sections = slices.Insert(slices.Delete(b.tpl.Sections, from, from+1), to, s)
	b.dirty = true
	return nil
}

// AddSection appends a one-column section with a single empty container.
func (b *Builder) AddSection(t domain.SectionType, title string) (string, error) {
	if !t.Valid() {
		return "", fmt.Errorf("%w: unknown section type %q", ErrInvalidOperation, t)
	}
	s := domain.Section{
		ID:    uuid.NewString(),
		Type:  t,
		Title: title,
		Design: domain.SectionDesign{
			Columns:    1,
			Containers: []domain.Container{newContainer()},
		},
	}
	b.tpl.Sections = append(b.tpl.Sections, s)
	b.dirty = true
	return s.ID, nil
}

func (b *Builder) RemoveSection(id string) error {
	i := slices.IndexFunc(b.tpl.Sections, func(s domain.Section) bool { return s.ID == id })
	if i < 0 {
		return fmt.Errorf("section %s: %w", id, domain.ErrNotFound)
	}
	b.tpl.Sections = slices.Delete(b.tpl.Sections, i, i+1)
	if b.selected == id {
		b.selected = ""
	}
	b.dirty = true
	return nil
}

// DesignPatch carries the optional section design fields an editor changes.
type DesignPatch struct {
	BackgroundColor *string `json:"backgroundColor,omitempty"`
	TextColor       *string `json:"textColor,omitempty"`
	Padding         *int    `json:"padding,omitempty"`
	Title           *string `json:"title,omitempty"`
}

func (b *Builder) SetDesign(sectionID string, p DesignPatch) error {
	s, err := b.section(sectionID)
	if err != nil {
		return err
	}
	if p.BackgroundColor != nil {
		s.Design.BackgroundColor = *p.BackgroundColor
	}
	if p.TextColor != nil {
		s.Design.TextColor = *p.TextColor
	}
	if p.Padding != nil {
		if *p.Padding < 0 {
			return fmt.Errorf("%w: negative padding", ErrInvalidOperation)
		}
		s.Design.Padding = *p.Padding
	}
	if p.Title != nil {
		s.Title = *p.Title
	}
	b.dirty = true
	return nil
}
