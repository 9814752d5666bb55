package templatebuilder

import (
	"fmt"

	"listing_brochure/internal/domain"
)

// Op is one serialized editor action, as posted by the builder UI.
type Op struct {
	Op          string             `json:"op"`
	SectionID   string             `json:"sectionId,omitempty"`
	ContainerID string             `json:"containerId,omitempty"`
	ElementID   string             `json:"elementId,omitempty"`
	Type        string             `json:"type,omitempty"`
	Title       string             `json:"title,omitempty"`
	From        int                `json:"from,omitempty"`
	To          int                `json:"to,omitempty"`
	Index       int                `json:"index,omitempty"`
	Column      int                `json:"column,omitempty"`
	Widths      []int              `json:"widths,omitempty"`
	Design      *DesignPatch       `json:"design,omitempty"`
	Name        string             `json:"name,omitempty"`
	Description string             `json:"description,omitempty"`
	Section     domain.SectionType `json:"sectionType,omitempty"`
}

// Apply runs ops in order and stops at the first failure, reporting its
// position. The builder keeps the changes made before the failing op.
func (b *Builder) Apply(ops []Op) error {
	for i, op := range ops {
		if err := b.apply(op); err != nil {
			return fmt.Errorf("op %d (%s): %w", i, op.Op, err)
		}
	}
	return nil
}

func (b *Builder) apply(op Op) error {
	var err error
	switch op.Op {
	case "move_section":
		err = b.MoveSection(op.From, op.To)
	case "add_section":
		_, err = b.AddSection(op.Section, op.Title)
	case "remove_section":
		err = b.RemoveSection(op.SectionID)
	case "add_column":
		err = b.AddColumn(op.SectionID)
	case "remove_column":
		err = b.RemoveColumn(op.SectionID, op.Index)
	case "add_container":
		_, err = b.AddContainer(op.SectionID)
	case "remove_container":
		err = b.RemoveContainer(op.SectionID, op.ContainerID)
	case "set_column_widths":
		err = b.SetColumnWidths(op.SectionID, op.ContainerID, op.Widths)
	case "add_element":
		_, err = b.AddElement(op.SectionID, op.ContainerID, op.Type, op.Column)
	case "move_element":
		err = b.MoveElement(op.SectionID, op.ElementID, op.ContainerID, op.Column)
	case "remove_element":
		err = b.RemoveElement(op.SectionID, op.ElementID)
	case "set_design":
		if op.Design == nil {
			return fmt.Errorf("%w: set_design without design", ErrInvalidOperation)
		}
		err = b.SetDesign(op.SectionID, *op.Design)
	case "rename":
		b.Rename(op.Name, op.Description)
	case "select":
		err = b.Select(op.SectionID)
	default:
		err = fmt.Errorf("%w: unknown op %q", ErrInvalidOperation, op.Op)
	}
	return err
}
