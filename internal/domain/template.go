package domain

import "time"

type SectionType string

const (
	SectionCover      SectionType = "cover"
	SectionDetails    SectionType = "details"
	SectionFloorplans SectionType = "floorplans"
	SectionLocation   SectionType = "location"
	SectionAreas      SectionType = "areas"
	SectionContact    SectionType = "contact"
)

// Valid reports whether t is one of the known section types.
func (t SectionType) Valid() bool {
	switch t {
	case SectionCover, SectionDetails, SectionFloorplans, SectionLocation, SectionAreas, SectionContact:
		return true
	}
	return false
}

// Content element types a template may place into a column.
const (
	ElementTitle           = "title"
	ElementPrice           = "price"
	ElementAddress         = "address"
	ElementDescription     = "description"
	ElementFeaturedImage   = "featured_image"
	ElementGallery         = "gallery"
	ElementKeyFacts        = "key_facts"
	ElementFeatures        = "features"
	ElementFloorplan       = "floorplan"
	ElementLocationText    = "location_description"
	ElementMap             = "map"
	ElementPlaces          = "places"
	ElementAreaTitle       = "area_title"
	ElementAreaDescription = "area_description"
	ElementAreaImages      = "area_images"
	ElementAgency          = "agency"
	ElementAgent           = "agent"
	ElementQRCode          = "qr_code"
)

// Template is a reusable brochure layout.
type Template struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Sections    []Section  `json:"sections"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

type Section struct {
	ID     string        `json:"id"`
	Type   SectionType   `json:"type"`
	Title  string        `json:"title"`
	Design SectionDesign `json:"design"`
}

type SectionDesign struct {
	Columns         int         `json:"columns"`
	BackgroundColor string      `json:"backgroundColor,omitempty"`
	TextColor       string      `json:"textColor,omitempty"`
	Padding         int         `json:"padding,omitempty"` // mm
	Containers      []Container `json:"containers"`
}

type Container struct {
	ID           string           `json:"id"`
	Columns      int              `json:"columns"`
	ColumnWidths []int            `json:"columnWidths"`     // relative units
	Height       int              `json:"height,omitempty"` // relative to sibling containers, 0 = 1
	Elements     []ContentElement `json:"elements"`
}

type ContentElement struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title,omitempty"`
	ColumnIndex *int   `json:"columnIndex,omitempty"` // nil means column 0
}

// Column returns the element's column, treating an unset index as 0.
func (e ContentElement) Column() int {
	if e.ColumnIndex == nil {
		return 0
	}
	return *e.ColumnIndex
}

// SectionByType returns the first section of the given type.
func (t Template) SectionByType(st SectionType) (Section, bool) {
	for _, s := range t.Sections {
		if s.Type == st {
			return s, true
		}
	}
	return Section{}, false
}

// Clone deep-copies the template.
func (t Template) Clone() Template {
	out := t
	if t.Sections == nil {
		return out
	}
	out.Sections = make([]Section, len(t.Sections))
	for i, s := range t.Sections {
		s.Design = s.Design.Clone()
		out.Sections[i] = s
	}
	return out
}

func (d SectionDesign) Clone() SectionDesign {
	out := d
	if d.Containers == nil {
		return out
	}
	out.Containers = make([]Container, len(d.Containers))
	for i, c := range d.Containers {
		c.ColumnWidths = append([]int(nil), c.ColumnWidths...)
		if c.Elements != nil {
			els := make([]ContentElement, len(c.Elements))
			for j, e := range c.Elements {
				if e.ColumnIndex != nil {
					ci := *e.ColumnIndex
					e.ColumnIndex = &ci
				}
				els[j] = e
			}
			c.Elements = els
		}
		out.Containers[i] = c
	}
	return out
}
