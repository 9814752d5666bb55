package brochure

import "listing_brochure/internal/domain"

// Color tokens accepted in section designs in place of a hex value.
const (
	ColorPrimary   = "primary"
	ColorSecondary = "secondary"
)

func el(id, typ string, col int) domain.ContentElement {
	c := col
	return domain.ContentElement{ID: id, Type: typ, ColumnIndex: &c}
}

func box(id string, height int, widths []int, els ...domain.ContentElement) domain.Container {
	return domain.Container{ID: id, Columns: len(widths), ColumnWidths: widths, Height: height, Elements: els}
}

// DefaultTemplate is used when a brochure is rendered without a template. Its
// section order is cover, details, floorplans, location, areas, contact.
func DefaultTemplate() domain.Template {
	return domain.Template{
		ID:   "default",
		Name: "Default",
		Sections: []domain.Section{
			{ID: "cover", Type: domain.SectionCover, Design: domain.SectionDesign{
				Columns: 1, BackgroundColor: ColorPrimary, Padding: 4,
				Containers: []domain.Container{
					box("cover-image", 3, []int{1}, el("cover-featured", domain.ElementFeaturedImage, 0)),
					box("cover-text", 1, []int{1},
						el("cover-title", domain.ElementTitle, 0),
						el("cover-price", domain.ElementPrice, 0),
						el("cover-address", domain.ElementAddress, 0)),
				},
			}},
			{ID: "details", Type: domain.SectionDetails, Title: "Property details", Design: domain.SectionDesign{
				Columns: 2,
				Containers: []domain.Container{
					box("details-facts", 2, []int{1}, el("details-keyfacts", domain.ElementKeyFacts, 0)),
					box("details-body", 4, []int{3, 2},
						el("details-description", domain.ElementDescription, 0),
						el("details-features", domain.ElementFeatures, 1)),
					box("details-gallery", 2, []int{1}, el("details-gallery", domain.ElementGallery, 0)),
				},
			}},
			{ID: "floorplans", Type: domain.SectionFloorplans, Title: "Floorplans", Design: domain.SectionDesign{
				Columns:    1,
				Containers: []domain.Container{box("floorplans-main", 1, []int{1}, el("floorplans-plan", domain.ElementFloorplan, 0))},
			}},
			{ID: "location", Type: domain.SectionLocation, Title: "Location", Design: domain.SectionDesign{
				Columns: 2,
				Containers: []domain.Container{
					box("location-map", 3, []int{1}, el("location-map", domain.ElementMap, 0)),
					box("location-body", 2, []int{1, 1},
						el("location-text", domain.ElementLocationText, 0),
						el("location-places", domain.ElementPlaces, 1)),
				},
			}},
			{ID: "areas", Type: domain.SectionAreas, Title: "Areas", Design: domain.SectionDesign{
				Columns: 1,
				Containers: []domain.Container{
					box("areas-text", 1, []int{1},
						el("areas-title", domain.ElementAreaTitle, 0),
						el("areas-description", domain.ElementAreaDescription, 0)),
					box("areas-grid", 3, []int{1}, el("areas-images", domain.ElementAreaImages, 0)),
				},
			}},
			{ID: "contact", Type: domain.SectionContact, Title: "Contact", Design: domain.SectionDesign{
				Columns: 2,
				Containers: []domain.Container{
					box("contact-people", 2, []int{1, 1},
						el("contact-agency", domain.ElementAgency, 0),
						el("contact-agent", domain.ElementAgent, 1)),
					box("contact-qr", 1, []int{1}, el("contact-qr", domain.ElementQRCode, 0)),
				},
			}},
		},
	}
}
