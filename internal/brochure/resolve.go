package brochure

import (
	"fmt"

	"listing_brochure/internal/domain"
)

// Options controls a resolve pass.
type Options struct {
	PrintView     bool
	WaitForPlaces bool
}

// ResolvedSection is one page of the web view. It is computed fresh on every
// pass and never stored.
type ResolvedSection struct {
	ID      string         `json:"id"`
	Title   string         `json:"title"`
	Kind    string         `json:"kind"`
	Content SectionContent `json:"content"`
}

type SectionContent interface{ sectionKind() string }

type OverviewContent struct {
	Title         string   `json:"title"`
	Price         string   `json:"price"`
	Address       string   `json:"address"`
	FeaturedImage string   `json:"featuredImage,omitempty"`
	GridImages    []string `json:"gridImages"`
	Description   string   `json:"description"`
}

type DetailsContent struct {
	KeyFacts    []KeyFact        `json:"keyFacts"`
	Features    []domain.Feature `json:"features"`
	Garages     string           `json:"garages,omitempty"`
	EnergyLabel string           `json:"energyLabel,omitempty"`
	HasGarden   bool             `json:"hasGarden"`
	Description string           `json:"description"`
}

type AreaView struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
}

type AreasContent struct {
	Page  int        `json:"page"` // 1-based
	Areas []AreaView `json:"areas"`
}

type FloorplansContent struct {
	Floorplans []string `json:"floorplans"`
}

type NeighborhoodContent struct {
	LocationDescription string               `json:"locationDescription"`
	MapImage            string               `json:"mapImage,omitempty"`
	Latitude            *float64             `json:"latitude,omitempty"`
	Longitude           *float64             `json:"longitude,omitempty"`
	Places              []domain.NearbyPlace `json:"places"`
	Pending             bool                 `json:"pending"`
}

type ContactContent struct {
	AgencyName string             `json:"agencyName"`
	Phone      string             `json:"phone,omitempty"`
	Email      string             `json:"email,omitempty"`
	Address    string             `json:"address,omitempty"`
	Website    string             `json:"website,omitempty"`
	Social     domain.SocialLinks `json:"social"`
	Agent      *domain.Agent      `json:"agent,omitempty"`
	PropertyID string             `json:"propertyId"`
}

func (OverviewContent) sectionKind() string     { return "overview" }
func (DetailsContent) sectionKind() string      { return "details" }
func (AreasContent) sectionKind() string        { return "areas" }
func (FloorplansContent) sectionKind() string   { return "floorplans" }
func (NeighborhoodContent) sectionKind() string { return "neighborhood" }
func (ContactContent) sectionKind() string      { return "contact" }

// AreaPageCount is ceil(n/2): each web area page shows two areas.
func AreaPageCount(n int) int { return (n + 1) / 2 }

// Resolve produces the ordered web-view sections for a property. Overview and
// details always lead; one areas entry per two areas follows, then floorplans
// when present, the neighborhood, and the contact page outside print view.
func Resolve(in domain.Property, s domain.AgencySettings, opt Options) []ResolvedSection {
	p := FilterDanglingRefs(in)

	out := []ResolvedSection{
		section("overview", "Overview", OverviewContent{
			Title:         p.Title,
			Price:         p.Price,
			Address:       p.Address,
			FeaturedImage: featuredURL(p),
			GridImages:    capSlice(p.GridImages, WebGridImages),
			Description:   p.Description,
		}),
		section("details", "Details", DetailsContent{
			KeyFacts:    KeyFacts(p, s),
			Features:    p.Features,
			Garages:     p.Garages,
			EnergyLabel: p.EnergyLabel,
			HasGarden:   p.HasGarden,
			Description: p.Description,
		}),
	}

	for i := 0; i < AreaPageCount(len(p.Areas)); i++ {
		end := min(2*i+2, len(p.Areas))
		views := make([]AreaView, 0, 2)
		for _, a := range p.Areas[2*i : end] {
			views = append(views, AreaView{
				ID:          a.ID,
				Title:       a.Title,
				Description: a.Description,
				Images:      areaImageURLs(p, a),
			})
		}
		out = append(out, section(
			fmt.Sprintf("areas-%d", i+1),
			fmt.Sprintf("Areas %d", i+1),
			AreasContent{Page: i + 1, Areas: views},
		))
	}

	if len(p.Floorplans) > 0 {
		out = append(out, section("floorplans", "Floorplans", FloorplansContent{Floorplans: p.Floorplans}))
	}

	nb := NeighborhoodContent{
		LocationDescription: p.LocationDescription,
		Latitude:            p.Latitude,
		Longitude:           p.Longitude,
		Places:              p.NearbyPlaces,
		Pending:             opt.WaitForPlaces && p.HasCoords() && len(p.NearbyPlaces) == 0,
	}
	if p.MapImage != nil {
		nb.MapImage = *p.MapImage
	}
	out = append(out, section("neighborhood", "Neighborhood", nb))

	if !opt.PrintView {
		cc := ContactContent{
			AgencyName: s.Name,
			Phone:      s.Phone,
			Email:      s.Email,
			Address:    s.Address,
			Website:    s.Website,
			Social:     s.Social,
			PropertyID: p.ID,
		}
		if a, ok := s.AgentFor(p.AgentID); ok {
			cc.Agent = &a
		}
		out = append(out, section("contact", "Contact", cc))
	}
	return out
}

func section(id, title string, c SectionContent) ResolvedSection {
	return ResolvedSection{ID: id, Title: title, Kind: c.sectionKind(), Content: c}
}
