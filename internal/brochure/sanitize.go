package brochure

import "listing_brochure/internal/domain"

// Caps applied to print output.
const (
	PrintGridImages   = 3
	PrintFeatures     = 10
	PrintPlaces       = 5
	WebGridImages     = 4
	PrintAreas        = 4
	AreaImagesPerPage = 6
	FloorplansPerPage = 2
)

// FilterDanglingRefs drops grid images whose url is not among the property's
// images and area image ids that do not resolve. The store does not enforce
// these references. Idempotent.
func FilterDanglingRefs(in domain.Property) domain.Property {
	p := in.Clone()
	urls := make(map[string]bool, len(p.Images))
	ids := make(map[string]bool, len(p.Images))
	for _, img := range p.Images {
		urls[img.URL] = true
		ids[img.ID] = true
	}
	grid := p.GridImages[:0]
	for _, u := range p.GridImages {
		if urls[u] {
			grid = append(grid, u)
		}
	}
	p.GridImages = grid
	for i := range p.Areas {
		kept := p.Areas[i].ImageIDs[:0]
		for _, id := range p.Areas[i].ImageIDs {
			if ids[id] {
				kept = append(kept, id)
			}
		}
		p.Areas[i].ImageIDs = kept
	}
	return p
}

// SanitizeForPrint filters dangling references and applies the print caps:
// grid images are filtered first and then capped, so a dangling url never
// takes a slot. Idempotent.
func SanitizeForPrint(in domain.Property) domain.Property {
	p := FilterDanglingRefs(in)
	p.GridImages = capSlice(p.GridImages, PrintGridImages)
	p.Features = capSlice(p.Features, PrintFeatures)
	p.NearbyPlaces = capSlice(p.NearbyPlaces, PrintPlaces)
	return p
}

func capSlice[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// areaImageURLs resolves an area's image ids to urls in order.
func areaImageURLs(p domain.Property, a domain.Area) []string {
	out := make([]string, 0, len(a.ImageIDs))
	for _, id := range a.ImageIDs {
		if img, ok := p.ImageByID(id); ok {
			out = append(out, img.URL)
		}
	}
	return out
}

func featuredURL(p domain.Property) string {
	if p.FeaturedImage != nil && *p.FeaturedImage != "" {
		return *p.FeaturedImage
	}
	if len(p.Images) > 0 {
		return p.Images[0].URL
	}
	return ""
}
