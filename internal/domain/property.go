package domain

import "slices"

// Property is a single listing as held by the record store.
type Property struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Price       string `json:"price"`
	Address     string `json:"address"`
	Bedrooms    string `json:"bedrooms"`
	Bathrooms   string `json:"bathrooms"`
	Sqft        string `json:"sqft"` // plot size
	LivingArea  string `json:"livingArea"`
	BuildYear   string `json:"buildYear"`
	Garages     string `json:"garages"`
	EnergyLabel string `json:"energyLabel"`
	HasGarden   bool   `json:"hasGarden"`

	Description         string `json:"description"`
	LocationDescription string `json:"location_description"`

	Features      []Feature `json:"features"`
	Images        []Image   `json:"images"`
	Floorplans    []string  `json:"floorplans"`
	FeaturedImage *string   `json:"featuredImage"`
	GridImages    []string  `json:"gridImages"` // urls, must reference Images
	Areas         []Area    `json:"areas"`

	NearbyPlaces []NearbyPlace `json:"nearby_places"`
	MapImage     *string       `json:"map_image"`
	Latitude     *float64      `json:"latitude"`
	Longitude    *float64      `json:"longitude"`
	AgentID      *string       `json:"agent_id"`
}

type Feature struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

type Image struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type Area struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ImageIDs    []string `json:"imageIds"` // references Images by id
}

type NearbyPlace struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Type             string   `json:"type"`
	Vicinity         string   `json:"vicinity"`
	Rating           float64  `json:"rating"`
	UserRatingsTotal int      `json:"user_ratings_total"`
	DistanceMeters   *float64 `json:"distance_m,omitempty"`
}

// HasCoords reports whether both latitude and longitude are known.
func (p Property) HasCoords() bool { return p.Latitude != nil && p.Longitude != nil }

// ImageURLs returns the urls of all images in order.
func (p Property) ImageURLs() []string {
	out := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		out = append(out, img.URL)
	}
	return out
}

// ImageByID looks up an image by its id.
func (p Property) ImageByID(id string) (Image, bool) {
	for _, img := range p.Images {
		if img.ID == id {
			return img, true
		}
	}
	return Image{}, false
}

// Clone returns a deep copy so callers can mutate slices freely.
func (p Property) Clone() Property {
	out := p
	out.Features = slices.Clone(p.Features)
	out.Images = slices.Clone(p.Images)
	out.Floorplans = slices.Clone(p.Floorplans)
	out.GridImages = slices.Clone(p.GridImages)
	out.NearbyPlaces = slices.Clone(p.NearbyPlaces)
	if p.Areas != nil {
		out.Areas = make([]Area, len(p.Areas))
		for i, a := range p.Areas {
			a.ImageIDs = slices.Clone(a.ImageIDs)
			out.Areas[i] = a
		}
	}
	return out
}
