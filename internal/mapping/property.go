package mapping

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"listing_brochure/internal/domain"
)

/********** alias registry **********/

var propertyAliases = map[string][]string{
	"title":                {"title", "name"},
	"price":                {"price", "asking_price"},
	"address":              {"address", "full_address", "location.address"},
	"bedrooms":             {"bedrooms", "beds"},
	"bathrooms":            {"bathrooms", "baths"},
	"sqft":                 {"sqft", "plot_size", "plotSize"},
	"livingArea":           {"livingArea", "living_area"},
	"buildYear":            {"buildYear", "build_year", "year_built"},
	"garages":              {"garages", "garage"},
	"energyLabel":          {"energyLabel", "energy_label"},
	"hasGarden":            {"hasGarden", "has_garden", "garden"},
	"description":          {"description"},
	"location_description": {"location_description", "locationDescription"},
	"features":             {"features"},
	"images":               {"images", "photos"},
	"floorplans":           {"floorplans", "floor_plans"},
	"featuredImage":        {"featuredImage", "featured_image"},
	"gridImages":           {"gridImages", "grid_images"},
	"areas":                {"areas", "rooms"},
	"areaPhotos":           {"areaPhotos", "area_photos"},
	"nearby_places":        {"nearby_places", "nearbyPlaces"},
	"map_image":            {"map_image", "mapImage"},
	"latitude":             {"latitude", "lat"},
	"longitude":            {"longitude", "lng", "lon"},
	"agent_id":             {"agent_id", "agentId"},
}

func field(key string) []string { return propertyAliases[key] }

// imageID derives a stable id for an image that arrived without one.
func imageID(url string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(url)).String()
}

// NewImage wraps an uploaded url with its derived id.
func NewImage(url string) domain.Image {
	return domain.Image{ID: imageID(url), URL: url}
}

func derivedID(propertyID, kind string, i int, text string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(propertyID+"/"+kind+"/"+strconv.Itoa(i)+"/"+text)).String()
}

// PropertyJSON decodes a raw JSON record.
func PropertyJSON(b []byte) (domain.Property, error) {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return domain.Property{}, fmt.Errorf("decode property: %w", err)
	}
	return Property(raw)
}

/********** property mapper **********/

// Property maps a loosely typed record into a validated domain.Property.
func Property(p map[string]any) (domain.Property, error) {
	id := stringFlexible(p, "id")
	if id == "" {
		ve := &domain.ValidationError{}
		ve.Add("id", "is required")
		return domain.Property{}, ve
	}

	out := domain.Property{
		ID:                  id,
		Title:               stringFlexible(p, field("title")...),
		Price:               stringFlexible(p, field("price")...),
		Address:             stringFlexible(p, field("address")...),
		Bedrooms:            stringFlexible(p, field("bedrooms")...),
		Bathrooms:           stringFlexible(p, field("bathrooms")...),
		Sqft:                stringFlexible(p, field("sqft")...),
		LivingArea:          stringFlexible(p, field("livingArea")...),
		BuildYear:           stringFlexible(p, field("buildYear")...),
		Garages:             stringFlexible(p, field("garages")...),
		EnergyLabel:         stringFlexible(p, field("energyLabel")...),
		HasGarden:           boolFlexible(p, field("hasGarden")...),
		Description:         stringFlexible(p, field("description")...),
		LocationDescription: stringFlexible(p, field("location_description")...),
		Floorplans:          stringSlice(p, field("floorplans")...),
		FeaturedImage:       optString(p, field("featuredImage")...),
		GridImages:          stringSlice(p, field("gridImages")...),
		MapImage:            optString(p, field("map_image")...),
		Latitude:            floatFlexible(p, field("latitude")...),
		Longitude:           floatFlexible(p, field("longitude")...),
		AgentID:             optString(p, field("agent_id")...),
	}

	out.Images = mapImages(p)
	out.Features = mapFeatures(id, p)
	out.Areas = mapAreas(id, p, &out)
	out.NearbyPlaces = mapPlaces(p)
	return out, nil
}

func mapImages(p map[string]any) []domain.Image {
	var out []domain.Image
	seen := map[string]bool{}
	for _, obj := range objects(p, "url", field("images")...) {
		url := stringFlexible(obj, "url", "src")
		if url == "" || seen[url] {
			continue
		}
		seen[url] = true
		id := stringFlexible(obj, "id")
		if id == "" {
			id = imageID(url)
		}
		out = append(out, domain.Image{ID: id, URL: url})
	}
	return out
}

func mapFeatures(propertyID string, p map[string]any) []domain.Feature {
	var out []domain.Feature
	for i, obj := range objects(p, "description", field("features")...) {
		desc := stringFlexible(obj, "description", "text", "name")
		if desc == "" {
			continue
		}
		id := stringFlexible(obj, "id")
		if id == "" {
			id = derivedID(propertyID, "feature", i, desc)
		}
		out = append(out, domain.Feature{ID: id, Description: desc})
	}
	return out
}

// mapAreas resolves each area's image references to image ids. Values that
// are urls of known images are converted; legacy positional areaPhotos fill
// areas that carry no references of their own (area k owns photos 2k, 2k+1).
func mapAreas(propertyID string, p map[string]any, prop *domain.Property) []domain.Area {
	byURL := make(map[string]string, len(prop.Images))
	for _, img := range prop.Images {
		byURL[img.URL] = img.ID
	}
	legacy := stringSlice(p, field("areaPhotos")...)

	var out []domain.Area
	for i, obj := range objects(p, "title", field("areas")...) {
		a := domain.Area{
			ID:          stringFlexible(obj, "id"),
			Title:       stringFlexible(obj, "title", "name"),
			Description: stringFlexible(obj, "description"),
		}
		if a.ID == "" {
			a.ID = derivedID(propertyID, "area", i, a.Title)
		}
		for _, ref := range stringSlice(obj, "imageIds", "image_ids", "images") {
			if id, ok := byURL[ref]; ok {
				ref = id
			}
			a.ImageIDs = append(a.ImageIDs, ref)
		}
		if len(a.ImageIDs) == 0 && len(legacy) > 2*i {
			end := min(2*i+2, len(legacy))
			for _, url := range legacy[2*i : end] {
				id, ok := byURL[url]
				if !ok {
					id = imageID(url)
					prop.Images = append(prop.Images, domain.Image{ID: id, URL: url})
					byURL[url] = id
				}
				a.ImageIDs = append(a.ImageIDs, id)
			}
		}
		out = append(out, a)
	}
	return out
}

func mapPlaces(p map[string]any) []domain.NearbyPlace {
	var out []domain.NearbyPlace
	for _, obj := range objects(p, "name", field("nearby_places")...) {
		pl := domain.NearbyPlace{
			ID:               stringFlexible(obj, "id", "place_id"),
			Name:             stringFlexible(obj, "name"),
			Type:             stringFlexible(obj, "type"),
			Vicinity:         stringFlexible(obj, "vicinity", "address"),
			UserRatingsTotal: intFlexible(obj, "user_ratings_total", "userRatingsTotal"),
			DistanceMeters:   floatFlexible(obj, "distance_m"),
		}
		if pl.Type == "" {
			if types := stringSlice(obj, "types"); len(types) > 0 {
				pl.Type = types[0]
			}
		}
		if r := floatFlexible(obj, "rating"); r != nil {
			pl.Rating = *r
		}
		if pl.Name == "" {
			continue
		}
		if pl.ID == "" {
			pl.ID = derivedID(pl.Name, "place", 0, pl.Vicinity)
		}
		out = append(out, pl)
	}
	return out
}
