package google

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/rs/zerolog/log"

	"listing_brochure/internal/domain"
)

const (
	MinPlaceRating = 4.0
	MaxPlaces      = 10
	searchRadiusM  = 1500
)

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		FormattedAddress string   `json:"formatted_address"`
		Geometry         geometry `json:"geometry"`
	} `json:"results"`
}

type geometry struct {
	Location struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"location"`
}

type placesResponse struct {
	Status       string  `json:"status"`
	ErrorMessage string  `json:"error_message"`
	Results      []place `json:"results"`
}

type place struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	Types            []string `json:"types"`
	Vicinity         string   `json:"vicinity"`
	Rating           float64  `json:"rating"`
	UserRatingsTotal int      `json:"user_ratings_total"`
	Geometry         geometry `json:"geometry"`
}

// Geocode resolves an address to coordinates.
func (c *Client) Geocode(ctx context.Context, address string) (orb.Point, error) {
	var out geocodeResponse
	u := c.endpoint("/maps/api/geocode/json", url.Values{"address": {address}})
	if err := c.getJSON(ctx, "geocode", u, &out); err != nil {
		return orb.Point{}, err
	}
	if err := checkStatus("geocode", out.Status, out.ErrorMessage); err != nil {
		return orb.Point{}, err
	}
	if len(out.Results) == 0 {
		return orb.Point{}, ErrNotFound
	}
	loc := out.Results[0].Geometry.Location
	return orb.Point{loc.Lng, loc.Lat}, nil
}

// NearbyPlaces returns places within the search radius that rate at least
// MinPlaceRating, nearest first, at most MaxPlaces.
func (c *Client) NearbyPlaces(ctx context.Context, at orb.Point) ([]domain.NearbyPlace, error) {
	var out placesResponse
	u := c.endpoint("/maps/api/place/nearbysearch/json", url.Values{
		"location": {latLng(at)},
		"radius":   {strconv.Itoa(searchRadiusM)},
	})
	if err := c.getJSON(ctx, "places", u, &out); err != nil {
		return nil, err
	}
	if err := checkStatus("places", out.Status, out.ErrorMessage); err != nil {
		if err == ErrNotFound {
			return []domain.NearbyPlace{}, nil
		}
		return nil, err
	}

	places := make([]domain.NearbyPlace, 0, len(out.Results))
	for _, r := range out.Results {
		if r.Rating < MinPlaceRating || r.Name == "" {
			continue
		}
		np := domain.NearbyPlace{
			ID:               r.PlaceID,
			Name:             r.Name,
			Vicinity:         r.Vicinity,
			Rating:           r.Rating,
			UserRatingsTotal: r.UserRatingsTotal,
		}
		if len(r.Types) > 0 {
			np.Type = r.Types[0]
		}
		d := geo.Distance(at, orb.Point{r.Geometry.Location.Lng, r.Geometry.Location.Lat})
		np.DistanceMeters = &d
		places = append(places, np)
	}
	sort.SliceStable(places, func(i, j int) bool { return *places[i].DistanceMeters < *places[j].DistanceMeters })
	if len(places) > MaxPlaces {
		places = places[:MaxPlaces]
	}
	return places, nil
}

// StaticMap downloads a map image centred on at with a marker.
func (c *Client) StaticMap(ctx context.Context, at orb.Point) ([]byte, error) {
	ll := latLng(at)
	u := c.endpoint("/maps/api/staticmap", url.Values{
		"center":  {ll},
		"zoom":    {"15"},
		"size":    {"640x400"},
		"scale":   {"2"},
		"markers": {"color:red|" + ll},
	})
	return c.get(ctx, "staticmap", u)
}

func latLng(p orb.Point) string {
	return strconv.FormatFloat(p.Lat(), 'f', 6, 64) + "," + strconv.FormatFloat(p.Lon(), 'f', 6, 64)
}

// Locator implements domain.Locator. The static map is copied to the file
// store so stored urls never carry the API key.
type Locator struct {
	c     *Client
	files domain.FileStore
}

func NewLocator(c *Client, files domain.FileStore) *Locator {
	return &Locator{c: c, files: files}
}

func (l *Locator) Locate(ctx context.Context, address string) (domain.LocationData, error) {
	at, err := l.c.Geocode(ctx, address)
	if err != nil {
		return domain.LocationData{}, fmt.Errorf("geocode: %w", err)
	}
	places, err := l.c.NearbyPlaces(ctx, at)
	if err != nil {
		return domain.LocationData{}, fmt.Errorf("nearby places: %w", err)
	}
	out := domain.LocationData{Latitude: at.Lat(), Longitude: at.Lon(), NearbyPlaces: places}

	// the map is optional; a failure leaves it empty
	if img, err := l.c.StaticMap(ctx, at); err != nil {
		if ctx.Err() != nil {
			return domain.LocationData{}, ctx.Err()
		}
		log.Warn().Err(err).Str("address", address).Msg("static map unavailable")
	} else if l.files != nil {
		sum := sha1.Sum([]byte(latLng(at)))
		path := "maps/" + hex.EncodeToString(sum[:]) + ".png"
		if u, err := l.files.UploadFile(ctx, img, path, "image/png"); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("static map upload failed")
		} else {
			out.MapImageURL = u
		}
	}
	return out, nil
}
