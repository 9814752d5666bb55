package google_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"listing_brochure/internal/adapters/google"
)

type memFiles struct{ paths []string }

func (m *memFiles) UploadFile(ctx context.Context, data []byte, path, contentType string) (string, error) {
	m.paths = append(m.paths, path)
	return "https://files.test/" + path, nil
}

func place(id, name string, rating, lat, lng float64) map[string]any {
	return map[string]any{
		"place_id": id, "name": name, "types": []string{"cafe", "food"}, "vicinity": "Street",
		"rating": rating, "user_ratings_total": 10,
		"geometry": map[string]any{"location": map[string]any{"lat": lat, "lng": lng}},
	}
}

func mapsServer(t *testing.T, places []map[string]any, geocodeHits *int32) *httptest.Server {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "test-key" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		switch r.URL.Path {
		case "/maps/api/geocode/json":
			if geocodeHits != nil && atomic.AddInt32(geocodeHits, 1) == 1 {
				w.WriteHeader(http.StatusServiceUnavailable) // one transient failure
				return
			}
			if r.URL.Query().Get("address") == "nowhere" {
				_ = json.NewEncoder(w).Encode(map[string]any{"status": "ZERO_RESULTS", "results": []any{}})
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"status": "OK", "results": []any{
				map[string]any{"geometry": map[string]any{"location": map[string]any{"lat": 52.0, "lng": 4.0}}},
			}})
		case "/maps/api/place/nearbysearch/json":
			if !strings.HasPrefix(r.URL.Query().Get("location"), "52.000000,4.000000") {
				t.Errorf("unexpected location %q", r.URL.Query().Get("location"))
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"status": "OK", "results": places})
		case "/maps/api/staticmap":
			w.Header().Set("Content-Type", "image/png")
			w.Write([]byte("png"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestLocator_FiltersSortsAndCaps(t *testing.T) {
	var places []map[string]any
	// twelve good places, further away as i grows, plus two poorly rated
	for i := 12; i >= 1; i-- {
		places = append(places, place(string(rune('a'+i)), "good", 4.5, 52.0+float64(i)*0.001, 4.0))
	}
	places = append(places, place("bad1", "meh", 3.9, 52.0, 4.0), place("bad2", "meh", 0, 52.0, 4.0))

	var hits int32
	ts := mapsServer(t, places, &hits)
	cl, err := google.New(ts.URL, "test-key", 100)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	files := &memFiles{}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got, err := google.NewLocator(cl, files).Locate(ctx, "Herengracht 1")
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if got.Latitude != 52.0 || got.Longitude != 4.0 {
		t.Fatalf("coords: %+v", got)
	}
	if len(got.NearbyPlaces) != google.MaxPlaces {
		t.Fatalf("expected %d places, got %d", google.MaxPlaces, len(got.NearbyPlaces))
	}
	for i, p := range got.NearbyPlaces {
		if p.Rating < google.MinPlaceRating {
			t.Fatalf("low rated place kept: %+v", p)
		}
		if p.Type != "cafe" || p.DistanceMeters == nil {
			t.Fatalf("unexpected place: %+v", p)
		}
		if i > 0 && *p.DistanceMeters < *got.NearbyPlaces[i-1].DistanceMeters {
			t.Fatalf("places not sorted by distance")
		}
	}
	if len(files.paths) != 1 || !strings.HasPrefix(got.MapImageURL, "https://files.test/maps/") {
		t.Fatalf("map not stored: %q %v", got.MapImageURL, files.paths)
	}
	if strings.Contains(got.MapImageURL, "key=") {
		t.Fatalf("map url leaks key")
	}
	if atomic.LoadInt32(&hits) != 2 {
		t.Fatalf("expected one retry on geocode, got %d calls", hits)
	}
}

func TestLocator_NoResults(t *testing.T) {
	ts := mapsServer(t, nil, nil)
	cl, _ := google.New(ts.URL, "test-key", 100)
	_, err := google.NewLocator(cl, nil).Locate(context.Background(), "nowhere")
	if !errors.Is(err, google.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClient_Forbidden(t *testing.T) {
	ts := mapsServer(t, nil, nil)
	cl, _ := google.New(ts.URL, "wrong-key", 100)
	_, err := cl.Geocode(context.Background(), "x")
	if !errors.Is(err, google.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := google.New(ts.URL, "", 1); err == nil {
		t.Fatalf("expected missing key error")
	}
}
