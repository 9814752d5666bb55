package gemini_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"listing_brochure/internal/adapters/gemini"
	"listing_brochure/internal/domain"
)

type capture struct {
	prompt string
	path   string
}

func server(t *testing.T, reply string, status int, got *capture) *httptest.Server {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-goog-api-key") != "k" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		var req struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		if got != nil && len(req.Contents) > 0 && len(req.Contents[0].Parts) > 0 {
			got.prompt = req.Contents[0].Parts[0].Text
			got.path = r.URL.Path
		}
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": reply}}}}},
		})
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestWriter_DescribeLocation(t *testing.T) {
	var got capture
	ts := server(t, "  A quiet street near the park.  ", http.StatusOK, &got)
	c, err := gemini.New(ts.URL, "k")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	d := 120.0
	text, err := gemini.NewWriter(c).DescribeLocation(context.Background(), "Herengracht 1", []domain.NearbyPlace{
		{Name: "Central Park", Type: "tourist_attraction", DistanceMeters: &d},
	})
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	if text != "A quiet street near the park." {
		t.Fatalf("unexpected text %q", text)
	}
	if got.path != "/models/"+gemini.DefaultModel+":generateContent" {
		t.Fatalf("unexpected path %q", got.path)
	}
	for _, want := range []string{"Herengracht 1", "Central Park (tourist attraction), 120 m"} {
		if !strings.Contains(got.prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, got.prompt)
		}
	}
}

func TestWriter_DescribePropertySkipsBlankFacts(t *testing.T) {
	var got capture
	ts := server(t, "Lovely home.", http.StatusOK, &got)
	c, _ := gemini.New(ts.URL, "k")
	_, err := gemini.NewWriter(c).DescribeProperty(context.Background(), domain.Property{
		Title: "Canal house", Bedrooms: "3", HasGarden: true,
	})
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	if !strings.Contains(got.prompt, "Bedrooms: 3") || !strings.Contains(got.prompt, "Garden: yes") {
		t.Fatalf("prompt missing facts:\n%s", got.prompt)
	}
	if strings.Contains(got.prompt, "Bathrooms") {
		t.Fatalf("blank fact included:\n%s", got.prompt)
	}
}

func TestClient_Errors(t *testing.T) {
	if _, err := gemini.New("", ""); err == nil {
		t.Fatalf("expected missing key error")
	}

	ts := server(t, "   ", http.StatusOK, nil)
	c, _ := gemini.New(ts.URL, "k")
	if _, err := c.Generate(context.Background(), "x"); !errors.Is(err, gemini.ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}

	bad := server(t, "", http.StatusInternalServerError, nil)
	c, _ = gemini.New(bad.URL, "k")
	if _, err := c.Generate(context.Background(), "x"); err == nil || !strings.Contains(err.Error(), "status 500") {
		t.Fatalf("expected status error, got %v", err)
	}
}
