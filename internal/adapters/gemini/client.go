package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"listing_brochure/internal/adapters/observability"
)

const (
	DefaultBase  = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel = "gemini-2.5-flash"
)

var ErrEmpty = errors.New("gemini: empty response")

type Client struct {
	base  string
	model string
	key   string
	hc    *http.Client
}

func New(base, key string) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if base == "" {
		base = DefaultBase
	}
	return &Client{
		base:  strings.TrimRight(base, "/"),
		model: DefaultModel,
		key:   key,
		hc:    &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Generate sends a single-turn prompt and returns the first candidate's text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{Temperature: 0.7, MaxOutputTokens: 1024},
	})
	if err != nil {
		return "", fmt.Errorf("gemini: encode request: %w", err)
	}

	u := fmt.Sprintf("%s/models/%s:generateContent", c.base, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.key)

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("gemini", "generate", 0, time.Since(start))
		return "", fmt.Errorf("gemini: request: %w", err)
	}
	defer resp.Body.Close()
	observability.ObserveExternal("gemini", "generate", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("gemini: status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var out generateResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4<<20)).Decode(&out); err != nil {
		return "", fmt.Errorf("gemini: decode: %w", err)
	}
	if len(out.Candidates) == 0 {
		return "", ErrEmpty
	}
	var sb strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", ErrEmpty
	}
	return text, nil
}
