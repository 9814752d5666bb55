package gemini

import (
	"context"
	"fmt"
	"strings"

	"listing_brochure/internal/domain"
)

// maxPromptPlaces bounds how many places are listed in a location prompt.
const maxPromptPlaces = 8

// Writer implements domain.TextGenerator on top of Client.
type Writer struct {
	c *Client
}

func NewWriter(c *Client) *Writer { return &Writer{c: c} }

func (w *Writer) DescribeLocation(ctx context.Context, address string, places []domain.NearbyPlace) (string, error) {
	return w.c.Generate(ctx, locationPrompt(address, places))
}

func (w *Writer) DescribeProperty(ctx context.Context, p domain.Property) (string, error) {
	return w.c.Generate(ctx, propertyPrompt(p))
}

func locationPrompt(address string, places []domain.NearbyPlace) string {
	var b strings.Builder
	b.WriteString("Write a short, factual paragraph (at most 120 words) for a property brochure ")
	b.WriteString("describing the neighbourhood around ")
	b.WriteString(address)
	b.WriteString(". Do not invent facts and do not use headings or lists.\n")
	if len(places) > 0 {
		b.WriteString("Nearby places:\n")
		for i, p := range places {
			if i == maxPromptPlaces {
				break
			}
			fmt.Fprintf(&b, "- %s (%s)", p.Name, strings.ReplaceAll(p.Type, "_", " "))
			if p.DistanceMeters != nil {
				fmt.Fprintf(&b, ", %.0f m", *p.DistanceMeters)
			}
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func propertyPrompt(p domain.Property) string {
	var b strings.Builder
	b.WriteString("Write an inviting but factual property description (at most 150 words) for a brochure. ")
	b.WriteString("Use only the facts below, no headings or lists.\n")
	line := func(label, v string) {
		if strings.TrimSpace(v) != "" {
			fmt.Fprintf(&b, "%s: %s\n", label, v)
		}
	}
	line("Title", p.Title)
	line("Address", p.Address)
	line("Price", p.Price)
	line("Bedrooms", p.Bedrooms)
	line("Bathrooms", p.Bathrooms)
	line("Living area (m2)", p.LivingArea)
	line("Plot size (m2)", p.Sqft)
	line("Build year", p.BuildYear)
	line("Garages", p.Garages)
	line("Energy label", p.EnergyLabel)
	if p.HasGarden {
		line("Garden", "yes")
	}
	for _, f := range p.Features {
		line("Feature", f.Description)
	}
	for _, a := range p.Areas {
		line("Room", strings.TrimSpace(a.Title+" "+a.Description))
	}
	return b.String()
}
