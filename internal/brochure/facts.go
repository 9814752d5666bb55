package brochure

import (
	"strconv"
	"strings"

	"listing_brochure/internal/domain"
)

// KeyFact is one tile in the key-facts grid.
type KeyFact struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
	Icon  string `json:"icon,omitempty"` // override url from agency settings
}

type factDef struct {
	key, label, unit string
	value            func(domain.Property) string
}

var factDefs = []factDef{
	{"livingArea", "Living area", "m²", func(p domain.Property) string { return p.LivingArea }},
	{"plotSize", "Plot size", "m²", func(p domain.Property) string { return p.Sqft }},
	{"bedrooms", "Bedrooms", "", func(p domain.Property) string { return p.Bedrooms }},
	{"bathrooms", "Bathrooms", "", func(p domain.Property) string { return p.Bathrooms }},
	{"buildYear", "Build year", "", func(p domain.Property) string { return p.BuildYear }},
}

// KeyFacts returns the tiles that have a value; absent values produce no tile.
func KeyFacts(p domain.Property, s domain.AgencySettings) []KeyFact {
	var out []KeyFact
	for _, d := range factDefs {
		v := strings.TrimSpace(d.value(p))
		if v == "" {
			continue
		}
		if d.unit != "" && isNumber(v) {
			v += " " + d.unit
		}
		out = append(out, KeyFact{Key: d.key, Label: d.label, Value: v, Icon: s.IconOverrides[d.key]})
	}
	return out
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	return err == nil
}

// glyph is the fallback icon letter for a fact without an override image.
func glyph(key string) string {
	switch key {
	case "livingArea":
		return "L"
	case "plotSize":
		return "P"
	case "bedrooms":
		return "B"
	case "bathrooms":
		return "W"
	case "buildYear":
		return "Y"
	}
	return "•"
}
