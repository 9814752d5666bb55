package brochure_test

import (
	"fmt"

	"listing_brochure/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func img(n int) domain.Image {
	return domain.Image{ID: fmt.Sprintf("img-%d", n), URL: fmt.Sprintf("https://cdn.test/%d.jpg", n)}
}

// listing returns a property with the given number of areas, each owning two
// images.
func listing(areas int) domain.Property {
	p := domain.Property{
		ID:          "prop-1",
		Title:       "Canal house",
		Price:       "€ 850.000",
		Address:     "Herengracht 1, Amsterdam",
		Bedrooms:    "3",
		Bathrooms:   "2",
		LivingArea:  "140",
		BuildYear:   "1890",
		Description: "A bright canal house.",
		Features:    []domain.Feature{{ID: "f1", Description: "Roof terrace"}},
	}
	for i := 0; i < areas; i++ {
		a, b := img(2*i), img(2*i+1)
		p.Images = append(p.Images, a, b)
		p.Areas = append(p.Areas, domain.Area{
			ID:       fmt.Sprintf("area-%d", i),
			Title:    fmt.Sprintf("Room %d", i),
			ImageIDs: []string{a.ID, b.ID},
		})
	}
	return p
}

func agency() domain.AgencySettings {
	return domain.AgencySettings{
		Name:           "Canal Estates",
		Email:          "info@canal.test",
		Phone:          "+31 20 000 0000",
		PrimaryColor:   "#1f3a5f",
		SecondaryColor: "#c9a227",
		Agents:         []domain.Agent{{ID: "ag-1", Name: "Sam Jansen", Phone: "+31 6 1111 2222"}},
	}
}
