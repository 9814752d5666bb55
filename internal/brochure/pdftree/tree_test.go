package pdftree_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listing_brochure/internal/brochure"
	"listing_brochure/internal/brochure/pdftree"
	"listing_brochure/internal/domain"
)

func plan() brochure.Plan {
	p := domain.Property{
		ID: "p1", Title: "Loft", Bedrooms: "1", Description: "Open plan loft.",
		Images: []domain.Image{{ID: "i", URL: "u"}},
		Areas:  []domain.Area{{ID: "a", Title: "Living", ImageIDs: []string{"i"}}},
	}
	s := domain.AgencySettings{Name: "Loft Agency", Email: "hi@loft.test"}
	return brochure.BuildPlan(p, s, nil, brochure.PlanOptions{})
}

func TestBuild_MirrorsPlan(t *testing.T) {
	pl := plan()
	doc := pdftree.Build(pl)
	require.Len(t, doc.Pages, pl.Total())
	assert.Equal(t, brochure.PageWidth, doc.Width)

	for i, pg := range doc.Pages {
		assert.Equal(t, i+1, pg.Number)
		assert.Len(t, pg.Body.Children, len(pl.Pages[i].Blocks))
		if pl.Pages[i].Chrome {
			require.NotNil(t, pg.Footer)
			var label string
			pg.Footer.Walk(func(n pdftree.Node) {
				if n.Type == pdftree.NodeText && strings.HasPrefix(n.Text, "Page ") {
					label = n.Text
				}
			})
			assert.Equal(t, brochure.PageLabel(i+1, pl.Total()), label)
		} else {
			assert.Nil(t, pg.Header)
			assert.Nil(t, pg.Footer)
		}
	}
}

func TestBuild_JSONRoundTrip(t *testing.T) {
	doc := pdftree.Build(plan())
	b, err := json.Marshal(doc)
	require.NoError(t, err)

	var back pdftree.Document
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, doc, back)
}

func TestBackend_Render(t *testing.T) {
	pl := plan()
	qr, err := brochure.QRCode("u")
	require.NoError(t, err)

	var buf bytes.Buffer
	be := pdftree.New()
	assert.Equal(t, "tree", be.Name())
	require.NoError(t, be.Render(context.Background(), &buf, pl, brochure.ImageSet{"u": qr}))
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF-"))
	assert.Equal(t, pl.Total(), strings.Count(buf.String(), "/Type /Page\n"))
}
