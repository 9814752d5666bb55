package brochure_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listing_brochure/internal/brochure"
)

func ids(secs []brochure.ResolvedSection) []string {
	out := make([]string, len(secs))
	for i, s := range secs {
		out[i] = s.ID
	}
	return out
}

func TestResolve_PrintViewFiveAreas(t *testing.T) {
	secs := brochure.Resolve(listing(5), agency(), brochure.Options{PrintView: true})
	assert.Equal(t, []string{"overview", "details", "areas-1", "areas-2", "areas-3", "neighborhood"}, ids(secs))
}

func TestResolve_WebViewAddsContact(t *testing.T) {
	secs := brochure.Resolve(listing(5), agency(), brochure.Options{})
	require.Len(t, secs, 7)
	last := secs[6]
	assert.Equal(t, "contact", last.ID)
	cc, ok := last.Content.(brochure.ContactContent)
	require.True(t, ok)
	require.NotNil(t, cc.Agent)
	assert.Equal(t, "Sam Jansen", cc.Agent.Name)
	assert.Equal(t, "prop-1", cc.PropertyID)
}

func TestResolve_AreaSlicesCoverEveryAreaOnce(t *testing.T) {
	for n := 0; n <= 9; n++ {
		p := listing(n)
		secs := brochure.Resolve(p, agency(), brochure.Options{PrintView: true})

		var seen []string
		pages := 0
		for _, s := range secs {
			ac, ok := s.Content.(brochure.AreasContent)
			if !ok {
				continue
			}
			pages++
			assert.LessOrEqual(t, len(ac.Areas), 2)
			assert.Equal(t, pages, ac.Page)
			for _, a := range ac.Areas {
				seen = append(seen, a.ID)
			}
		}
		assert.Equal(t, (n+1)/2, pages, "n=%d", n)
		var want []string
		for _, a := range p.Areas {
			want = append(want, a.ID)
		}
		assert.Equal(t, want, seen, "n=%d", n)
	}
}

func TestResolve_AreaImagesComeFromImageIDs(t *testing.T) {
	p := listing(1)
	p.Areas[0].ImageIDs = append(p.Areas[0].ImageIDs, "deleted")
	secs := brochure.Resolve(p, agency(), brochure.Options{})
	ac := secs[2].Content.(brochure.AreasContent)
	assert.Equal(t, []string{"https://cdn.test/0.jpg", "https://cdn.test/1.jpg"}, ac.Areas[0].Images)
}

func TestResolve_FloorplansWhenPresent(t *testing.T) {
	p := listing(0)
	p.Floorplans = []string{"https://cdn.test/fp.png"}
	secs := brochure.Resolve(p, agency(), brochure.Options{PrintView: true})
	assert.Equal(t, []string{"overview", "details", "floorplans", "neighborhood"}, ids(secs))
}

func TestResolve_NeighborhoodPendingOnlyWhileWaiting(t *testing.T) {
	p := listing(0)
	p.Latitude, p.Longitude = ptr(52.37), ptr(4.89)

	nb := func(opt brochure.Options) brochure.NeighborhoodContent {
		secs := brochure.Resolve(p, agency(), opt)
		return secs[len(secs)-1].Content.(brochure.NeighborhoodContent)
	}
	assert.True(t, nb(brochure.Options{PrintView: true, WaitForPlaces: true}).Pending)
	assert.False(t, nb(brochure.Options{PrintView: true}).Pending)

	p.Latitude = nil
	assert.False(t, nb(brochure.Options{PrintView: true, WaitForPlaces: true}).Pending)
}

func TestResolve_WebGridCappedAtFour(t *testing.T) {
	p := listing(3)
	for _, im := range p.Images {
		p.GridImages = append(p.GridImages, im.URL)
	}
	p.GridImages = append(p.GridImages, "https://elsewhere.test/x.jpg")
	ov := brochure.Resolve(p, agency(), brochure.Options{})[0].Content.(brochure.OverviewContent)
	assert.Len(t, ov.GridImages, brochure.WebGridImages)
	assert.Equal(t, "https://cdn.test/0.jpg", ov.FeaturedImage)
}
