package brochure_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listing_brochure/internal/brochure"
	"listing_brochure/internal/domain"
)

type fakeFetcher struct{ calls []string }

func (f *fakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.calls = append(f.calls, url)
	return nil, errors.New("offline")
}

type fakeBackend struct {
	name  string
	err   error
	pages int
	imgs  int
}

func (b *fakeBackend) Name() string { return b.name }

func (b *fakeBackend) Render(_ context.Context, w io.Writer, plan brochure.Plan, images brochure.ImageSet) error {
	b.pages, b.imgs = plan.Total(), len(images)
	io.WriteString(w, "%PDF-partial")
	return b.err
}

func TestService_RendersWithDefaultBackend(t *testing.T) {
	f := &fakeFetcher{}
	draw := &fakeBackend{name: "draw"}
	svc := brochure.NewService(brochure.NewImageLoader(f), draw, &fakeBackend{name: "tree"})
	assert.Equal(t, []string{"draw", "tree"}, svc.Backends())

	var out bytes.Buffer
	err := svc.Render(context.Background(), &out, brochure.Request{Property: listing(2), Settings: agency()}, "")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-partial", out.String())
	assert.Equal(t, 5, draw.pages, "cover, details, two area pages, contact")
	assert.Zero(t, draw.imgs, "every image failed and was skipped")
	assert.NotEmpty(t, f.calls)
}

func TestService_NoOutputOnFailure(t *testing.T) {
	svc := brochure.NewService(brochure.NewImageLoader(&fakeFetcher{}), &fakeBackend{name: "draw", err: errors.New("boom")})
	var out bytes.Buffer
	err := svc.Render(context.Background(), &out, brochure.Request{Property: listing(0)}, "draw")
	require.Error(t, err)
	assert.Zero(t, out.Len())
}

func TestService_UnknownBackend(t *testing.T) {
	svc := brochure.NewService(brochure.NewImageLoader(&fakeFetcher{}), &fakeBackend{name: "draw"})
	err := svc.Render(context.Background(), io.Discard, brochure.Request{Property: listing(0)}, "latex")
	assert.ErrorIs(t, err, domain.ErrUnknownBackend)
}
