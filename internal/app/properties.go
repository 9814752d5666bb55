package app

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"listing_brochure/internal/domain"
	"listing_brochure/internal/mapping"
)

type PropertyService struct {
	repo     domain.PropertyRepository
	cache    domain.Cache
	cacheTTL time.Duration
	files    domain.FileStore
	locator  domain.Locator
	writer   domain.TextGenerator
}

func NewPropertyService(r domain.PropertyRepository, c domain.Cache, ttl time.Duration, files domain.FileStore, loc domain.Locator, w domain.TextGenerator) *PropertyService {
	return &PropertyService{repo: r, cache: c, cacheTTL: ttl, files: files, locator: loc, writer: w}
}

func propertyKey(id string) string { return "property:" + id }

func (s *PropertyService) GetProperty(ctx context.Context, id string) (domain.Property, error) {
	key := propertyKey(id)
	var p domain.Property
	if ok, _ := s.cache.Get(ctx, key, &p); ok {
		return p, nil
	}
	p, err := s.repo.GetProperty(ctx, id)
	if err != nil {
		return domain.Property{}, err
	}
	_ = s.cache.Set(ctx, key, p, int(s.cacheTTL.Seconds()))
	return p.Clone(), nil
}

// SaveProperty writes the record and drops its cached copy. Last writer wins.
func (s *PropertyService) SaveProperty(ctx context.Context, p domain.Property) error {
	if strings.TrimSpace(p.ID) == "" {
		ve := &domain.ValidationError{}
		ve.Add("id", "is required")
		return ve
	}
	if err := s.repo.UpsertProperty(ctx, p); err != nil {
		return err
	}
	_ = s.cache.Del(ctx, propertyKey(p.ID))
	return nil
}

func (s *PropertyService) DeleteProperty(ctx context.Context, id string) error {
	if err := s.repo.DeleteProperty(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Del(ctx, propertyKey(id))
	return nil
}

// Upload is one file received from a client.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// UploadImages uploads every file concurrently and waits for all of them.
// One failure fails the batch; files that already reached the file store stay
// there. On success the urls are appended to the property's images, and to
// its floorplans when kind is "floorplan".
func (s *PropertyService) UploadImages(ctx context.Context, id, kind string, files []Upload) (domain.Property, error) {
	if len(files) == 0 {
		ve := &domain.ValidationError{}
		ve.Add("files", "at least one file is required")
		return domain.Property{}, ve
	}
	p, err := s.GetProperty(ctx, id)
	if err != nil {
		return domain.Property{}, err
	}

	urls := make([]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			name := uuid.NewString() + strings.ToLower(path.Ext(f.Name))
			u, err := s.files.UploadFile(gctx, f.Data, path.Join("properties", id, name), f.ContentType)
			if err != nil {
				return fmt.Errorf("upload %s: %w", f.Name, err)
			}
			urls[i] = u
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.Property{}, err
	}

	for _, u := range urls {
		p.Images = append(p.Images, mapping.NewImage(u))
		if kind == "floorplan" {
			p.Floorplans = append(p.Floorplans, u)
		}
	}
	if err := s.SaveProperty(ctx, p); err != nil {
		return domain.Property{}, err
	}
	return p, nil
}

// Locate geocodes the property's address and stores coordinates, the static
// map and nearby places.
func (s *PropertyService) Locate(ctx context.Context, id string) (domain.Property, error) {
	p, err := s.GetProperty(ctx, id)
	if err != nil {
		return domain.Property{}, err
	}
	if strings.TrimSpace(p.Address) == "" {
		ve := &domain.ValidationError{}
		ve.Add("address", "is required to locate a property")
		return domain.Property{}, ve
	}
	loc, err := s.locator.Locate(ctx, p.Address)
	if err != nil {
		return domain.Property{}, fmt.Errorf("locate %s: %w", id, err)
	}
	p.Latitude, p.Longitude = &loc.Latitude, &loc.Longitude
	if loc.MapImageURL != "" {
		p.MapImage = &loc.MapImageURL
	}
	p.NearbyPlaces = loc.NearbyPlaces
	if err := s.SaveProperty(ctx, p); err != nil {
		return domain.Property{}, err
	}
	return p, nil
}

const (
	DescribeLocation = "location"
	DescribeProperty = "property"
)

// Describe drafts copy with the text generator. A generator failure is not an
// error: the record is returned unchanged with a warning.
func (s *PropertyService) Describe(ctx context.Context, id, kind string) (domain.Property, string, error) {
	if kind != DescribeLocation && kind != DescribeProperty {
		ve := &domain.ValidationError{}
		ve.Add("kind", "must be location or property")
		return domain.Property{}, "", ve
	}
	p, err := s.GetProperty(ctx, id)
	if err != nil {
		return domain.Property{}, "", err
	}

	var text string
	if kind == DescribeLocation {
		text, err = s.writer.DescribeLocation(ctx, p.Address, p.NearbyPlaces)
	} else {
		text, err = s.writer.DescribeProperty(ctx, p)
	}
	if err != nil || strings.TrimSpace(text) == "" {
		if ctx.Err() != nil {
			return domain.Property{}, "", ctx.Err()
		}
		log.Warn().Err(err).Str("id", id).Str("kind", kind).Msg("text generation failed, keeping existing text")
		return p, "text generation unavailable, existing text kept", nil
	}

	if kind == DescribeLocation {
		p.LocationDescription = text
	} else {
		p.Description = text
	}
	if err := s.SaveProperty(ctx, p); err != nil {
		return domain.Property{}, "", err
	}
	return p, "", nil
}
