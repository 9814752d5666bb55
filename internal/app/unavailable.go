package app

import (
	"context"
	"fmt"

	"listing_brochure/internal/domain"
)

// Unavailable stands in for an external service that has no credentials.
// It satisfies every outbound port and always fails with domain.ErrUnavailable.
type Unavailable struct{ Service string }

func (u Unavailable) err() error { return fmt.Errorf("%s: %w", u.Service, domain.ErrUnavailable) }

func (u Unavailable) Locate(ctx context.Context, address string) (domain.LocationData, error) {
	return domain.LocationData{}, u.err()
}

func (u Unavailable) DescribeLocation(ctx context.Context, address string, places []domain.NearbyPlace) (string, error) {
	return "", u.err()
}

func (u Unavailable) DescribeProperty(ctx context.Context, p domain.Property) (string, error) {
	return "", u.err()
}

func (u Unavailable) UploadFile(ctx context.Context, data []byte, path, contentType string) (string, error) {
	return "", u.err()
}
