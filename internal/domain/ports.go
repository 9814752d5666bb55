package domain

import "context"

type PropertyRepository interface {
	GetProperty(ctx context.Context, id string) (Property, error)
	UpsertProperty(ctx context.Context, p Property) error
	DeleteProperty(ctx context.Context, id string) error
	ListPropertyIDs(ctx context.Context, limit int) ([]string, error)
}

type TemplateRepository interface {
	ListTemplates(ctx context.Context) ([]Template, error)
	GetTemplate(ctx context.Context, id string) (Template, error)
	UpsertTemplate(ctx context.Context, t Template) error
	DeleteTemplate(ctx context.Context, id string) error
}

type SettingsRepository interface {
	GetSettings(ctx context.Context) (AgencySettings, error)
	UpsertSettings(ctx context.Context, s AgencySettings) error
}

type ContactRepository interface {
	InsertContact(ctx context.Context, c ContactSubmission) error
	ListContacts(ctx context.Context, limit int) ([]ContactSubmission, error)
}

// Store is the full record store; both the MySQL and Supabase adapters implement it.
type Store interface {
	PropertyRepository
	TemplateRepository
	SettingsRepository
	ContactRepository
}

// FileStore uploads bytes and returns a durable public url.
type FileStore interface {
	UploadFile(ctx context.Context, data []byte, path, contentType string) (string, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// LocationData is what the geocoding/places service returns for an address.
type LocationData struct {
	Latitude     float64
	Longitude    float64
	MapImageURL  string
	NearbyPlaces []NearbyPlace
}

type Locator interface {
	Locate(ctx context.Context, address string) (LocationData, error)
}

type TextGenerator interface {
	DescribeLocation(ctx context.Context, address string, places []NearbyPlace) (string, error)
	DescribeProperty(ctx context.Context, p Property) (string, error)
}
