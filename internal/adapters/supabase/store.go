package supabasead

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/supabase-community/postgrest-go"
	storage_go "github.com/supabase-community/storage-go"
	"github.com/supabase-community/supabase-go"

	"listing_brochure/internal/domain"
	"listing_brochure/internal/mapping"
)

const (
	propertiesTable = "properties"
	templatesTable  = "templates"
	settingsTable   = "agency_settings"
	contactsTable   = "contacts"

	settingsID = "default"
)

// Store implements domain.Store over PostgREST and domain.FileStore over
// Supabase Storage. Records are kept as a jsonb "data" column next to the id
// and decoded through the mapping package like every other store.
type Store struct {
	client *supabase.Client
	bucket string
}

func New(url, key, bucket string) (*Store, error) {
	if url == "" || key == "" {
		return nil, fmt.Errorf("SUPABASE_URL and SUPABASE_KEY are required")
	}
	c, err := supabase.NewClient(url, key, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("supabase client: %w", err)
	}
	if bucket == "" {
		bucket = "brochures"
	}
	return &Store{client: c, bucket: bucket}, nil
}

type row struct {
	ID        string          `json:"id"`
	Data      json.RawMessage `json:"data"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}

func (s *Store) rows(ctx context.Context, table, id string) ([]row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q := s.client.From(table).Select("id,data,updated_at", "", false)
	if id != "" {
		q = q.Eq("id", id)
	}
	data, _, err := q.Execute()
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	var out []row
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", table, err)
	}
	return out, nil
}

func (s *Store) one(ctx context.Context, table, id string) (row, error) {
	rs, err := s.rows(ctx, table, id)
	if err != nil {
		return row{}, err
	}
	if len(rs) == 0 {
		return row{}, domain.ErrNotFound
	}
	return rs[0], nil
}

func (s *Store) upsert(ctx context.Context, table, id string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, _, err = s.client.From(table).
		Insert(row{ID: id, Data: b, UpdatedAt: &now}, true, "id", "minimal", "").
		Execute()
	if err != nil {
		return fmt.Errorf("upsert %s: %w", table, err)
	}
	return nil
}

func (s *Store) delete(ctx context.Context, table, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, _, err := s.client.From(table).Delete("minimal", "").Eq("id", id).Execute(); err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	return nil
}

func (s *Store) GetProperty(ctx context.Context, id string) (domain.Property, error) {
	r, err := s.one(ctx, propertiesTable, id)
	if err != nil {
		return domain.Property{}, err
	}
	return mapping.PropertyJSON(r.Data)
}

func (s *Store) UpsertProperty(ctx context.Context, p domain.Property) error {
	return s.upsert(ctx, propertiesTable, p.ID, p)
}

func (s *Store) DeleteProperty(ctx context.Context, id string) error {
	return s.delete(ctx, propertiesTable, id)
}

func (s *Store) ListPropertyIDs(ctx context.Context, limit int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q := s.client.From(propertiesTable).Select("id", "", false).
		Order("id", &postgrest.OrderOpts{Ascending: true})
	if limit > 0 {
		q = q.Limit(limit, "")
	}
	data, _, err := q.Execute()
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	var rs []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("decode properties: %w", err)
	}
	ids := make([]string, 0, len(rs))
	for _, r := range rs {
		ids = append(ids, r.ID)
	}
	return ids, nil
}

func (s *Store) ListTemplates(ctx context.Context) ([]domain.Template, error) {
	rs, err := s.rows(ctx, templatesTable, "")
	if err != nil {
		return nil, err
	}
	out := make([]domain.Template, 0, len(rs))
	for _, r := range rs {
		t, err := mapping.TemplateJSON(r.Data)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", r.ID, err)
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetTemplate(ctx context.Context, id string) (domain.Template, error) {
	r, err := s.one(ctx, templatesTable, id)
	if err != nil {
		return domain.Template{}, err
	}
	return mapping.TemplateJSON(r.Data)
}

func (s *Store) UpsertTemplate(ctx context.Context, t domain.Template) error {
	return s.upsert(ctx, templatesTable, t.ID, t)
}

func (s *Store) DeleteTemplate(ctx context.Context, id string) error {
	return s.delete(ctx, templatesTable, id)
}

func (s *Store) GetSettings(ctx context.Context) (domain.AgencySettings, error) {
	r, err := s.one(ctx, settingsTable, settingsID)
	if err != nil {
		return domain.AgencySettings{}, err
	}
	return mapping.SettingsJSON(r.Data)
}

func (s *Store) UpsertSettings(ctx context.Context, st domain.AgencySettings) error {
	return s.upsert(ctx, settingsTable, settingsID, st)
}

func (s *Store) InsertContact(ctx context.Context, c domain.ContactSubmission) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, _, err := s.client.From(contactsTable).Insert(c, false, "", "minimal", "").Execute(); err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

func (s *Store) ListContacts(ctx context.Context, limit int) ([]domain.ContactSubmission, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q := s.client.From(contactsTable).Select("*", "", false).
		Order("created_at", &postgrest.OrderOpts{Ascending: false})
	if limit > 0 {
		q = q.Limit(limit, "")
	}
	data, _, err := q.Execute()
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	var out []domain.ContactSubmission
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode contacts: %w", err)
	}
	return out, nil
}

// UploadFile stores data in the bucket, replacing any object at path, and
// returns its public url.
func (s *Store) UploadFile(ctx context.Context, data []byte, path, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	upsert := true
	_, err := s.client.Storage.UploadFile(s.bucket, path, bytes.NewReader(data), storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", path, err)
	}
	return s.client.Storage.GetPublicUrl(s.bucket, path).SignedURL, nil
}
