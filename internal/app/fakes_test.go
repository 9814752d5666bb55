package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"listing_brochure/internal/brochure"
	"listing_brochure/internal/domain"
)

// ---- fakes ----

// memStore keeps records as JSON so callers never share memory with it.
type memStore struct {
	mu        sync.Mutex
	props     map[string][]byte
	templates map[string][]byte
	settings  []byte
	contacts  []domain.ContactSubmission

	propertyReads  int
	templateWrites int
}

func newMemStore() *memStore {
	return &memStore{props: map[string][]byte{}, templates: map[string][]byte{}}
}

func (m *memStore) GetProperty(ctx context.Context, id string) (domain.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.propertyReads++
	b, ok := m.props[id]
	if !ok {
		return domain.Property{}, domain.ErrNotFound
	}
	var p domain.Property
	err := json.Unmarshal(b, &p)
	return p, err
}
func (m *memStore) UpsertProperty(ctx context.Context, p domain.Property) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, err := json.Marshal(p)
	m.props[p.ID] = b
	return err
}
func (m *memStore) DeleteProperty(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.props, id)
	return nil
}
func (m *memStore) ListPropertyIDs(ctx context.Context, limit int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for id := range m.props {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
func (m *memStore) ListTemplates(ctx context.Context) ([]domain.Template, error) {
	var out []domain.Template
	for _, b := range m.templates {
		var t domain.Template
		if err := json.Unmarshal(b, &t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
func (m *memStore) GetTemplate(ctx context.Context, id string) (domain.Template, error) {
	b, ok := m.templates[id]
	if !ok {
		return domain.Template{}, domain.ErrNotFound
	}
	var t domain.Template
	err := json.Unmarshal(b, &t)
	return t, err
}
func (m *memStore) UpsertTemplate(ctx context.Context, t domain.Template) error {
	m.templateWrites++
	b, err := json.Marshal(t)
	m.templates[t.ID] = b
	return err
}
func (m *memStore) DeleteTemplate(ctx context.Context, id string) error {
	delete(m.templates, id)
	return nil
}
func (m *memStore) GetSettings(ctx context.Context) (domain.AgencySettings, error) {
	if m.settings == nil {
		return domain.AgencySettings{}, domain.ErrNotFound
	}
	var s domain.AgencySettings
	err := json.Unmarshal(m.settings, &s)
	return s, err
}
func (m *memStore) UpsertSettings(ctx context.Context, s domain.AgencySettings) error {
	b, err := json.Marshal(s)
	m.settings = b
	return err
}
func (m *memStore) InsertContact(ctx context.Context, c domain.ContactSubmission) error {
	m.contacts = append(m.contacts, c)
	return nil
}
func (m *memStore) ListContacts(ctx context.Context, limit int) ([]domain.ContactSubmission, error) {
	return m.contacts, nil
}

// jsonCache round-trips values through JSON like the redis cache does.
type jsonCache struct {
	mu    sync.Mutex
	store map[string][]byte
}

func (c *jsonCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}
func (c *jsonCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	c.store[key] = b
	return err
}
func (c *jsonCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}

type fakeFiles struct {
	mu      sync.Mutex
	fail    string // path substring that fails
	uploads map[string]string
}

func (f *fakeFiles) UploadFile(ctx context.Context, data []byte, path, contentType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != "" && strings.Contains(string(data), f.fail) {
		return "", errors.New("storage unavailable")
	}
	if f.uploads == nil {
		f.uploads = map[string]string{}
	}
	f.uploads[path] = contentType
	return "https://files.test/" + path, nil
}

type fakeLocator struct {
	mu    sync.Mutex
	data  domain.LocationData
	err   error
	calls int
}

func (l *fakeLocator) Locate(ctx context.Context, address string) (domain.LocationData, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	return l.data, l.err
}

type fakeWriter struct {
	text string
	err  error
}

func (w *fakeWriter) DescribeLocation(ctx context.Context, address string, places []domain.NearbyPlace) (string, error) {
	return w.text, w.err
}
func (w *fakeWriter) DescribeProperty(ctx context.Context, p domain.Property) (string, error) {
	return w.text, w.err
}

type offlineFetcher struct{}

func (offlineFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	return nil, fmt.Errorf("offline: %s", url)
}

type stubBackend struct{ pages int }

func (b *stubBackend) Name() string { return "draw" }
func (b *stubBackend) Render(ctx context.Context, w io.Writer, plan brochure.Plan, images brochure.ImageSet) error {
	b.pages = plan.Total()
	_, err := io.WriteString(w, "%PDF-stub")
	return err
}

func ptr[T any](v T) *T { return &v }
