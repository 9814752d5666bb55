package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	server "listing_brochure/internal/adapters/http_server"
	redisad "listing_brochure/internal/adapters/redis"
	"listing_brochure/internal/app"
	"listing_brochure/internal/brochure"
	"listing_brochure/internal/domain"
)

// ---- fakes ----

type memStore struct {
	mu        sync.Mutex
	props     map[string]domain.Property
	templates map[string]domain.Template
	settings  *domain.AgencySettings
	contacts  []domain.ContactSubmission
}

func newMemStore() *memStore {
	return &memStore{props: map[string]domain.Property{}, templates: map[string]domain.Template{}}
}

func (m *memStore) GetProperty(ctx context.Context, id string) (domain.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.props[id]
	if !ok {
		return domain.Property{}, domain.ErrNotFound
	}
	return p.Clone(), nil
}
func (m *memStore) UpsertProperty(ctx context.Context, p domain.Property) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.props[p.ID] = p.Clone()
	return nil
}
func (m *memStore) DeleteProperty(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.props, id)
	return nil
}
func (m *memStore) ListPropertyIDs(ctx context.Context, limit int) ([]string, error) {
	return nil, nil
}
func (m *memStore) ListTemplates(ctx context.Context) ([]domain.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Template{}
	for _, t := range m.templates {
		out = append(out, t)
	}
	return out, nil
}
func (m *memStore) GetTemplate(ctx context.Context, id string) (domain.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.templates[id]
	if !ok {
		return domain.Template{}, domain.ErrNotFound
	}
	return t, nil
}
func (m *memStore) UpsertTemplate(ctx context.Context, t domain.Template) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.templates[t.ID] = t
	return nil
}
func (m *memStore) DeleteTemplate(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.templates, id)
	return nil
}
func (m *memStore) GetSettings(ctx context.Context) (domain.AgencySettings, error) {
	if m.settings == nil {
		return domain.AgencySettings{}, domain.ErrNotFound
	}
	return *m.settings, nil
}
func (m *memStore) UpsertSettings(ctx context.Context, s domain.AgencySettings) error {
	m.settings = &s
	return nil
}
func (m *memStore) InsertContact(ctx context.Context, c domain.ContactSubmission) error {
	m.contacts = append(m.contacts, c)
	return nil
}
func (m *memStore) ListContacts(ctx context.Context, limit int) ([]domain.ContactSubmission, error) {
	return m.contacts, nil
}

type noImages struct{}

func (noImages) Fetch(ctx context.Context, url string) ([]byte, error) {
	return nil, io.ErrUnexpectedEOF
}

type stubBackend struct{}

func (stubBackend) Name() string { return "draw" }
func (stubBackend) Render(ctx context.Context, w io.Writer, plan brochure.Plan, images brochure.ImageSet) error {
	_, err := io.WriteString(w, "%PDF-stub "+plan.Title)
	return err
}

// ---- harness ----

func newServer(t *testing.T) (*httptest.Server, *memStore) {
	t.Helper()
	store := newMemStore()
	store.props["p1"] = domain.Property{ID: "p1", Title: "Canal house", Address: "Herengracht 1"}

	mr := miniredis.RunT(t)
	cache := redisad.NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test:")

	off := app.Unavailable{Service: "offline"}
	props := app.NewPropertyService(store, cache, time.Minute, off, off, off)
	tpls := app.NewTemplateService(store, cache, time.Minute)
	sets := app.NewSettingsService(store, cache, time.Minute)
	renderer := brochure.NewService(brochure.NewImageLoader(noImages{}), stubBackend{})

	srv := server.New([]string{"https://agency.test"})
	srv.MountHandlers(&server.Handlers{
		Properties: props,
		Templates:  tpls,
		Settings:   sets,
		Contacts:   app.NewContactService(store, store),
		Brochures:  app.NewBrochureService(props, sets, tpls, renderer, off, cache, time.Hour, "https://homes.test"),
	})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts, store
}

func call(t *testing.T, method, url string, body any, hdr map[string]string) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer res.Body.Close()
	b, _ := io.ReadAll(res.Body)
	return res, b
}

type problemBody struct {
	Title  string `json:"title"`
	Status int    `json:"status"`
	Errors []struct {
		Field string `json:"field"`
	} `json:"errors"`
}

func decodeProblem(t *testing.T, res *http.Response, b []byte) problemBody {
	t.Helper()
	if ct := res.Header.Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("expected problem+json, got %q (%s)", ct, b)
	}
	var p problemBody
	if err := json.Unmarshal(b, &p); err != nil {
		t.Fatalf("decode problem: %v", err)
	}
	return p
}

// ---- tests ----

func TestGetProperty_ETagAndNotFound(t *testing.T) {
	ts, _ := newServer(t)

	res, _ := call(t, http.MethodGet, ts.URL+"/v1/properties/p1", nil, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}
	etag := res.Header.Get("ETag")
	if etag == "" {
		t.Fatalf("missing ETag")
	}
	res, _ = call(t, http.MethodGet, ts.URL+"/v1/properties/p1", nil, map[string]string{"If-None-Match": etag})
	if res.StatusCode != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", res.StatusCode)
	}

	res, b := call(t, http.MethodGet, ts.URL+"/v1/properties/nope", nil, nil)
	if res.StatusCode != http.StatusNotFound || decodeProblem(t, res, b).Status != http.StatusNotFound {
		t.Fatalf("expected 404 problem, got %d %s", res.StatusCode, b)
	}
}

func TestPutProperty_DecodesLooseRecord(t *testing.T) {
	ts, store := newServer(t)

	res, b := call(t, http.MethodPut, ts.URL+"/v1/properties/p2", map[string]any{"title": "Loft", "bedrooms": 2}, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d %s", res.StatusCode, b)
	}
	if got := store.props["p2"]; got.Bedrooms != "2" || got.Title != "Loft" {
		t.Fatalf("unexpected stored record: %+v", got)
	}

	res, b = call(t, http.MethodPut, ts.URL+"/v1/properties/p2", map[string]any{"id": "other"}, nil)
	if res.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", res.StatusCode)
	}
	if p := decodeProblem(t, res, b); len(p.Errors) != 1 || p.Errors[0].Field != "id" {
		t.Fatalf("unexpected problem: %+v", p)
	}

	res, _ = call(t, http.MethodPut, ts.URL+"/v1/properties/p2", nil, nil)
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty body, got %d", res.StatusCode)
	}
}

func TestDescribe_WarnsWhenGeneratorUnavailable(t *testing.T) {
	ts, _ := newServer(t)

	res, b := call(t, http.MethodPost, ts.URL+"/v1/properties/p1/describe?kind=location", nil, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d %s", res.StatusCode, b)
	}
	if !strings.HasPrefix(res.Header.Get("Warning"), "199 - ") {
		t.Fatalf("missing warning header: %v", res.Header)
	}

	res, _ = call(t, http.MethodPost, ts.URL+"/v1/properties/p1/describe?kind=poem", nil, nil)
	if res.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unknown kind, got %d", res.StatusCode)
	}
}

func TestLocate_UnavailableIs503(t *testing.T) {
	ts, _ := newServer(t)
	res, b := call(t, http.MethodPost, ts.URL+"/v1/properties/p1/locate", nil, nil)
	if res.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d %s", res.StatusCode, b)
	}
}

func TestViewer_NavigationAndJump(t *testing.T) {
	ts, _ := newServer(t)

	type page struct {
		SessionID string `json:"sessionId"`
		Page      int    `json:"page"`
		Count     int    `json:"count"`
		HasNext   bool   `json:"hasNext"`
		Section   struct {
			ID string `json:"id"`
		} `json:"section"`
	}
	var p page
	res, b := call(t, http.MethodPost, ts.URL+"/v1/properties/p1/viewer", nil, nil)
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("status %d %s", res.StatusCode, b)
	}
	_ = json.Unmarshal(b, &p)
	// overview, details, neighborhood, contact
	if p.Count != 4 || p.Page != 0 || p.Section.ID != "overview" {
		t.Fatalf("unexpected first page: %+v", p)
	}

	_, b = call(t, http.MethodPost, ts.URL+"/v1/viewer/"+p.SessionID+"/next", nil, nil)
	_ = json.Unmarshal(b, &p)
	if p.Page != 1 || p.Section.ID != "details" {
		t.Fatalf("unexpected page after next: %+v", p)
	}

	_, b = call(t, http.MethodPost, ts.URL+"/v1/viewer/"+p.SessionID+"/page/99", nil, nil)
	_ = json.Unmarshal(b, &p)
	if p.Page != 3 || p.HasNext {
		t.Fatalf("jump should clamp to the last page: %+v", p)
	}

	res, _ = call(t, http.MethodPost, ts.URL+"/v1/viewer/"+p.SessionID+"/page/x", nil, nil)
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad page, got %d", res.StatusCode)
	}
	res, _ = call(t, http.MethodGet, ts.URL+"/v1/viewer/unknown", nil, nil)
	if res.StatusCode != http.StatusGone {
		t.Fatalf("expected 410, got %d", res.StatusCode)
	}
}

func TestBrochurePDF(t *testing.T) {
	ts, _ := newServer(t)

	res, b := call(t, http.MethodGet, ts.URL+"/v1/properties/p1/brochure.pdf", nil, nil)
	if res.StatusCode != http.StatusOK || res.Header.Get("Content-Type") != "application/pdf" {
		t.Fatalf("status %d type %q", res.StatusCode, res.Header.Get("Content-Type"))
	}
	if string(b) != "%PDF-stub Canal house" {
		t.Fatalf("unexpected body %q", b)
	}

	res, _ = call(t, http.MethodGet, ts.URL+"/v1/properties/p1/brochure.pdf?backend=tree", nil, nil)
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unregistered backend, got %d", res.StatusCode)
	}
	res, _ = call(t, http.MethodGet, ts.URL+"/v1/properties/p1/brochure.pdf?template=missing", nil, nil)
	if res.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unknown template, got %d", res.StatusCode)
	}

	res, b = call(t, http.MethodGet, ts.URL+"/v1/properties/p1/brochure/layout", nil, nil)
	if res.StatusCode != http.StatusOK || !strings.Contains(string(b), `"pages"`) {
		t.Fatalf("layout: %d %s", res.StatusCode, b)
	}
}

func TestTemplateBuilderApply(t *testing.T) {
	ts, store := newServer(t)

	body := map[string]any{
		"name": "Minimal",
		"ops": []map[string]any{
			{"op": "add_section", "sectionType": "details", "title": "Details"},
		},
	}
	res, b := call(t, http.MethodPost, ts.URL+"/v1/template-builder/apply", body, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d %s", res.StatusCode, b)
	}
	var out struct {
		Dirty bool `json:"dirty"`
		Saved bool `json:"saved"`
	}
	_ = json.Unmarshal(b, &out)
	if !out.Dirty || out.Saved || len(store.templates) != 0 {
		t.Fatalf("apply without save must not store: %+v", out)
	}

	body["ops"] = []map[string]any{{"op": "frobnicate"}}
	res, _ = call(t, http.MethodPost, ts.URL+"/v1/template-builder/apply", body, nil)
	if res.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for an unknown op, got %d", res.StatusCode)
	}

	body["ops"] = []map[string]any{{"op": "remove_section", "sectionId": "nope"}}
	res, _ = call(t, http.MethodPost, ts.URL+"/v1/template-builder/apply", body, nil)
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for a missing section, got %d", res.StatusCode)
	}

	// a blank name never reaches the store
	res, _ = call(t, http.MethodPost, ts.URL+"/v1/templates", map[string]any{"name": " "}, nil)
	if res.StatusCode != http.StatusUnprocessableEntity || len(store.templates) != 0 {
		t.Fatalf("expected 422 and no write, got %d", res.StatusCode)
	}
}

func TestCORSPreflight(t *testing.T) {
	ts, _ := newServer(t)
	res, _ := call(t, http.MethodOptions, ts.URL+"/v1/properties/p1", nil, map[string]string{
		"Origin":                        "https://agency.test",
		"Access-Control-Request-Method": http.MethodPut,
	})
	if got := res.Header.Get("Access-Control-Allow-Origin"); got != "https://agency.test" {
		t.Fatalf("unexpected allow origin %q", got)
	}
}

func multipartUpload(t *testing.T, size int) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("files", "front.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(bytes.Repeat([]byte{0xff}, size)); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

func TestUploadImages_BodyLimit(t *testing.T) {
	ts, _ := newServer(t)
	restore := server.SetMaxUploadBody(1 << 10)
	defer restore()

	body, ct := multipartUpload(t, 4<<10)
	res, err := http.Post(ts.URL+"/v1/properties/p1/images", ct, body)
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", res.StatusCode)
	}

	// under the limit the request reaches the (unconfigured) file store
	body, ct = multipartUpload(t, 512)
	res, err = http.Post(ts.URL+"/v1/properties/p1/images", ct, body)
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", res.StatusCode)
	}
}
