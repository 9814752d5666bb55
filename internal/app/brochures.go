package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"listing_brochure/internal/brochure"
	"listing_brochure/internal/brochure/pdftree"
	"listing_brochure/internal/domain"
)

// SharePlatforms are the share targets offered on every viewer page.
var SharePlatforms = []string{"facebook", "twitter", "linkedin", "whatsapp", "email", "copy"}

type BrochureService struct {
	props         *PropertyService
	settings      *SettingsService
	templates     *TemplateService
	renderer      *brochure.Service
	files         domain.FileStore
	cache         domain.Cache
	viewerTTL     time.Duration
	publicBaseURL string
}

func NewBrochureService(props *PropertyService, settings *SettingsService, templates *TemplateService,
	renderer *brochure.Service, files domain.FileStore, cache domain.Cache, viewerTTL time.Duration, publicBaseURL string) *BrochureService {
	return &BrochureService{
		props:         props,
		settings:      settings,
		templates:     templates,
		renderer:      renderer,
		files:         files,
		cache:         cache,
		viewerTTL:     viewerTTL,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// ViewerURL is the public web view of a property, optionally at a page.
func (s *BrochureService) ViewerURL(propertyID string, page int) string {
	u := s.publicBaseURL + "/v/" + url.PathEscape(propertyID)
	if page > 0 {
		u += "?page=" + strconv.Itoa(page+1)
	}
	return u
}

// Sections resolves the web-view sections from the current records.
func (s *BrochureService) Sections(ctx context.Context, propertyID string, opt brochure.Options) ([]brochure.ResolvedSection, domain.Property, error) {
	p, err := s.props.GetProperty(ctx, propertyID)
	if err != nil {
		return nil, domain.Property{}, err
	}
	set, err := s.settings.GetSettings(ctx)
	if err != nil {
		return nil, domain.Property{}, err
	}
	return brochure.Resolve(p, set, opt), p, nil
}

type viewerSession struct {
	PropertyID    string `json:"propertyId"`
	Current       int    `json:"current"`
	WaitForPlaces bool   `json:"waitForPlaces"`
}

// ViewerPage is what the viewer shows: only the section under the cursor.
type ViewerPage struct {
	SessionID   string                   `json:"sessionId"`
	PropertyID  string                   `json:"propertyId"`
	Page        int                      `json:"page"`
	Count       int                      `json:"count"`
	HasNext     bool                     `json:"hasNext"`
	HasPrevious bool                     `json:"hasPrevious"`
	Section     brochure.ResolvedSection `json:"section"`
	Share       map[string]string        `json:"share"`
}

func viewerKey(sid string) string { return "viewer:" + sid }

// StartViewer opens a viewer session on the first page.
func (s *BrochureService) StartViewer(ctx context.Context, propertyID string, waitForPlaces bool) (ViewerPage, error) {
	sess := viewerSession{PropertyID: propertyID, WaitForPlaces: waitForPlaces}
	return s.step(ctx, uuid.NewString(), sess, nil)
}

// ViewerStep loads a session, applies move (nil just re-reads it) and
// stores the new cursor.
func (s *BrochureService) ViewerStep(ctx context.Context, sid string, move func(*brochure.Paginator)) (ViewerPage, error) {
	var sess viewerSession
	ok, err := s.cache.Get(ctx, viewerKey(sid), &sess)
	if err != nil {
		return ViewerPage{}, err
	}
	if !ok {
		return ViewerPage{}, domain.ErrSessionExpired
	}
	return s.step(ctx, sid, sess, move)
}

func (s *BrochureService) step(ctx context.Context, sid string, sess viewerSession, move func(*brochure.Paginator)) (ViewerPage, error) {
	secs, p, err := s.Sections(ctx, sess.PropertyID, brochure.Options{WaitForPlaces: sess.WaitForPlaces})
	if err != nil {
		return ViewerPage{}, err
	}
	pg := brochure.NewPaginator(len(secs))
	pg.JumpTo(sess.Current)
	if move != nil {
		move(pg)
	}
	sess.Current = pg.Current()
	if err := s.cache.Set(ctx, viewerKey(sid), sess, int(s.viewerTTL.Seconds())); err != nil {
		return ViewerPage{}, fmt.Errorf("store viewer session: %w", err)
	}

	sec, _ := pg.Section(secs)
	out := ViewerPage{
		SessionID:   sid,
		PropertyID:  sess.PropertyID,
		Page:        pg.Current(),
		Count:       pg.Count(),
		HasNext:     pg.HasNext(),
		HasPrevious: pg.HasPrevious(),
		Section:     sec,
		Share:       map[string]string{},
	}
	pageURL := s.ViewerURL(sess.PropertyID, pg.Current())
	for _, platform := range SharePlatforms {
		if link, err := brochure.ShareURL(platform, pageURL, p.Title); err == nil {
			out.Share[platform] = link
		}
	}
	return out, nil
}

func (s *BrochureService) request(ctx context.Context, propertyID, templateID string) (brochure.Request, error) {
	p, err := s.props.GetProperty(ctx, propertyID)
	if err != nil {
		return brochure.Request{}, err
	}
	set, err := s.settings.GetSettings(ctx)
	if err != nil {
		return brochure.Request{}, err
	}
	req := brochure.Request{Property: p, Settings: set}
	if s.publicBaseURL != "" {
		req.ViewerURL = s.ViewerURL(propertyID, 0)
	}
	if templateID != "" {
		t, err := s.templates.GetTemplate(ctx, templateID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				ve := &domain.ValidationError{}
				ve.Add("template", "unknown template "+templateID)
				return brochure.Request{}, ve
			}
			return brochure.Request{}, err
		}
		req.Template = &t
	}
	return req, nil
}

// Render writes the brochure PDF. On failure nothing is written to w.
func (s *BrochureService) Render(ctx context.Context, w io.Writer, propertyID, templateID, backend string) error {
	req, err := s.request(ctx, propertyID, templateID)
	if err != nil {
		return err
	}
	return s.renderer.Render(ctx, w, req, backend)
}

// Layout returns the document tree of the brochure without rendering it.
func (s *BrochureService) Layout(ctx context.Context, propertyID, templateID string) (pdftree.Document, error) {
	req, err := s.request(ctx, propertyID, templateID)
	if err != nil {
		return pdftree.Document{}, err
	}
	return pdftree.Build(s.renderer.Plan(req)), nil
}

// Publish renders the brochure and uploads it, returning its public url.
func (s *BrochureService) Publish(ctx context.Context, propertyID, templateID, backend string) (string, error) {
	var buf bytes.Buffer
	if err := s.Render(ctx, &buf, propertyID, templateID, backend); err != nil {
		return "", err
	}
	name := templateID
	if name == "" {
		name = "default"
	}
	key := fmt.Sprintf("brochures/%s/%s.pdf", propertyID, name)
	return s.files.UploadFile(ctx, buf.Bytes(), key, "application/pdf")
}
