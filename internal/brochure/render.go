package brochure

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"listing_brochure/internal/adapters/observability"
	"listing_brochure/internal/domain"
)

// Backend turns a plan into a PDF document.
type Backend interface {
	Name() string
	Render(ctx context.Context, w io.Writer, plan Plan, images ImageSet) error
}

// Request is everything one brochure is built from.
type Request struct {
	Property  domain.Property
	Settings  domain.AgencySettings
	Template  *domain.Template
	ViewerURL string
}

// Service renders brochures through pluggable backends. Sanitization and
// layout run once in BuildPlan, whatever the backend.
type Service struct {
	loader   *ImageLoader
	backends map[string]Backend
	def      string
}

// NewService registers backends; the first one is the default.
func NewService(loader *ImageLoader, backends ...Backend) *Service {
	s := &Service{loader: loader, backends: make(map[string]Backend, len(backends))}
	for i, b := range backends {
		if i == 0 {
			s.def = b.Name()
		}
		s.backends[b.Name()] = b
	}
	return s
}

func (s *Service) Backends() []string {
	out := make([]string, 0, len(s.backends))
	for name := range s.backends {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (s *Service) backend(name string) (Backend, error) {
	if name == "" {
		name = s.def
	}
	b, ok := s.backends[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownBackend, name)
	}
	return b, nil
}

func (s *Service) Plan(req Request) Plan {
	return BuildPlan(req.Property, req.Settings, req.Template, PlanOptions{ViewerURL: req.ViewerURL})
}

// Render writes the finished document to w. Nothing is written when any step
// fails, so callers never see a partial document.
func (s *Service) Render(ctx context.Context, w io.Writer, req Request, backend string) (err error) {
	b, err := s.backend(backend)
	if err != nil {
		return err
	}
	start := time.Now()
	defer func() { observability.ObserveRender(b.Name(), err, time.Since(start)) }()

	plan := s.Plan(req)
	images, err := s.loader.LoadAll(ctx, plan.ImageSources())
	if err != nil {
		return fmt.Errorf("load images: %w", err)
	}
	var buf bytes.Buffer
	if err := b.Render(ctx, &buf, plan, images); err != nil {
		return fmt.Errorf("render %s: %w", b.Name(), err)
	}
	_, err = buf.WriteTo(w)
	return err
}
