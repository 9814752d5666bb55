package app

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"listing_brochure/internal/domain"
	"listing_brochure/internal/mapping"
	"listing_brochure/internal/templatebuilder"
)

const templateListKey = "templates:all"

type TemplateService struct {
	repo     domain.TemplateRepository
	cache    domain.Cache
	cacheTTL time.Duration
	now      func() time.Time
}

func NewTemplateService(r domain.TemplateRepository, c domain.Cache, ttl time.Duration) *TemplateService {
	return &TemplateService{repo: r, cache: c, cacheTTL: ttl, now: time.Now}
}

func (s *TemplateService) ListTemplates(ctx context.Context) ([]domain.Template, error) {
	var out []domain.Template
	if ok, _ := s.cache.Get(ctx, templateListKey, &out); ok {
		return out, nil
	}
	out, err := s.repo.ListTemplates(ctx)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, templateListKey, out, int(s.cacheTTL.Seconds()))
	return out, nil
}

func (s *TemplateService) GetTemplate(ctx context.Context, id string) (domain.Template, error) {
	return s.repo.GetTemplate(ctx, id)
}

// SaveTemplate validates locally first; an invalid template never reaches the
// store. Templates with an id are updated in place and keep the stored
// created_at when the body omits it; others get a new id. The cached list is
// dropped so the next list call refetches.
func (s *TemplateService) SaveTemplate(ctx context.Context, t domain.Template) (domain.Template, error) {
	if err := templatebuilder.Validate(t); err != nil {
		return domain.Template{}, err
	}
	t = mapping.NormalizeTemplate(t)
	now := s.now().UTC()
	switch {
	case t.ID == "":
		t.ID = uuid.NewString()
		t.CreatedAt = &now
	case t.CreatedAt == nil:
		prev, err := s.repo.GetTemplate(ctx, t.ID)
		switch {
		case err == nil && prev.CreatedAt != nil:
			t.CreatedAt = prev.CreatedAt
		case err == nil || errors.Is(err, domain.ErrNotFound):
			t.CreatedAt = &now
		default:
			return domain.Template{}, err
		}
	}
	t.UpdatedAt = &now
	if err := s.repo.UpsertTemplate(ctx, t); err != nil {
		return domain.Template{}, err
	}
	_ = s.cache.Del(ctx, templateListKey)
	return t, nil
}

func (s *TemplateService) DeleteTemplate(ctx context.Context, id string) error {
	if err := s.repo.DeleteTemplate(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Del(ctx, templateListKey)
	return nil
}
