package app

import (
	"context"
	"errors"
	"time"

	"listing_brochure/internal/domain"
	"listing_brochure/internal/mapping"
)

const settingsKey = "settings"

type SettingsService struct {
	repo     domain.SettingsRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewSettingsService(r domain.SettingsRepository, c domain.Cache, ttl time.Duration) *SettingsService {
	return &SettingsService{repo: r, cache: c, cacheTTL: ttl}
}

// GetSettings returns the agency settings, or brand defaults when none were
// saved yet.
func (s *SettingsService) GetSettings(ctx context.Context) (domain.AgencySettings, error) {
	var out domain.AgencySettings
	if ok, _ := s.cache.Get(ctx, settingsKey, &out); ok {
		return out, nil
	}
	out, err := s.repo.GetSettings(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return mapping.NormalizeSettings(domain.AgencySettings{}), nil
	}
	if err != nil {
		return domain.AgencySettings{}, err
	}
	out = mapping.NormalizeSettings(out)
	_ = s.cache.Set(ctx, settingsKey, out, int(s.cacheTTL.Seconds()))
	return out, nil
}

func (s *SettingsService) SaveSettings(ctx context.Context, in domain.AgencySettings) (domain.AgencySettings, error) {
	out := mapping.NormalizeSettings(in)
	if err := s.repo.UpsertSettings(ctx, out); err != nil {
		return domain.AgencySettings{}, err
	}
	_ = s.cache.Del(ctx, settingsKey)
	return out, nil
}
