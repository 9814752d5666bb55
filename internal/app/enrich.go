package app

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"listing_brochure/internal/domain"
)

// EnrichmentService fills in location data and location copy for stored
// properties in bulk.
type EnrichmentService struct {
	props *PropertyService
	repo  domain.PropertyRepository
}

func NewEnrichmentService(props *PropertyService, repo domain.PropertyRepository) *EnrichmentService {
	return &EnrichmentService{props: props, repo: repo}
}

// EnrichOne locates a property and drafts its location description when it
// has none. Properties without an address are skipped.
func (s *EnrichmentService) EnrichOne(ctx context.Context, id string) error {
	p, err := s.props.GetProperty(ctx, id)
	if err != nil {
		return err
	}
	if strings.TrimSpace(p.Address) == "" {
		log.Info().Str("id", id).Msg("no address, skipping")
		return nil
	}
	if !p.HasCoords() || len(p.NearbyPlaces) == 0 {
		if p, err = s.props.Locate(ctx, id); err != nil {
			return err
		}
	}
	if strings.TrimSpace(p.LocationDescription) == "" {
		if _, warn, err := s.props.Describe(ctx, id, DescribeLocation); err != nil {
			return err
		} else if warn != "" {
			log.Warn().Str("id", id).Msg(warn)
		}
	}
	return nil
}

// Result is the outcome for one property of a bulk run.
type Result struct {
	ID  string
	Err error
}

// EnrichAll runs EnrichOne for ids with at most workers in flight. An empty
// ids list enriches every stored property. Cancellation stops launching new
// work and waits for running ones.
func (s *EnrichmentService) EnrichAll(ctx context.Context, ids []string, workers int) ([]Result, error) {
	if len(ids) == 0 {
		var err error
		if ids, err = s.repo.ListPropertyIDs(ctx, 0); err != nil {
			return nil, err
		}
	}
	if workers < 1 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	results := make([]Result, len(ids))
	var wg sync.WaitGroup
	var launchErr error

	for i, id := range ids {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			launchErr = err
			for j := i; j < len(ids); j++ {
				results[j] = Result{ID: ids[j], Err: err}
			}
			break
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)
			err := s.EnrichOne(ctx, id)
			results[i] = Result{ID: id, Err: err}
			if err != nil {
				log.Warn().Str("id", id).Err(err).Msg("enrich failed")
				return
			}
			log.Info().Str("id", id).Msg("enrich ok")
		}()
	}
	wg.Wait()
	if errors.Is(launchErr, context.Canceled) || errors.Is(launchErr, context.DeadlineExceeded) {
		return results, launchErr
	}
	return results, nil
}
