package app

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"listing_brochure/internal/domain"
)

type ContactService struct {
	repo  domain.ContactRepository
	props domain.PropertyRepository
	now   func() time.Time
}

func NewContactService(r domain.ContactRepository, props domain.PropertyRepository) *ContactService {
	return &ContactService{repo: r, props: props, now: time.Now}
}

// Submit stores a lead from the web contact page. Field problems are reported
// together and nothing is written.
func (s *ContactService) Submit(ctx context.Context, propertyID string, c domain.ContactSubmission) (domain.ContactSubmission, error) {
	ve := &domain.ValidationError{}
	if strings.TrimSpace(c.Name) == "" {
		ve.Add("name", "is required")
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		ve.Add("email", "is not a valid address")
	}
	if strings.TrimSpace(c.Message) == "" {
		ve.Add("message", "is required")
	}
	if err := ve.OrNil(); err != nil {
		return domain.ContactSubmission{}, err
	}
	if _, err := s.props.GetProperty(ctx, propertyID); err != nil {
		return domain.ContactSubmission{}, err
	}

	c.ID = uuid.NewString()
	c.PropertyID = propertyID
	c.CreatedAt = s.now().UTC()
	if err := s.repo.InsertContact(ctx, c); err != nil {
		return domain.ContactSubmission{}, err
	}
	return c, nil
}

func (s *ContactService) List(ctx context.Context, limit int) ([]domain.ContactSubmission, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.repo.ListContacts(ctx, limit)
}
