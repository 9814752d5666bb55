package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"listing_brochure/internal/domain"
	"listing_brochure/internal/mapping"
)

const settingsID = "default"

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

// Repo implements domain.Store. Records live in a JSON column; the scalar
// columns next to it exist for lookups and are derived on every write.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Ping(ctx context.Context) error { return r.db.PingContext(ctx) }

// getJSON reads one JSON column, mapping a missing row to domain.ErrNotFound.
func (r *Repo) getJSON(ctx context.Context, q, id string) ([]byte, error) {
	var b []byte
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *Repo) UpsertProperty(ctx context.Context, p domain.Property) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode property %s: %w", p.ID, err)
	}
	_, err = r.db.ExecContext(ctx, upsertPropertySQL,
		p.ID,
		valStr(p.Title),
		valStr(p.Address),
		valF64(p.Latitude),
		valF64(p.Longitude),
		string(data),
	)
	return err
}

func (r *Repo) GetProperty(ctx context.Context, id string) (domain.Property, error) {
	b, err := r.getJSON(ctx, getPropertySQL, id)
	if err != nil {
		return domain.Property{}, err
	}
	return mapping.PropertyJSON(b)
}

func (r *Repo) DeleteProperty(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, deletePropertySQL, id)
	return err
}

func (r *Repo) ListPropertyIDs(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = math.MaxInt32
	}
	rows, err := r.db.QueryContext(ctx, listPropertyIDsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *Repo) UpsertTemplate(ctx context.Context, t domain.Template) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode template %s: %w", t.ID, err)
	}
	_, err = r.db.ExecContext(ctx, upsertTemplateSQL, t.ID, t.Name, string(data))
	return err
}

func (r *Repo) GetTemplate(ctx context.Context, id string) (domain.Template, error) {
	b, err := r.getJSON(ctx, getTemplateSQL, id)
	if err != nil {
		return domain.Template{}, err
	}
	return mapping.TemplateJSON(b)
}

func (r *Repo) ListTemplates(ctx context.Context) ([]domain.Template, error) {
	rows, err := r.db.QueryContext(ctx, listTemplatesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Template{}
	for rows.Next() {
		var b []byte
		if err := rows.Scan(&b); err != nil {
			return nil, err
		}
		t, err := mapping.TemplateJSON(b)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Repo) DeleteTemplate(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, deleteTemplateSQL, id)
	return err
}

func (r *Repo) GetSettings(ctx context.Context) (domain.AgencySettings, error) {
	b, err := r.getJSON(ctx, getSettingsSQL, settingsID)
	if err != nil {
		return domain.AgencySettings{}, err
	}
	return mapping.SettingsJSON(b)
}

func (r *Repo) UpsertSettings(ctx context.Context, s domain.AgencySettings) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	_, err = r.db.ExecContext(ctx, upsertSettingsSQL, settingsID, string(data))
	return err
}

func (r *Repo) InsertContact(ctx context.Context, c domain.ContactSubmission) error {
	_, err := r.db.ExecContext(ctx, insertContactSQL,
		c.ID, c.PropertyID, c.Name, c.Email, valStr(c.Phone), c.Message, c.CreatedAt.UTC())
	return err
}

func (r *Repo) ListContacts(ctx context.Context, limit int) ([]domain.ContactSubmission, error) {
	rows, err := r.db.QueryContext(ctx, listContactsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.ContactSubmission{}
	for rows.Next() {
		var (
			c     domain.ContactSubmission
			phone sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.PropertyID, &c.Name, &c.Email, &phone, &c.Message, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.Phone = phone.String
		out = append(out, c)
	}
	return out, rows.Err()
}
