package domain

import "time"

// ContactSubmission is a lead captured from the web viewer's contact page.
type ContactSubmission struct {
	ID         string    `json:"id"`
	PropertyID string    `json:"property_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}
