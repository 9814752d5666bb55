package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"listing_brochure/internal/app"
	"listing_brochure/internal/domain"
	"listing_brochure/internal/templatebuilder"
)

// maxBody bounds JSON request bodies.
const maxBody = 4 << 20

type Handlers struct {
	Properties *app.PropertyService
	Templates  *app.TemplateService
	Settings   *app.SettingsService
	Contacts   *app.ContactService
	Brochures  *app.BrochureService
}

type problem struct {
	Type   string              `json:"type"`
	Title  string              `json:"title"`
	Status int                 `json:"status"`
	Detail string              `json:"detail,omitempty"`
	Errors []domain.FieldError `json:"errors,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/v1", func(r chi.Router) {
		r.Route("/properties/{id}", func(r chi.Router) {
			r.Get("/", h.getProperty)
			r.Put("/", h.putProperty)
			r.Delete("/", h.deleteProperty)
			r.Post("/images", h.uploadImages)
			r.Post("/locate", h.locate)
			r.Post("/describe", h.describe)
			r.Post("/contact", h.submitContact)
			r.Get("/sections", h.sections)
			r.Post("/viewer", h.startViewer)
			r.Get("/brochure.pdf", h.brochurePDF)
			r.Get("/brochure/layout", h.brochureLayout)
			r.Post("/brochure/publish", h.publishBrochure)
		})

		r.Get("/viewer/{sid}", h.viewer)
		r.Post("/viewer/{sid}/next", h.viewerNext)
		r.Post("/viewer/{sid}/previous", h.viewerPrevious)
		r.Post("/viewer/{sid}/page/{page}", h.viewerJump)

		r.Get("/settings", h.getSettings)
		r.Put("/settings", h.putSettings)
		r.Get("/contacts", h.listContacts)

		r.Get("/templates", h.listTemplates)
		r.Post("/templates", h.saveTemplate)
		r.Get("/templates/{tid}", h.getTemplate)
		r.Put("/templates/{tid}", h.saveTemplate)
		r.Delete("/templates/{tid}", h.deleteTemplate)
		r.Post("/template-builder/apply", h.applyTemplateOps)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	writeProblemBody(w, problem{Type: "about:blank", Title: title, Status: status, Detail: detail})
}

func writeProblemBody(w http.ResponseWriter, p problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// validationFields returns the field errors carried anywhere in err's chain.
func validationFields(err error) ([]domain.FieldError, bool) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Fields, true
	}
	return nil, false
}

// writeError maps service errors onto problem responses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	fields, invalid := validationFields(err)
	switch {
	case invalid:
		writeProblemBody(w, problem{
			Type: "about:blank", Title: "Validation Failed", Status: http.StatusUnprocessableEntity,
			Detail: "one or more fields are invalid", Errors: fields,
		})
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrSessionExpired):
		writeProblem(w, http.StatusGone, "Gone", err.Error())
	case errors.Is(err, domain.ErrInvalidPage), errors.Is(err, domain.ErrUnknownBackend):
		writeProblem(w, http.StatusBadRequest, "Bad Request", err.Error())
	case errors.Is(err, templatebuilder.ErrInvalidOperation):
		writeProblem(w, http.StatusUnprocessableEntity, "Invalid Operation", err.Error())
	case errors.Is(err, domain.ErrUnavailable):
		writeProblem(w, http.StatusServiceUnavailable, "Service Unavailable", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		writeProblem(w, http.StatusGatewayTimeout, "Timeout", "upstream call timed out")
	case errors.Is(err, context.Canceled):
		log.Debug().Err(err).Str("path", r.URL.Path).Msg("request canceled by client")
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "unexpected error")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeJSON answers with v, honoring If-None-Match for GET requests.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "encode response")
		return
	}
	if r.Method == http.MethodGet && etag != "" {
		if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
			w.Header().Set("ETag", etag)
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", etag)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return false
	}
	return true
}

// queryBool accepts 1/true/yes style flags; anything else is false.
func queryBool(r *http.Request, key string) bool {
	b, _ := strconv.ParseBool(r.URL.Query().Get(key))
	return b
}

func (h *Handlers) getSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.Settings.GetSettings(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, s)
}

func (h *Handlers) putSettings(w http.ResponseWriter, r *http.Request) {
	var in domain.AgencySettings
	if !decodeJSON(w, r, &in) {
		return
	}
	out, err := h.Settings.SaveSettings(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}
