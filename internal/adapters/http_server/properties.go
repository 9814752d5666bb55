package httpserver

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"listing_brochure/internal/app"
	"listing_brochure/internal/domain"
	"listing_brochure/internal/mapping"
)

const (
	maxUploadMemory = 32 << 20
	maxUploadFiles  = 20
)

// maxUploadBody bounds a whole multipart upload request.
var maxUploadBody int64 = 200 << 20

func (h *Handlers) getProperty(w http.ResponseWriter, r *http.Request) {
	p, err := h.Properties.GetProperty(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, p)
}

// putProperty accepts the loosely typed record shape and stores its
// validated form. A body id, when present, must match the path.
func (h *Handlers) putProperty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var raw map[string]any
	if !decodeJSON(w, r, &raw) {
		return
	}
	if raw == nil {
		raw = map[string]any{}
	}
	if bodyID, ok := raw["id"].(string); ok && bodyID != "" && bodyID != id {
		ve := &domain.ValidationError{}
		ve.Add("id", "does not match the path")
		writeError(w, r, ve)
		return
	}
	raw["id"] = id

	p, err := mapping.Property(raw)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Properties.SaveProperty(r.Context(), p); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, p)
}

func (h *Handlers) deleteProperty(w http.ResponseWriter, r *http.Request) {
	if err := h.Properties.DeleteProperty(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// uploadImages reads every "files" part of a multipart form. kind=floorplan
// also lists the uploads as floorplans.
func (h *Handlers) uploadImages(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeProblem(w, http.StatusRequestEntityTooLarge, "Upload Too Large",
				"at most "+strconv.FormatInt(tooLarge.Limit, 10)+" bytes per request")
			return
		}
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "expected multipart/form-data")
		return
	}
	defer r.MultipartForm.RemoveAll()

	parts := r.MultipartForm.File["files"]
	if len(parts) > maxUploadFiles {
		writeProblem(w, http.StatusBadRequest, "Too Many Files", "at most "+strconv.Itoa(maxUploadFiles)+" files per request")
		return
	}
	uploads := make([]app.Upload, 0, len(parts))
	for _, fh := range parts {
		f, err := fh.Open()
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid File", fh.Filename)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid File", fh.Filename)
			return
		}
		uploads = append(uploads, app.Upload{Name: fh.Filename, ContentType: fh.Header.Get("Content-Type"), Data: data})
	}

	kind := r.FormValue("kind")
	p, err := h.Properties.UploadImages(r.Context(), chi.URLParam(r, "id"), kind, uploads)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, p)
}

func (h *Handlers) locate(w http.ResponseWriter, r *http.Request) {
	p, err := h.Properties.Locate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, p)
}

// describe drafts copy. When the generator is unavailable the unchanged
// record comes back with a Warning header.
func (h *Handlers) describe(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")
	if kind == "" {
		kind = app.DescribeProperty
	}
	p, warning, err := h.Properties.Describe(r.Context(), chi.URLParam(r, "id"), kind)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if warning != "" {
		w.Header().Set("Warning", `199 - "`+warning+`"`)
	}
	writeJSON(w, r, http.StatusOK, p)
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

func (h *Handlers) submitContact(w http.ResponseWriter, r *http.Request) {
	var in contactRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	c, err := h.Contacts.Submit(r.Context(), chi.URLParam(r, "id"), domain.ContactSubmission{
		Name: in.Name, Email: in.Email, Phone: in.Phone, Message: in.Message,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, c)
}

func (h *Handlers) listContacts(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 500 {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 500")
			return
		}
		limit = l
	}
	out, err := h.Contacts.List(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}
