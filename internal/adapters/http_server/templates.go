package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"listing_brochure/internal/domain"
	"listing_brochure/internal/templatebuilder"
)

func (h *Handlers) listTemplates(w http.ResponseWriter, r *http.Request) {
	out, err := h.Templates.ListTemplates(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *Handlers) getTemplate(w http.ResponseWriter, r *http.Request) {
	t, err := h.Templates.GetTemplate(r.Context(), chi.URLParam(r, "tid"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, t)
}

// saveTemplate inserts on POST and updates the path id on PUT.
func (h *Handlers) saveTemplate(w http.ResponseWriter, r *http.Request) {
	var t domain.Template
	if !decodeJSON(w, r, &t) {
		return
	}
	status := http.StatusCreated
	if tid := chi.URLParam(r, "tid"); tid != "" {
		t.ID = tid
		status = http.StatusOK
	}
	out, err := h.Templates.SaveTemplate(r.Context(), t)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, status, out)
}

func (h *Handlers) deleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := h.Templates.DeleteTemplate(r.Context(), chi.URLParam(r, "tid")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type applyRequest struct {
	// Template is the working copy; nil starts a blank template named Name.
	Template *domain.Template     `json:"template"`
	Name     string               `json:"name"`
	Ops      []templatebuilder.Op `json:"ops"`
	Save     bool                 `json:"save"`
}

type applyResponse struct {
	Template domain.Template     `json:"template"`
	Dirty    bool                `json:"dirty"`
	Selected string              `json:"selected,omitempty"`
	Errors   []domain.FieldError `json:"errors,omitempty"`
	Saved    bool                `json:"saved"`
}

// applyTemplateOps runs editor operations against a posted working copy and
// returns the result. With save set, a valid result is stored.
func (h *Handlers) applyTemplateOps(w http.ResponseWriter, r *http.Request) {
	var in applyRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	var b *templatebuilder.Builder
	if in.Template != nil {
		b = templatebuilder.New(*in.Template)
	} else {
		b = templatebuilder.NewBlank(in.Name)
	}
	if err := b.Apply(in.Ops); err != nil {
		writeError(w, r, err)
		return
	}

	out := applyResponse{Template: b.Snapshot(), Dirty: b.Dirty(), Selected: b.Selected()}
	if err := b.Validate(); err != nil {
		out.Errors, _ = validationFields(err)
	} else if in.Save {
		saved, err := h.Templates.SaveTemplate(r.Context(), out.Template)
		if err != nil {
			writeError(w, r, err)
			return
		}
		out.Template, out.Dirty, out.Saved = saved, false, true
	}
	writeJSON(w, r, http.StatusOK, out)
}
