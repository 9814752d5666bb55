package httpserver

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"listing_brochure/internal/brochure"
	"listing_brochure/internal/domain"
)

type sectionsResponse struct {
	Count    int                        `json:"count"`
	Sections []brochure.ResolvedSection `json:"sections"`
}

func (h *Handlers) sections(w http.ResponseWriter, r *http.Request) {
	opt := brochure.Options{PrintView: queryBool(r, "print"), WaitForPlaces: queryBool(r, "wait")}
	secs, _, err := h.Brochures.Sections(r.Context(), chi.URLParam(r, "id"), opt)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sectionsResponse{Count: len(secs), Sections: secs})
}

func (h *Handlers) startViewer(w http.ResponseWriter, r *http.Request) {
	page, err := h.Brochures.StartViewer(r.Context(), chi.URLParam(r, "id"), queryBool(r, "wait"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, page)
}

func (h *Handlers) viewer(w http.ResponseWriter, r *http.Request) {
	h.viewerMove(w, r, nil)
}

func (h *Handlers) viewerNext(w http.ResponseWriter, r *http.Request) {
	h.viewerMove(w, r, (*brochure.Paginator).Next)
}

func (h *Handlers) viewerPrevious(w http.ResponseWriter, r *http.Request) {
	h.viewerMove(w, r, (*brochure.Paginator).Previous)
}

// viewerJump takes a zero-based page; out of range pages are clamped.
func (h *Handlers) viewerJump(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: %q", domain.ErrInvalidPage, chi.URLParam(r, "page")))
		return
	}
	h.viewerMove(w, r, func(p *brochure.Paginator) { p.JumpTo(n) })
}

func (h *Handlers) viewerMove(w http.ResponseWriter, r *http.Request, move func(*brochure.Paginator)) {
	page, err := h.Brochures.ViewerStep(r.Context(), chi.URLParam(r, "sid"), move)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, page)
}

func (h *Handlers) brochurePDF(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	q := r.URL.Query()

	var buf bytes.Buffer
	if err := h.Brochures.Render(r.Context(), &buf, id, q.Get("template"), q.Get("backend")); err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", id+".pdf"))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to write brochure")
	}
}

func (h *Handlers) brochureLayout(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Brochures.Layout(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("template"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, doc)
}

type publishResponse struct {
	URL string `json:"url"`
}

func (h *Handlers) publishBrochure(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	u, err := h.Brochures.Publish(r.Context(), chi.URLParam(r, "id"), q.Get("template"), q.Get("backend"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, publishResponse{URL: u})
}
