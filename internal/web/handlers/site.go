package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/conley21p/alpine-outdoor-living/internal/blob"
	"github.com/conley21p/alpine-outdoor-living/internal/models"
	"github.com/conley21p/alpine-outdoor-living/internal/store"
	"github.com/conley21p/alpine-outdoor-living/internal/web/render"
)

// SiteHandler renders the public marketing pages.
type SiteHandler struct {
	render  *render.Renderer
	reviews store.ReviewStore
	jobs    store.JobStore
	blobs   blob.Store
}

// NewSiteHandler creates a SiteHandler.
func NewSiteHandler(renderer *render.Renderer, reviews store.ReviewStore, jobs store.JobStore, blobs blob.Store) *SiteHandler {
	return &SiteHandler{render: renderer, reviews: reviews, jobs: jobs, blobs: blobs}
}

// ShowHome renders the landing page with a review highlight strip.
func (h *SiteHandler) ShowHome(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{}

	reviews, err := h.reviews.ListPublishedReviews(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to load reviews for home page", "error", err)
	} else if len(reviews) > 3 {
		reviews = reviews[:3]
	}
	data["Reviews"] = reviews

	h.render.Render(w, r, "home.html", data)
}

// ShowServices renders the services page.
func (h *SiteHandler) ShowServices(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, "services.html", nil)
}

// ShowGallery renders completed work with job photos.
func (h *SiteHandler) ShowGallery(w http.ResponseWriter, r *http.Request) {
	jobs, _, err := h.jobs.ListJobs(r.Context(), models.JobQuery{
		Status: models.JobCompleted,
		Limit:  24,
	})
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to load gallery jobs", "error", err)
	}

	// Only jobs that actually have photos make the gallery.
	var withPhotos []models.Job
	for _, j := range jobs {
		if len(j.Photos) > 0 {
			withPhotos = append(withPhotos, j)
		}
	}

	h.render.Render(w, r, "gallery.html", map[string]interface{}{
		"Jobs": withPhotos,
	})
}

// ShowReviews renders all published reviews.
func (h *SiteHandler) ShowReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.ListPublishedReviews(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to load reviews", "error", err)
	}
	h.render.Render(w, r, "reviews.html", map[string]interface{}{
		"Reviews": reviews,
	})
}

// ShowContact renders the contact form page.
func (h *SiteHandler) ShowContact(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, "contact.html", nil)
}

// HandleImage serves a stored image by key from the blob store.
func (h *SiteHandler) HandleImage(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if key == "" {
		http.NotFound(w, r)
		return
	}

	data, err := h.blobs.Get(r.Context(), key)
	if err != nil {
		if errors.Is(err, blob.ErrObjectNotFound) {
			http.NotFound(w, r)
			return
		}
		slog.ErrorContext(r.Context(), "failed to read image", "key", key, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(data)
}
