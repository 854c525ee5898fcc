// AngelaMos | 2026
// handler.go

package analytics

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/desieventsleeds/go-backend/internal/core"
	"github.com/desieventsleeds/go-backend/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the public tracking endpoint. The caller may
// be anonymous; when a session is present the visit is attributed.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/track/home-visit", h.TrackHomeVisit)
}

// RegisterAdminRoutes mounts the dashboard endpoints. The caller has
// already passed admin checks.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/analytics/summary", h.GetSummary)
	r.Get("/analytics/activity", h.GetRecentActivity)
}

func (h *Handler) TrackHomeVisit(w http.ResponseWriter, r *http.Request) {
	var userID *string
	if id := middleware.GetUserID(r.Context()); id != "" {
		userID = &id
	}

	h.service.RecordHomeVisit(r.Context(), userID)

	core.Accepted(w, map[string]string{"status": "recorded"})
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.GetSummary(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, summary)
}

func (h *Handler) GetRecentActivity(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.GetRecentActivity(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, entries)
}
