// AngelaMos | 2026
// handler.go

package event

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/desieventsleeds/go-backend/internal/core"
	"github.com/desieventsleeds/go-backend/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: newValidator(),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	optionalAuth func(http.Handler) http.Handler,
) {
	r.Route("/events", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(optionalAuth)
			r.Get("/", h.ListPublic)
		})

		// Email clients follow links with GET, so the token endpoints
		// accept both verbs.
		r.Get("/approve-email/{token}", h.ApproveViaToken)
		r.Post("/approve-email/{token}", h.ApproveViaToken)
		r.Get("/reject-email/{token}", h.RejectViaToken)
		r.Post("/reject-email/{token}", h.RejectViaToken)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Post("/", h.Create)
			r.Get("/my", h.ListMine)
			r.Patch("/{eventID}", h.Update)
			r.Delete("/{eventID}", h.Delete)
		})

		r.Group(func(r chi.Router) {
			r.Use(optionalAuth)
			r.Get("/{eventID}", h.Get)
		})
	})
}

// RegisterAdminRoutes mounts the moderation dashboard. The router has
// already applied admin checks.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/pending", h.ListPending)
	r.Post("/approve/{eventID}", h.Approve)
	r.Post("/reject/{eventID}", h.Reject)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	var req CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.Submit(r.Context(), userID, req)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, resp)
}

func (h *Handler) ListPublic(w http.ResponseWriter, r *http.Request) {
	// The documented parameter is "filter"; "date_filter" is kept as
	// an alias for older clients.
	dateFilter := r.URL.Query().Get("filter")
	if dateFilter == "" {
		dateFilter = r.URL.Query().Get("date_filter")
	}

	params := ListParams{
		Search:     r.URL.Query().Get("search"),
		Category:   r.URL.Query().Get("category"),
		DateFilter: dateFilter,
		Page:       parseIntQuery(r, "page", 1),
		PageSize:   parseIntQuery(r, "page_size", 20),
	}

	events, total, err := h.service.ListPublic(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, events, params.Page, params.PageSize, total)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	events, err := h.service.ListMine(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, events)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	if eventID == "" {
		core.BadRequest(w, "event ID required")
		return
	}

	viewerID := middleware.GetUserID(r.Context())
	isAdmin := middleware.IsAdmin(r.Context())

	resp, err := h.service.GetEvent(r.Context(), eventID, viewerID, isAdmin)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "event")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	eventID := chi.URLParam(r, "eventID")

	var req UpdateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.UpdateEvent(r.Context(), eventID, userID, req)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "event")
			return
		}
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, "no fields to update")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	eventID := chi.URLParam(r, "eventID")
	isAdmin := middleware.IsAdmin(r.Context())

	err := h.service.DeleteEvent(r.Context(), eventID, userID, isAdmin)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "event")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.ListPending(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, events)
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, h.service.Approve)
}

func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, h.service.Reject)
}

func (h *Handler) ApproveViaToken(w http.ResponseWriter, r *http.Request) {
	h.moderateViaToken(w, r, h.service.ApproveViaToken)
}

func (h *Handler) RejectViaToken(w http.ResponseWriter, r *http.Request) {
	h.moderateViaToken(w, r, h.service.RejectViaToken)
}

func (h *Handler) moderate(
	w http.ResponseWriter,
	r *http.Request,
	decide func(ctx context.Context, id string) (*EventResponse, error),
) {
	eventID := chi.URLParam(r, "eventID")
	if eventID == "" {
		core.BadRequest(w, "event ID required")
		return
	}

	resp, err := decide(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "event")
			return
		}
		if errors.Is(err, core.ErrInvalidState) {
			core.JSONError(w, core.InvalidStateError(
				"event has already been moderated",
			))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) moderateViaToken(
	w http.ResponseWriter,
	r *http.Request,
	decide func(ctx context.Context, rawToken string) (*EventResponse, error),
) {
	token := chi.URLParam(r, "token")
	if token == "" {
		core.BadRequest(w, "token required")
		return
	}

	resp, err := decide(r.Context(), token)
	if err != nil {
		if errors.Is(err, core.ErrTokenInvalid) {
			core.JSONError(w, core.TokenInvalidError())
			return
		}
		if errors.Is(err, core.ErrInvalidState) {
			core.JSONError(w, core.InvalidStateError(
				"event has already been moderated",
			))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, resp)
}

func parseIntQuery(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return value
}
