// AngelaMos | 2026
// dto.go

package event

import (
	"slices"
	"time"

	"github.com/go-playground/validator/v10"
)

// newValidator wires the category whitelist into the request
// validators so Categories stays the single source of truth.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	//nolint:errcheck // registration only fails on an empty tag name
	_ = v.RegisterValidation("event_category", func(fl validator.FieldLevel) bool {
		return slices.Contains(Categories, fl.Field().String())
	})

	return v
}

type CreateEventRequest struct {
	Title        string  `json:"title"         validate:"required,min=3,max=200"`
	Description  string  `json:"description"   validate:"required,min=10,max=5000"`
	Date         string  `json:"date"          validate:"required,datetime=2006-01-02"`
	Time         string  `json:"time"          validate:"required,datetime=15:04"`
	LocationText string  `json:"location_text" validate:"required,min=3,max=300"`
	ContactEmail string  `json:"contact_email" validate:"required,email,max=255"`
	ContactPhone *string `json:"contact_phone" validate:"omitempty,max=30"`
	BookingLink  *string `json:"booking_link"  validate:"omitempty,url,max=500"`
	Category     string  `json:"category"      validate:"required,event_category"`
	ImageURL     *string `json:"image_url"     validate:"omitempty,url,max=500"`
}

// UpdateEventRequest carries a partial edit. Nil fields are left
// untouched.
type UpdateEventRequest struct {
	Title        *string `json:"title"         validate:"omitempty,min=3,max=200"`
	Description  *string `json:"description"   validate:"omitempty,min=10,max=5000"`
	Date         *string `json:"date"          validate:"omitempty,datetime=2006-01-02"`
	Time         *string `json:"time"          validate:"omitempty,datetime=15:04"`
	LocationText *string `json:"location_text" validate:"omitempty,min=3,max=300"`
	ContactEmail *string `json:"contact_email" validate:"omitempty,email,max=255"`
	ContactPhone *string `json:"contact_phone" validate:"omitempty,max=30"`
	BookingLink  *string `json:"booking_link"  validate:"omitempty,url,max=500"`
	Category     *string `json:"category"      validate:"omitempty,event_category"`
	ImageURL     *string `json:"image_url"     validate:"omitempty,url,max=500"`
}

func (r *UpdateEventRequest) IsEmpty() bool {
	return r.Title == nil &&
		r.Description == nil &&
		r.Date == nil &&
		r.Time == nil &&
		r.LocationText == nil &&
		r.ContactEmail == nil &&
		r.ContactPhone == nil &&
		r.BookingLink == nil &&
		r.Category == nil &&
		r.ImageURL == nil
}

// Date window filters for the public listing.
const (
	DateFilterToday     = "today"
	DateFilterThisWeek  = "this_week"
	DateFilterNextMonth = "next_month"
)

type ListParams struct {
	Search     string
	Category   string
	DateFilter string
	Page       int
	PageSize   int
}

func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > 100 {
		p.PageSize = 20
	}
}

func (p *ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type EventResponse struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Date           string    `json:"date"`
	Time           string    `json:"time"`
	LocationText   string    `json:"location_text"`
	ContactEmail   string    `json:"contact_email"`
	ContactPhone   *string   `json:"contact_phone,omitempty"`
	BookingLink    *string   `json:"booking_link,omitempty"`
	Category       string    `json:"category"`
	ImageURL       *string   `json:"image_url,omitempty"`
	ApprovalStatus string    `json:"approval_status"`
	IsActive       bool      `json:"is_active"`
	ViewsCount     int       `json:"views_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func ToEventResponse(e *Event) *EventResponse {
	return &EventResponse{
		ID:             e.ID,
		UserID:         e.UserID,
		Title:          e.Title,
		Description:    e.Description,
		Date:           e.Date,
		Time:           e.Time,
		LocationText:   e.LocationText,
		ContactEmail:   e.ContactEmail,
		ContactPhone:   e.ContactPhone,
		BookingLink:    e.BookingLink,
		Category:       e.Category,
		ImageURL:       e.ImageURL,
		ApprovalStatus: e.ApprovalStatus,
		IsActive:       e.IsActive,
		ViewsCount:     e.ViewsCount,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func ToEventResponseList(events []Event) []EventResponse {
	out := make([]EventResponse, 0, len(events))
	for i := range events {
		out = append(out, *ToEventResponse(&events[i]))
	}
	return out
}
