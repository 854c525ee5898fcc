// AngelaMos | 2026
// entity.go

package event

import (
	"time"
)

// Approval lifecycle. Every submission starts pending and an edit by
// the owner sends an already-moderated event back to pending.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

// Categories accepted on submission.
var Categories = []string{
	"Cultural",
	"Religious",
	"Social",
	"Sports",
	"Music",
	"Food",
	"Business",
	"Education",
	"Other",
}

type Event struct {
	ID             string    `db:"id"`
	UserID         string    `db:"user_id"`
	Title          string    `db:"title"`
	Description    string    `db:"description"`
	Date           string    `db:"date"`
	Time           string    `db:"time"`
	LocationText   string    `db:"location_text"`
	ContactEmail   string    `db:"contact_email"`
	ContactPhone   *string   `db:"contact_phone"`
	BookingLink    *string   `db:"booking_link"`
	Category       string    `db:"category"`
	ImageURL       *string   `db:"image_url"`
	ApprovalStatus string    `db:"approval_status"`
	IsActive       bool      `db:"is_active"`
	ViewsCount     int       `db:"views_count"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (e *Event) IsPending() bool {
	return e.ApprovalStatus == StatusPending
}

func (e *Event) IsApproved() bool {
	return e.ApprovalStatus == StatusApproved
}

// IsPubliclyVisible reports whether the event belongs on the open
// listing. Only approved, active events are shown to anonymous
// visitors.
func (e *Event) IsPubliclyVisible() bool {
	return e.IsApproved() && e.IsActive
}

// ApprovalToken is a single-use credential embedded in the moderation
// email. One approve and one reject token are minted per submission;
// consuming either invalidates the sibling.
type ApprovalToken struct {
	ID        string    `db:"id"`
	EventID   string    `db:"event_id"`
	Token     string    `db:"token"`
	Action    string    `db:"action"`
	ExpiresAt time.Time `db:"expires_at"`
	Used      bool      `db:"used"`
	CreatedAt time.Time `db:"created_at"`
}
