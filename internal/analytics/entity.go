// AngelaMos | 2026
// entity.go

package analytics

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	TypeLogin        = "login"
	TypeRegistration = "registration"
	TypeHomeVisit    = "home_visit"
	TypeEventView    = "event_view"
	TypeEventPost    = "event_post"
)

// Metadata is a free-form jsonb column.
type Metadata map[string]any

func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}
	return b, nil
}

func (m *Metadata) Scan(src any) error {
	if src == nil {
		*m = nil
		return nil
	}

	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("scan metadata: unsupported type %T", src)
	}

	if err := json.Unmarshal(b, m); err != nil {
		return fmt.Errorf("unmarshal metadata: %w", err)
	}
	return nil
}

// Record is one tracked interaction. UserID and EventID are optional;
// anonymous page views carry neither.
type Record struct {
	ID        string    `db:"id"`
	EventType string    `db:"event_type"`
	UserID    *string   `db:"user_id"`
	EventID   *string   `db:"event_id"`
	Metadata  Metadata  `db:"metadata"`
	CreatedAt time.Time `db:"created_at"`
}

// ActivityEntry is a record joined with whoever and whatever it refers
// to, for the admin activity feed. Joined fields are nullable because
// the referenced user or event may have been deleted since.
type ActivityEntry struct {
	ID         string    `db:"id"          json:"id"`
	EventType  string    `db:"event_type"  json:"event_type"`
	UserID     *string   `db:"user_id"     json:"user_id,omitempty"`
	UserEmail  *string   `db:"user_email"  json:"user_email,omitempty"`
	UserName   *string   `db:"user_name"   json:"user_name,omitempty"`
	EventID    *string   `db:"event_id"    json:"event_id,omitempty"`
	EventTitle *string   `db:"event_title" json:"event_title,omitempty"`
	CreatedAt  time.Time `db:"created_at"  json:"created_at"`
}

// Summary aggregates the headline numbers for the admin dashboard.
type Summary struct {
	TotalEventPosters     int     `json:"total_event_posters"`
	TotalEvents           int     `json:"total_events"`
	UniqueLoginsLast7Days int     `json:"unique_logins_last_7_days"`
	EventClickThroughRate float64 `json:"event_click_through_rate"`
}
