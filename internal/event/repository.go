// AngelaMos | 2026
// repository.go

package event

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/desieventsleeds/go-backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	ListPublic(ctx context.Context, params ListParams) ([]Event, int, error)
	ListByOwner(ctx context.Context, userID string) ([]Event, error)
	ListPending(ctx context.Context) ([]Event, error)
	CountPending(ctx context.Context) (int, error)
	CountAll(ctx context.Context) (int, error)
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id, status string) error
	IncrementViews(ctx context.Context, id string) error
	CreateTokenPair(
		ctx context.Context,
		eventID string,
		ttl time.Duration,
	) (approveToken, rejectToken string, err error)
	ConsumeToken(
		ctx context.Context,
		rawToken, action string,
	) (*Event, error)
}

// repository holds the raw pool rather than a DBTX because token
// consumption runs its own transaction.
type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const eventColumns = `
	id, user_id, title, description, date, time, location_text,
	contact_email, contact_phone, booking_link, category, image_url,
	approval_status, is_active, views_count, created_at, updated_at
`

func (r *repository) Create(ctx context.Context, event *Event) error {
	query := `
		INSERT INTO events (
			id, user_id, title, description, date, time, location_text,
			contact_email, contact_phone, booking_link, category, image_url,
			approval_status, is_active
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		event.ID,
		event.UserID,
		event.Title,
		event.Description,
		event.Date,
		event.Time,
		event.LocationText,
		event.ContactEmail,
		event.ContactPhone,
		event.BookingLink,
		event.Category,
		event.ImageURL,
		event.ApprovalStatus,
		event.IsActive,
	).Scan(&event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Event, error) {
	query := `SELECT` + eventColumns + `FROM events WHERE id = $1`

	var event Event
	err := r.db.GetContext(ctx, &event, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get event: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}

	return &event, nil
}

// ListPublic returns approved, active events soonest first. The date
// column holds ISO dates as text, so lexical comparison against
// CURRENT_DATE casts is correct.
func (r *repository) ListPublic(
	ctx context.Context,
	params ListParams,
) ([]Event, int, error) {
	conditions := []string{
		"approval_status = 'approved'",
		"is_active = true",
	}
	args := []any{}
	argIdx := 1

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(title ILIKE $%d OR description ILIKE $%d OR location_text ILIKE $%d)",
			argIdx, argIdx, argIdx,
		))
		args = append(args, "%"+escapeLike(params.Search)+"%")
		argIdx++
	}

	if params.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argIdx))
		args = append(args, params.Category)
		argIdx++
	}

	switch params.DateFilter {
	case DateFilterToday:
		conditions = append(conditions, "date = CURRENT_DATE::text")
	case DateFilterThisWeek:
		conditions = append(conditions,
			"date >= CURRENT_DATE::text",
			"date < (CURRENT_DATE + 7)::text",
		)
	case DateFilterNextMonth:
		conditions = append(conditions,
			"date >= CURRENT_DATE::text",
			"date < (CURRENT_DATE + 30)::text",
		)
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	countQuery := "SELECT COUNT(*) FROM events " + where
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT %s FROM events %s ORDER BY date ASC, time ASC LIMIT $%d OFFSET $%d`,
		eventColumns, where, argIdx, argIdx+1,
	)
	args = append(args, params.PageSize, params.Offset())

	events := []Event{}
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}

	return events, total, nil
}

func (r *repository) ListByOwner(
	ctx context.Context,
	userID string,
) ([]Event, error) {
	query := `SELECT` + eventColumns + `
		FROM events
		WHERE user_id = $1
		ORDER BY created_at DESC`

	events := []Event{}
	if err := r.db.SelectContext(ctx, &events, query, userID); err != nil {
		return nil, fmt.Errorf("list owner events: %w", err)
	}

	return events, nil
}

func (r *repository) ListPending(ctx context.Context) ([]Event, error) {
	query := `SELECT` + eventColumns + `
		FROM events
		WHERE approval_status = 'pending'
		ORDER BY created_at DESC`

	events := []Event{}
	if err := r.db.SelectContext(ctx, &events, query); err != nil {
		return nil, fmt.Errorf("list pending events: %w", err)
	}

	return events, nil
}

func (r *repository) CountPending(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM events WHERE approval_status = 'pending'`

	var count int
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("count pending events: %w", err)
	}

	return count, nil
}

func (r *repository) CountAll(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM events`

	var count int
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}

	return count, nil
}

func (r *repository) Update(ctx context.Context, event *Event) error {
	query := `
		UPDATE events
		SET title = $2, description = $3, date = $4, time = $5,
		    location_text = $6, contact_email = $7, contact_phone = $8,
		    booking_link = $9, category = $10, image_url = $11,
		    approval_status = $12, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		event.ID,
		event.Title,
		event.Description,
		event.Date,
		event.Time,
		event.LocationText,
		event.ContactEmail,
		event.ContactPhone,
		event.BookingLink,
		event.Category,
		event.ImageURL,
		event.ApprovalStatus,
	).Scan(&event.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update event: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete event: %w", core.ErrNotFound)
	}

	return nil
}

// SetStatus moves a pending event to its decided state. The pending
// check lives in the statement itself so two concurrent moderators
// cannot both win.
func (r *repository) SetStatus(
	ctx context.Context,
	id, status string,
) error {
	query := `
		UPDATE events
		SET approval_status = $2, updated_at = NOW()
		WHERE id = $1 AND approval_status = 'pending'`

	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("set event status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set event status: %w", err)
	}

	if rows == 0 {
		exists, err := r.exists(ctx, id)
		if err != nil {
			return fmt.Errorf("set event status: %w", err)
		}
		if !exists {
			return fmt.Errorf("set event status: %w", core.ErrNotFound)
		}
		return fmt.Errorf("set event status: %w", core.ErrInvalidState)
	}

	return nil
}

func (r *repository) IncrementViews(ctx context.Context, id string) error {
	query := `UPDATE events SET views_count = views_count + 1 WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("increment views: %w", err)
	}

	return nil
}

// CreateTokenPair mints the approve and reject tokens for a fresh
// submission. Outstanding tokens from a previous submission of the
// same event are retired first so an edited event cannot be moderated
// through a stale email.
func (r *repository) CreateTokenPair(
	ctx context.Context,
	eventID string,
	ttl time.Duration,
) (string, string, error) {
	approveToken, err := core.GenerateSecureToken(32)
	if err != nil {
		return "", "", fmt.Errorf("generate approve token: %w", err)
	}

	rejectToken, err := core.GenerateSecureToken(32)
	if err != nil {
		return "", "", fmt.Errorf("generate reject token: %w", err)
	}

	expiresAt := time.Now().Add(ttl)

	err = core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		retire := `
			UPDATE event_approval_tokens
			SET used = true
			WHERE event_id = $1 AND used = false`
		if _, err := tx.ExecContext(ctx, retire, eventID); err != nil {
			return fmt.Errorf("retire stale tokens: %w", err)
		}

		insert := `
			INSERT INTO event_approval_tokens (id, event_id, token, action, expires_at)
			VALUES ($1, $2, $3, $4, $5)`

		_, err := tx.ExecContext(ctx, insert,
			uuid.New().String(), eventID, approveToken, ActionApprove, expiresAt)
		if err != nil {
			return fmt.Errorf("insert approve token: %w", err)
		}

		_, err = tx.ExecContext(ctx, insert,
			uuid.New().String(), eventID, rejectToken, ActionReject, expiresAt)
		if err != nil {
			return fmt.Errorf("insert reject token: %w", err)
		}

		return nil
	})
	if err != nil {
		return "", "", err
	}

	return approveToken, rejectToken, nil
}

// ConsumeToken plays a moderation token. One transaction covers the
// conditional token spend, the retirement of the sibling token and the
// status transition, so the token is burned exactly once and the event
// moves exactly once no matter how many times the link is clicked.
func (r *repository) ConsumeToken(
	ctx context.Context,
	rawToken, action string,
) (*Event, error) {
	var event Event

	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		spend := `
			UPDATE event_approval_tokens
			SET used = true
			WHERE token = $1 AND action = $2
			  AND used = false AND expires_at > NOW()
			RETURNING event_id`

		var eventID string
		err := tx.QueryRowxContext(ctx, spend, rawToken, action).Scan(&eventID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("consume token: %w", core.ErrTokenInvalid)
		}
		if err != nil {
			return fmt.Errorf("consume token: %w", err)
		}

		retire := `
			UPDATE event_approval_tokens
			SET used = true
			WHERE event_id = $1 AND used = false`
		if _, err := tx.ExecContext(ctx, retire, eventID); err != nil {
			return fmt.Errorf("retire sibling token: %w", err)
		}

		status := StatusApproved
		if action == ActionReject {
			status = StatusRejected
		}

		transition := `
			UPDATE events
			SET approval_status = $2, updated_at = NOW()
			WHERE id = $1 AND approval_status = 'pending'
			RETURNING` + eventColumns

		err = tx.QueryRowxContext(ctx, transition, eventID, status).
			StructScan(&event)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("transition event: %w", core.ErrInvalidState)
		}
		if err != nil {
			return fmt.Errorf("transition event: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &event, nil
}

func (r *repository) exists(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM events WHERE id = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		return false, err
	}

	return exists, nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
