// AngelaMos | 2026
// repository.go

package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/desieventsleeds/go-backend/internal/core"
)

type Repository interface {
	Insert(ctx context.Context, record *Record) error
	CountByType(ctx context.Context, eventType string) (int, error)
	DistinctUsersByTypeSince(
		ctx context.Context,
		eventType string,
		since time.Time,
	) (int, error)
	RecentActivity(ctx context.Context, limit int) ([]ActivityEntry, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, record *Record) error {
	query := `
		INSERT INTO analytics (id, event_type, user_id, event_id, metadata)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &record.CreatedAt, query,
		record.ID,
		record.EventType,
		record.UserID,
		record.EventID,
		record.Metadata,
	)
	if err != nil {
		return fmt.Errorf("insert analytics record: %w", err)
	}

	return nil
}

func (r *repository) CountByType(
	ctx context.Context,
	eventType string,
) (int, error) {
	query := `SELECT COUNT(*) FROM analytics WHERE event_type = $1`

	var count int
	if err := r.db.GetContext(ctx, &count, query, eventType); err != nil {
		return 0, fmt.Errorf("count analytics by type: %w", err)
	}

	return count, nil
}

func (r *repository) DistinctUsersByTypeSince(
	ctx context.Context,
	eventType string,
	since time.Time,
) (int, error) {
	query := `
		SELECT COUNT(DISTINCT user_id)
		FROM analytics
		WHERE event_type = $1 AND user_id IS NOT NULL AND created_at >= $2`

	var count int
	err := r.db.GetContext(ctx, &count, query, eventType, since)
	if err != nil {
		return 0, fmt.Errorf("count distinct users: %w", err)
	}

	return count, nil
}

func (r *repository) RecentActivity(
	ctx context.Context,
	limit int,
) ([]ActivityEntry, error) {
	query := `
		SELECT
			a.id, a.event_type, a.user_id, a.event_id, a.created_at,
			u.email AS user_email,
			CASE WHEN u.id IS NULL THEN NULL
			     ELSE u.first_name || ' ' || u.last_name
			END AS user_name,
			e.title AS event_title
		FROM analytics a
		LEFT JOIN users u ON u.id = a.user_id
		LEFT JOIN events e ON e.id = a.event_id
		ORDER BY a.created_at DESC
		LIMIT $1`

	entries := []ActivityEntry{}
	if err := r.db.SelectContext(ctx, &entries, query, limit); err != nil {
		return nil, fmt.Errorf("list recent activity: %w", err)
	}

	return entries, nil
}
