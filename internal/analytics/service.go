// AngelaMos | 2026
// service.go

package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/desieventsleeds/go-backend/internal/auth"
	"github.com/desieventsleeds/go-backend/internal/middleware"
)

const recentActivityLimit = 20

// PosterCounter reports how many accounts hold the poster role.
type PosterCounter interface {
	CountPosters(ctx context.Context) (int, error)
}

// EventCounter reports how many events exist across all statuses.
type EventCounter interface {
	CountAll(ctx context.Context) (int, error)
}

type Service struct {
	repo    Repository
	posters PosterCounter
	events  EventCounter
	logger  *slog.Logger
}

var _ auth.ActivityRecorder = (*Service)(nil)

func NewService(
	repo Repository,
	posters PosterCounter,
	events EventCounter,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:    repo,
		posters: posters,
		events:  events,
		logger:  logger,
	}
}

// Record writes one interaction. Tracking rides on user-facing
// requests, so failures are logged and swallowed. Request context is
// folded into the metadata when the middleware resolved it.
func (s *Service) Record(
	ctx context.Context,
	eventType string,
	userID, eventID *string,
	metadata Metadata,
) {
	record := &Record{
		ID:        uuid.New().String(),
		EventType: eventType,
		UserID:    userID,
		EventID:   eventID,
		Metadata:  withRequestContext(ctx, metadata),
	}

	if err := s.repo.Insert(ctx, record); err != nil {
		s.logger.Warn("analytics record dropped",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()),
		)
	}
}

func withRequestContext(ctx context.Context, metadata Metadata) Metadata {
	ip := middleware.GetClientIP(ctx)
	ua := middleware.GetUserAgent(ctx)
	if ip == "" && ua == "" {
		return metadata
	}

	if metadata == nil {
		metadata = Metadata{}
	}
	if ip != "" {
		metadata["ip"] = ip
	}
	if ua != "" {
		metadata["user_agent"] = ua
	}
	return metadata
}

func (s *Service) RecordLogin(ctx context.Context, userID string) {
	s.Record(ctx, TypeLogin, &userID, nil, nil)
}

func (s *Service) RecordRegistration(ctx context.Context, userID string) {
	s.Record(ctx, TypeRegistration, &userID, nil, nil)
}

func (s *Service) RecordHomeVisit(ctx context.Context, userID *string) {
	s.Record(ctx, TypeHomeVisit, userID, nil, nil)
}

func (s *Service) RecordEventView(
	ctx context.Context,
	eventID string,
	userID *string,
) {
	s.Record(ctx, TypeEventView, userID, &eventID, nil)
}

func (s *Service) RecordEventPost(
	ctx context.Context,
	eventID, userID string,
) {
	s.Record(ctx, TypeEventPost, &userID, &eventID, nil)
}

// GetSummary assembles the dashboard headline numbers. The
// click-through rate is event views per hundred home page visits, with
// the denominator floored at one so an unvisited site reads as zero
// rather than dividing by zero.
func (s *Service) GetSummary(ctx context.Context) (*Summary, error) {
	posters, err := s.posters.CountPosters(ctx)
	if err != nil {
		return nil, fmt.Errorf("count posters: %w", err)
	}

	totalEvents, err := s.events.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}

	weekAgo := time.Now().Add(-7 * 24 * time.Hour)
	uniqueLogins, err := s.repo.DistinctUsersByTypeSince(
		ctx,
		TypeLogin,
		weekAgo,
	)
	if err != nil {
		return nil, fmt.Errorf("count unique logins: %w", err)
	}

	views, err := s.repo.CountByType(ctx, TypeEventView)
	if err != nil {
		return nil, fmt.Errorf("count event views: %w", err)
	}

	homeVisits, err := s.repo.CountByType(ctx, TypeHomeVisit)
	if err != nil {
		return nil, fmt.Errorf("count home visits: %w", err)
	}

	denominator := homeVisits
	if denominator < 1 {
		denominator = 1
	}

	return &Summary{
		TotalEventPosters:     posters,
		TotalEvents:           totalEvents,
		UniqueLoginsLast7Days: uniqueLogins,
		EventClickThroughRate: float64(views) / float64(denominator) * 100,
	}, nil
}

func (s *Service) GetRecentActivity(
	ctx context.Context,
) ([]ActivityEntry, error) {
	return s.repo.RecentActivity(ctx, recentActivityLimit)
}
