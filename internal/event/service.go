// AngelaMos | 2026
// service.go

package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/desieventsleeds/go-backend/internal/core"
	"github.com/desieventsleeds/go-backend/internal/mailer"
)

// PosterInfo identifies the account behind a listing for outbound
// notifications.
type PosterInfo struct {
	Email string
	Name  string
}

type PosterProvider interface {
	GetPosterInfo(ctx context.Context, userID string) (*PosterInfo, error)
}

// ViewRecorder receives listing interactions. Best-effort.
type ViewRecorder interface {
	RecordEventView(ctx context.Context, eventID string, userID *string)
	RecordEventPost(ctx context.Context, eventID, userID string)
}

// ModerationNotifier delivers the moderation emails asynchronously.
type ModerationNotifier interface {
	EventSubmitted(event mailer.EventSummary, approveToken, rejectToken string)
	EventApproved(to, name, title string)
	EventRejected(to, name, title string)
}

type Service struct {
	repo     Repository
	posters  PosterProvider
	views    ViewRecorder
	notifier ModerationNotifier
	tokenTTL time.Duration
	logger   *slog.Logger
}

func NewService(
	repo Repository,
	posters PosterProvider,
	views ViewRecorder,
	notifier ModerationNotifier,
	tokenTTL time.Duration,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:     repo,
		posters:  posters,
		views:    views,
		notifier: notifier,
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

// Submit stores a new listing in the pending state, mints its
// moderation token pair and emails the admin.
func (s *Service) Submit(
	ctx context.Context,
	userID string,
	req CreateEventRequest,
) (*EventResponse, error) {
	event := &Event{
		ID:             uuid.New().String(),
		UserID:         userID,
		Title:          req.Title,
		Description:    req.Description,
		Date:           req.Date,
		Time:           req.Time,
		LocationText:   req.LocationText,
		ContactEmail:   req.ContactEmail,
		ContactPhone:   req.ContactPhone,
		BookingLink:    req.BookingLink,
		Category:       req.Category,
		ImageURL:       req.ImageURL,
		ApprovalStatus: StatusPending,
		IsActive:       true,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}

	if s.views != nil {
		s.views.RecordEventPost(ctx, event.ID, userID)
	}

	s.requestModeration(ctx, event)

	return ToEventResponse(event), nil
}

// GetEvent returns one listing. Unapproved or deactivated events are
// hidden from everyone except their owner and admins. Public fetches
// bump the view counter and are tracked.
func (s *Service) GetEvent(
	ctx context.Context,
	id, viewerID string,
	viewerIsAdmin bool,
) (*EventResponse, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !event.IsPubliclyVisible() {
		if event.UserID != viewerID && !viewerIsAdmin {
			return nil, fmt.Errorf("get event: %w", core.ErrNotFound)
		}
		return ToEventResponse(event), nil
	}

	if err := s.repo.IncrementViews(ctx, event.ID); err != nil {
		s.logger.Warn("view counter update failed",
			slog.String("event_id", event.ID),
			slog.String("error", err.Error()),
		)
	} else {
		event.ViewsCount++
	}

	if s.views != nil {
		var userID *string
		if viewerID != "" {
			userID = &viewerID
		}
		s.views.RecordEventView(ctx, event.ID, userID)
	}

	return ToEventResponse(event), nil
}

func (s *Service) ListPublic(
	ctx context.Context,
	params ListParams,
) ([]EventResponse, int, error) {
	params.Normalize()

	events, total, err := s.repo.ListPublic(ctx, params)
	if err != nil {
		return nil, 0, err
	}

	return ToEventResponseList(events), total, nil
}

func (s *Service) ListMine(
	ctx context.Context,
	userID string,
) ([]EventResponse, error) {
	events, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	return ToEventResponseList(events), nil
}

func (s *Service) ListPending(ctx context.Context) ([]EventResponse, error) {
	events, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, err
	}

	return ToEventResponseList(events), nil
}

func (s *Service) CountPending(ctx context.Context) (int, error) {
	return s.repo.CountPending(ctx)
}

func (s *Service) CountAll(ctx context.Context) (int, error) {
	return s.repo.CountAll(ctx)
}

// UpdateEvent applies an owner's edit. Any edit sends the event back
// to pending and restarts moderation, no matter what state it was in.
func (s *Service) UpdateEvent(
	ctx context.Context,
	id, userID string,
	req UpdateEventRequest,
) (*EventResponse, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Someone else's event answers exactly like a missing one so
	// callers cannot probe which IDs exist.
	if event.UserID != userID {
		return nil, fmt.Errorf("update event: %w", core.ErrNotFound)
	}

	if req.IsEmpty() {
		return nil, fmt.Errorf("update event: %w", core.ErrInvalidInput)
	}

	applyUpdate(event, req)
	event.ApprovalStatus = StatusPending

	if err := s.repo.Update(ctx, event); err != nil {
		return nil, err
	}

	s.requestModeration(ctx, event)

	return ToEventResponse(event), nil
}

// DeleteEvent removes a listing. Owners delete their own; admins
// delete anything.
func (s *Service) DeleteEvent(
	ctx context.Context,
	id, userID string,
	isAdmin bool,
) error {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if event.UserID != userID && !isAdmin {
		return fmt.Errorf("delete event: %w", core.ErrNotFound)
	}

	return s.repo.Delete(ctx, event.ID)
}

// Approve moves a pending event live from the admin dashboard.
func (s *Service) Approve(ctx context.Context, id string) (*EventResponse, error) {
	return s.decide(ctx, id, StatusApproved)
}

// Reject declines a pending event from the admin dashboard.
func (s *Service) Reject(ctx context.Context, id string) (*EventResponse, error) {
	return s.decide(ctx, id, StatusRejected)
}

// ApproveViaToken plays an approve link from the moderation email.
func (s *Service) ApproveViaToken(
	ctx context.Context,
	rawToken string,
) (*EventResponse, error) {
	return s.decideViaToken(ctx, rawToken, ActionApprove)
}

// RejectViaToken plays a reject link from the moderation email.
func (s *Service) RejectViaToken(
	ctx context.Context,
	rawToken string,
) (*EventResponse, error) {
	return s.decideViaToken(ctx, rawToken, ActionReject)
}

func (s *Service) decide(
	ctx context.Context,
	id, status string,
) (*EventResponse, error) {
	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		return nil, err
	}

	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.notifyDecision(ctx, event)

	return ToEventResponse(event), nil
}

func (s *Service) decideViaToken(
	ctx context.Context,
	rawToken, action string,
) (*EventResponse, error) {
	event, err := s.repo.ConsumeToken(ctx, rawToken, action)
	if err != nil {
		return nil, err
	}

	s.notifyDecision(ctx, event)

	return ToEventResponse(event), nil
}

// requestModeration mints a fresh token pair and emails the admin.
// Failure here is logged, not surfaced; the event is already stored
// and can still be moderated from the dashboard.
func (s *Service) requestModeration(ctx context.Context, event *Event) {
	if s.notifier == nil {
		return
	}

	approveToken, rejectToken, err := s.repo.CreateTokenPair(
		ctx,
		event.ID,
		s.tokenTTL,
	)
	if err != nil {
		s.logger.Error("moderation token mint failed",
			slog.String("event_id", event.ID),
			slog.String("error", err.Error()),
		)
		return
	}

	poster := s.lookupPoster(ctx, event.UserID)

	s.notifier.EventSubmitted(mailer.EventSummary{
		Title:        event.Title,
		Date:         event.Date,
		Time:         event.Time,
		LocationText: event.LocationText,
		Category:     event.Category,
		Description:  event.Description,
		PosterName:   poster.Name,
		ContactEmail: event.ContactEmail,
	}, approveToken, rejectToken)
}

func (s *Service) notifyDecision(ctx context.Context, event *Event) {
	if s.notifier == nil {
		return
	}

	poster := s.lookupPoster(ctx, event.UserID)
	if poster.Email == "" {
		return
	}

	switch event.ApprovalStatus {
	case StatusApproved:
		s.notifier.EventApproved(poster.Email, poster.Name, event.Title)
	case StatusRejected:
		s.notifier.EventRejected(poster.Email, poster.Name, event.Title)
	}
}

func (s *Service) lookupPoster(ctx context.Context, userID string) PosterInfo {
	if s.posters == nil {
		return PosterInfo{}
	}

	poster, err := s.posters.GetPosterInfo(ctx, userID)
	if err != nil {
		s.logger.Warn("poster lookup failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return PosterInfo{}
	}

	return *poster
}

func applyUpdate(event *Event, req UpdateEventRequest) {
	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Date != nil {
		event.Date = *req.Date
	}
	if req.Time != nil {
		event.Time = *req.Time
	}
	if req.LocationText != nil {
		event.LocationText = *req.LocationText
	}
	if req.ContactEmail != nil {
		event.ContactEmail = *req.ContactEmail
	}
	if req.ContactPhone != nil {
		event.ContactPhone = req.ContactPhone
	}
	if req.BookingLink != nil {
		event.BookingLink = req.BookingLink
	}
	if req.Category != nil {
		event.Category = *req.Category
	}
	if req.ImageURL != nil {
		event.ImageURL = req.ImageURL
	}
}
