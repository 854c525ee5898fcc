// AngelaMos | 2026
// service_test.go

package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/desieventsleeds/go-backend/internal/core"
	"github.com/desieventsleeds/go-backend/internal/mailer"
)

type fakeRepo struct {
	events   map[string]*Event
	tokens   map[string]*ApprovalToken
	lastList ListParams
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		events: map[string]*Event{},
		tokens: map[string]*ApprovalToken{},
	}
}

func (r *fakeRepo) Create(_ context.Context, event *Event) error {
	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt
	copied := *event
	r.events[event.ID] = &copied
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*Event, error) {
	event, ok := r.events[id]
	if !ok {
		return nil, fmt.Errorf("get event: %w", core.ErrNotFound)
	}
	copied := *event
	return &copied, nil
}

func (r *fakeRepo) ListPublic(
	_ context.Context,
	params ListParams,
) ([]Event, int, error) {
	r.lastList = params
	out := []Event{}
	for _, e := range r.events {
		if e.IsPubliclyVisible() {
			out = append(out, *e)
		}
	}
	return out, len(out), nil
}

func (r *fakeRepo) ListByOwner(
	_ context.Context,
	userID string,
) ([]Event, error) {
	out := []Event{}
	for _, e := range r.events {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListPending(_ context.Context) ([]Event, error) {
	out := []Event{}
	for _, e := range r.events {
		if e.IsPending() {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeRepo) CountPending(_ context.Context) (int, error) {
	count := 0
	for _, e := range r.events {
		if e.IsPending() {
			count++
		}
	}
	return count, nil
}

func (r *fakeRepo) CountAll(_ context.Context) (int, error) {
	return len(r.events), nil
}

func (r *fakeRepo) Update(_ context.Context, event *Event) error {
	stored, ok := r.events[event.ID]
	if !ok {
		return fmt.Errorf("update event: %w", core.ErrNotFound)
	}
	copied := *event
	copied.CreatedAt = stored.CreatedAt
	copied.UpdatedAt = time.Now()
	r.events[event.ID] = &copied
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.events[id]; !ok {
		return fmt.Errorf("delete event: %w", core.ErrNotFound)
	}
	delete(r.events, id)
	return nil
}

func (r *fakeRepo) SetStatus(_ context.Context, id, status string) error {
	event, ok := r.events[id]
	if !ok {
		return fmt.Errorf("set event status: %w", core.ErrNotFound)
	}
	if !event.IsPending() {
		return fmt.Errorf("set event status: %w", core.ErrInvalidState)
	}
	event.ApprovalStatus = status
	return nil
}

func (r *fakeRepo) IncrementViews(_ context.Context, id string) error {
	event, ok := r.events[id]
	if !ok {
		return fmt.Errorf("increment views: %w", core.ErrNotFound)
	}
	event.ViewsCount++
	return nil
}

func (r *fakeRepo) CreateTokenPair(
	_ context.Context,
	eventID string,
	ttl time.Duration,
) (string, string, error) {
	for _, t := range r.tokens {
		if t.EventID == eventID {
			t.Used = true
		}
	}

	approve := uuid.New().String()
	reject := uuid.New().String()
	expires := time.Now().Add(ttl)

	r.tokens[approve] = &ApprovalToken{
		ID:        uuid.New().String(),
		EventID:   eventID,
		Token:     approve,
		Action:    ActionApprove,
		ExpiresAt: expires,
	}
	r.tokens[reject] = &ApprovalToken{
		ID:        uuid.New().String(),
		EventID:   eventID,
		Token:     reject,
		Action:    ActionReject,
		ExpiresAt: expires,
	}

	return approve, reject, nil
}

func (r *fakeRepo) ConsumeToken(
	_ context.Context,
	rawToken, action string,
) (*Event, error) {
	token, ok := r.tokens[rawToken]
	if !ok || token.Used || token.Action != action ||
		time.Now().After(token.ExpiresAt) {
		return nil, fmt.Errorf("consume token: %w", core.ErrTokenInvalid)
	}

	for _, t := range r.tokens {
		if t.EventID == token.EventID {
			t.Used = true
		}
	}

	event, ok := r.events[token.EventID]
	if !ok {
		return nil, fmt.Errorf("consume token: %w", core.ErrNotFound)
	}
	if !event.IsPending() {
		return nil, fmt.Errorf("transition event: %w", core.ErrInvalidState)
	}

	if action == ActionApprove {
		event.ApprovalStatus = StatusApproved
	} else {
		event.ApprovalStatus = StatusRejected
	}

	copied := *event
	return &copied, nil
}

type fakePosters struct{}

func (fakePosters) GetPosterInfo(
	_ context.Context,
	userID string,
) (*PosterInfo, error) {
	return &PosterInfo{Email: userID + "@example.com", Name: "Test Poster"}, nil
}

type recordedNotification struct {
	kind  string
	to    string
	title string
}

type fakeNotifier struct {
	submissions []mailer.EventSummary
	decisions   []recordedNotification
}

func (n *fakeNotifier) EventSubmitted(
	event mailer.EventSummary,
	approveToken, rejectToken string,
) {
	n.submissions = append(n.submissions, event)
}

func (n *fakeNotifier) EventApproved(to, name, title string) {
	n.decisions = append(n.decisions, recordedNotification{
		kind: "approved", to: to, title: title,
	})
}

func (n *fakeNotifier) EventRejected(to, name, title string) {
	n.decisions = append(n.decisions, recordedNotification{
		kind: "rejected", to: to, title: title,
	})
}

type fakeViews struct {
	views int
	posts int
}

func (v *fakeViews) RecordEventView(
	_ context.Context,
	_ string,
	_ *string,
) {
	v.views++
}

func (v *fakeViews) RecordEventPost(_ context.Context, _, _ string) {
	v.posts++
}

func newTestService(repo *fakeRepo) (*Service, *fakeNotifier, *fakeViews) {
	notifier := &fakeNotifier{}
	views := &fakeViews{}
	svc := NewService(
		repo,
		fakePosters{},
		views,
		notifier,
		7*24*time.Hour,
		slog.New(slog.DiscardHandler),
	)
	return svc, notifier, views
}

func validCreateRequest() CreateEventRequest {
	return CreateEventRequest{
		Title:        "Diwali Celebration",
		Description:  "An evening of food, music and fireworks.",
		Date:         "2026-11-08",
		Time:         "18:30",
		LocationText: "Millennium Square, Leeds",
		ContactEmail: "organiser@example.com",
		Category:     "Cultural",
	}
}

func TestSubmitStartsPending(t *testing.T) {
	repo := newFakeRepo()
	svc, notifier, views := newTestService(repo)

	resp, err := svc.Submit(context.Background(), "user-1", validCreateRequest())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if resp.ApprovalStatus != StatusPending {
		t.Errorf("status = %q, want %q", resp.ApprovalStatus, StatusPending)
	}
	if !resp.IsActive {
		t.Error("new event should be active")
	}
	if views.posts != 1 {
		t.Errorf("recorded posts = %d, want 1", views.posts)
	}
	if len(notifier.submissions) != 1 {
		t.Fatalf("admin notifications = %d, want 1", len(notifier.submissions))
	}
	if notifier.submissions[0].Title != "Diwali Celebration" {
		t.Errorf("notified title = %q", notifier.submissions[0].Title)
	}
}

func TestApproveNotifiesPoster(t *testing.T) {
	repo := newFakeRepo()
	svc, notifier, _ := newTestService(repo)

	resp, err := svc.Submit(context.Background(), "user-1", validCreateRequest())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	approved, err := svc.Approve(context.Background(), resp.ID)
	if err != nil {
		t.Fatalf("Approve() error = %v", err)
	}

	if approved.ApprovalStatus != StatusApproved {
		t.Errorf("status = %q, want %q", approved.ApprovalStatus, StatusApproved)
	}
	if len(notifier.decisions) != 1 || notifier.decisions[0].kind != "approved" {
		t.Errorf("decisions = %+v, want one approval", notifier.decisions)
	}
}

func TestApproveTwiceFails(t *testing.T) {
	repo := newFakeRepo()
	svc, _, _ := newTestService(repo)

	resp, err := svc.Submit(context.Background(), "user-1", validCreateRequest())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if _, err := svc.Approve(context.Background(), resp.ID); err != nil {
		t.Fatalf("first Approve() error = %v", err)
	}

	_, err = svc.Approve(context.Background(), resp.ID)
	if !errors.Is(err, core.ErrInvalidState) {
		t.Errorf("second Approve() error = %v, want ErrInvalidState", err)
	}
}

func TestRejectAfterApproveFails(t *testing.T) {
	repo := newFakeRepo()
	svc, _, _ := newTestService(repo)

	resp, err := svc.Submit(context.Background(), "user-1", validCreateRequest())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if _, err := svc.Approve(context.Background(), resp.ID); err != nil {
		t.Fatalf("Approve() error = %v", err)
	}

	_, err = svc.Reject(context.Background(), resp.ID)
	if !errors.Is(err, core.ErrInvalidState) {
		t.Errorf("Reject() after approve error = %v, want ErrInvalidState", err)
	}
}

func TestTokenApprovalIsSingleUse(t *testing.T) {
	repo := newFakeRepo()
	svc, _, _ := newTestService(repo)

	resp, err := svc.Submit(context.Background(), "user-1", validCreateRequest())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	var approveToken string
	for raw, token := range repo.tokens {
		if token.EventID == resp.ID && token.Action == ActionApprove {
			approveToken = raw
		}
	}
	if approveToken == "" {
		t.Fatal("no approve token minted")
	}

	approved, err := svc.ApproveViaToken(context.Background(), approveToken)
	if err != nil {
		t.Fatalf("ApproveViaToken() error = %v", err)
	}
	if approved.ApprovalStatus != StatusApproved {
		t.Errorf("status = %q, want %q", approved.ApprovalStatus, StatusApproved)
	}

	_, err = svc.ApproveViaToken(context.Background(), approveToken)
	if !errors.Is(err, core.ErrTokenInvalid) {
		t.Errorf("replayed token error = %v, want ErrTokenInvalid", err)
	}
}

func TestConsumingTokenInvalidatesSibling(t *testing.T) {
	repo := newFakeRepo()
	svc, _, _ := newTestService(repo)

	resp, err := svc.Submit(context.Background(), "user-1", validCreateRequest())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	var approveToken, rejectToken string
	for raw, token := range repo.tokens {
		if token.EventID != resp.ID {
			continue
		}
		if token.Action == ActionApprove {
			approveToken = raw
		} else {
			rejectToken = raw
		}
	}

	if _, err := svc.ApproveViaToken(context.Background(), approveToken); err != nil {
		t.Fatalf("ApproveViaToken() error = %v", err)
	}

	_, err = svc.RejectViaToken(context.Background(), rejectToken)
	if !errors.Is(err, core.ErrTokenInvalid) {
		t.Errorf("sibling token error = %v, want ErrTokenInvalid", err)
	}
}

func TestUpdateReturnsEventToPending(t *testing.T) {
	repo := newFakeRepo()
	svc, notifier, _ := newTestService(repo)

	resp, err := svc.Submit(context.Background(), "user-1", validCreateRequest())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if _, err := svc.Approve(context.Background(), resp.ID); err != nil {
		t.Fatalf("Approve() error = %v", err)
	}

	newTitle := "Diwali Celebration 2026"
	updated, err := svc.UpdateEvent(
		context.Background(),
		resp.ID,
		"user-1",
		UpdateEventRequest{Title: &newTitle},
	)
	if err != nil {
		t.Fatalf("UpdateEvent() error = %v", err)
	}

	if updated.ApprovalStatus != StatusPending {
		t.Errorf("status after edit = %q, want %q",
			updated.ApprovalStatus, StatusPending)
	}
	if updated.Title != newTitle {
		t.Errorf("title = %q, want %q", updated.Title, newTitle)
	}
	// One notification for the submission, one for the re-review.
	if len(notifier.submissions) != 2 {
		t.Errorf("admin notifications = %d, want 2", len(notifier.submissions))
	}
}

// Someone else's event and a nonexistent event must be
// indistinguishable to a would-be editor.
func TestUpdateByNonOwnerLooksMissing(t *testing.T) {
	repo := newFakeRepo()
	svc, _, _ := newTestService(repo)

	resp, err := svc.Submit(context.Background(), "user-1", validCreateRequest())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	newTitle := "Hijacked"
	_, err = svc.UpdateEvent(
		context.Background(),
		resp.ID,
		"user-2",
		UpdateEventRequest{Title: &newTitle},
	)
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("non-owner update error = %v, want ErrNotFound", err)
	}

	_, missingErr := svc.UpdateEvent(
		context.Background(),
		"no-such-event",
		"user-2",
		UpdateEventRequest{Title: &newTitle},
	)
	if !errors.Is(missingErr, core.ErrNotFound) {
		t.Errorf("missing-event update error = %v, want ErrNotFound", missingErr)
	}
}

func TestDeleteOwnershipRules(t *testing.T) {
	repo := newFakeRepo()
	svc, _, _ := newTestService(repo)

	resp, err := svc.Submit(context.Background(), "user-1", validCreateRequest())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	err = svc.DeleteEvent(context.Background(), resp.ID, "user-2", false)
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("non-owner delete error = %v, want ErrNotFound", err)
	}

	if err := svc.DeleteEvent(context.Background(), resp.ID, "user-2", true); err != nil {
		t.Errorf("admin delete error = %v", err)
	}
}

func TestGetEventHidesPendingFromStrangers(t *testing.T) {
	repo := newFakeRepo()
	svc, _, views := newTestService(repo)

	resp, err := svc.Submit(context.Background(), "user-1", validCreateRequest())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	_, err = svc.GetEvent(context.Background(), resp.ID, "stranger", false)
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("stranger fetch error = %v, want ErrNotFound", err)
	}

	if _, err := svc.GetEvent(context.Background(), resp.ID, "user-1", false); err != nil {
		t.Errorf("owner fetch error = %v", err)
	}

	if _, err := svc.GetEvent(context.Background(), resp.ID, "staff", true); err != nil {
		t.Errorf("admin fetch error = %v", err)
	}

	if views.views != 0 {
		t.Errorf("non-public fetches recorded %d views, want 0", views.views)
	}
}

func TestGetEventCountsPublicViews(t *testing.T) {
	repo := newFakeRepo()
	svc, _, views := newTestService(repo)

	resp, err := svc.Submit(context.Background(), "user-1", validCreateRequest())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if _, err := svc.Approve(context.Background(), resp.ID); err != nil {
		t.Fatalf("Approve() error = %v", err)
	}

	fetched, err := svc.GetEvent(context.Background(), resp.ID, "", false)
	if err != nil {
		t.Fatalf("GetEvent() error = %v", err)
	}

	if fetched.ViewsCount != 1 {
		t.Errorf("views_count = %d, want 1", fetched.ViewsCount)
	}
	if views.views != 1 {
		t.Errorf("recorded views = %d, want 1", views.views)
	}
}
