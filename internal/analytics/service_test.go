// AngelaMos | 2026
// service_test.go

package analytics

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/desieventsleeds/go-backend/internal/middleware"
)

type fakeAnalyticsRepo struct {
	records    []Record
	counts     map[string]int
	distinct   int
	activity   []ActivityEntry
	failInsert error
}

func (r *fakeAnalyticsRepo) Insert(_ context.Context, record *Record) error {
	if r.failInsert != nil {
		return r.failInsert
	}
	r.records = append(r.records, *record)
	return nil
}

func (r *fakeAnalyticsRepo) CountByType(
	_ context.Context,
	eventType string,
) (int, error) {
	return r.counts[eventType], nil
}

func (r *fakeAnalyticsRepo) DistinctUsersByTypeSince(
	_ context.Context,
	_ string,
	_ time.Time,
) (int, error) {
	return r.distinct, nil
}

func (r *fakeAnalyticsRepo) RecentActivity(
	_ context.Context,
	limit int,
) ([]ActivityEntry, error) {
	if len(r.activity) > limit {
		return r.activity[:limit], nil
	}
	return r.activity, nil
}

type staticCounter int

func (c staticCounter) CountPosters(_ context.Context) (int, error) {
	return int(c), nil
}

func (c staticCounter) CountAll(_ context.Context) (int, error) {
	return int(c), nil
}

func newAnalyticsService(repo *fakeAnalyticsRepo) *Service {
	return NewService(
		repo,
		staticCounter(3),
		staticCounter(12),
		slog.New(slog.DiscardHandler),
	)
}

func TestSummaryClickThroughRate(t *testing.T) {
	repo := &fakeAnalyticsRepo{
		counts: map[string]int{
			TypeEventView: 30,
			TypeHomeVisit: 200,
		},
		distinct: 7,
	}

	summary, err := newAnalyticsService(repo).GetSummary(context.Background())
	if err != nil {
		t.Fatalf("GetSummary() error = %v", err)
	}

	if summary.EventClickThroughRate != 15.0 {
		t.Errorf("CTR = %v, want 15.0", summary.EventClickThroughRate)
	}
	if summary.TotalEventPosters != 3 {
		t.Errorf("posters = %d, want 3", summary.TotalEventPosters)
	}
	if summary.TotalEvents != 12 {
		t.Errorf("events = %d, want 12", summary.TotalEvents)
	}
	if summary.UniqueLoginsLast7Days != 7 {
		t.Errorf("unique logins = %d, want 7", summary.UniqueLoginsLast7Days)
	}
}

func TestSummaryWithNoHomeVisits(t *testing.T) {
	// The denominator floors at one, so a site with views but no
	// tracked visits reports views*100 rather than dividing by zero.
	repo := &fakeAnalyticsRepo{
		counts: map[string]int{
			TypeEventView: 4,
			TypeHomeVisit: 0,
		},
	}

	summary, err := newAnalyticsService(repo).GetSummary(context.Background())
	if err != nil {
		t.Fatalf("GetSummary() error = %v", err)
	}

	if summary.EventClickThroughRate != 400.0 {
		t.Errorf("CTR = %v, want 400.0", summary.EventClickThroughRate)
	}
}

func TestRecordSwallowsFailures(t *testing.T) {
	repo := &fakeAnalyticsRepo{failInsert: context.DeadlineExceeded}
	svc := newAnalyticsService(repo)

	// Must not panic or surface an error to the caller.
	svc.RecordLogin(context.Background(), "user-1")
	svc.RecordHomeVisit(context.Background(), nil)
}

func TestRecordAttributesUser(t *testing.T) {
	repo := &fakeAnalyticsRepo{}
	svc := newAnalyticsService(repo)

	svc.RecordLogin(context.Background(), "user-1")
	svc.RecordEventView(context.Background(), "event-1", nil)

	if len(repo.records) != 2 {
		t.Fatalf("records = %d, want 2", len(repo.records))
	}

	login := repo.records[0]
	if login.EventType != TypeLogin || login.UserID == nil || *login.UserID != "user-1" {
		t.Errorf("login record = %+v", login)
	}

	view := repo.records[1]
	if view.EventType != TypeEventView || view.UserID != nil {
		t.Errorf("anonymous view record = %+v", view)
	}
	if view.EventID == nil || *view.EventID != "event-1" {
		t.Errorf("view event id = %v", view.EventID)
	}
}

func TestRecentActivityLimit(t *testing.T) {
	repo := &fakeAnalyticsRepo{}
	for i := 0; i < 30; i++ {
		repo.activity = append(repo.activity, ActivityEntry{
			EventType: TypeHomeVisit,
		})
	}

	entries, err := newAnalyticsService(repo).GetRecentActivity(
		context.Background(),
	)
	if err != nil {
		t.Fatalf("GetRecentActivity() error = %v", err)
	}

	if len(entries) != recentActivityLimit {
		t.Errorf("entries = %d, want %d", len(entries), recentActivityLimit)
	}
}

func TestRecordCapturesRequestContext(t *testing.T) {
	repo := &fakeAnalyticsRepo{}
	svc := newAnalyticsService(repo)

	ctx := context.WithValue(
		context.Background(), middleware.ClientIPKey, "203.0.113.9",
	)
	ctx = context.WithValue(ctx, middleware.UserAgentKey, "Mozilla/5.0")

	svc.RecordHomeVisit(ctx, nil)
	svc.RecordEventView(context.Background(), "event-1", nil)

	if len(repo.records) != 2 {
		t.Fatalf("records = %d, want 2", len(repo.records))
	}

	visit := repo.records[0]
	if visit.Metadata["ip"] != "203.0.113.9" {
		t.Errorf("metadata ip = %v, want 203.0.113.9", visit.Metadata["ip"])
	}
	if visit.Metadata["user_agent"] != "Mozilla/5.0" {
		t.Errorf("metadata user_agent = %v", visit.Metadata["user_agent"])
	}

	// A context with no resolved client info stores no metadata at all.
	if repo.records[1].Metadata != nil {
		t.Errorf("bare context metadata = %v, want nil", repo.records[1].Metadata)
	}
}
