// AngelaMos | 2026
// handler_test.go

package event

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/desieventsleeds/go-backend/internal/middleware"
)

func newTestRouter(repo *fakeRepo) chi.Router {
	svc, _, _ := newTestService(repo)
	handler := NewHandler(svc)

	r := chi.NewRouter()
	handler.RegisterRoutes(r, passthrough, passthrough)
	return r
}

func passthrough(next http.Handler) http.Handler {
	return next
}

func asUser(r *http.Request, userID string) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.UserIDKey, userID)
	return r.WithContext(ctx)
}

// An edit against someone else's event must be indistinguishable at
// the HTTP level from an edit against an event that does not exist.
func TestUpdateStatusHidesOwnership(t *testing.T) {
	repo := newFakeRepo()
	svc, _, _ := newTestService(repo)
	resp, err := svc.Submit(context.Background(), "owner", validCreateRequest())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	router := newTestRouter(repo)
	body := `{"title": "Hijacked Listing"}`

	patch := func(eventID string) int {
		req := httptest.NewRequest(
			http.MethodPatch,
			"/events/"+eventID,
			strings.NewReader(body),
		)
		req = asUser(req, "attacker")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	notMine := patch(resp.ID)
	missing := patch("b2c9d4e1-0000-0000-0000-000000000000")

	if notMine != http.StatusNotFound {
		t.Errorf("non-owner edit status = %d, want %d", notMine, http.StatusNotFound)
	}
	if notMine != missing {
		t.Errorf("status codes differ (%d vs %d): ownership leaks", notMine, missing)
	}
}

func TestDeleteStatusHidesOwnership(t *testing.T) {
	repo := newFakeRepo()
	svc, _, _ := newTestService(repo)
	resp, err := svc.Submit(context.Background(), "owner", validCreateRequest())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	router := newTestRouter(repo)

	del := func(eventID string) int {
		req := httptest.NewRequest(http.MethodDelete, "/events/"+eventID, nil)
		req = asUser(req, "attacker")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	notMine := del(resp.ID)
	missing := del("b2c9d4e1-0000-0000-0000-000000000000")

	if notMine != missing {
		t.Errorf("status codes differ (%d vs %d): ownership leaks", notMine, missing)
	}
}

func TestListPublicFilterParam(t *testing.T) {
	repo := newFakeRepo()
	router := newTestRouter(repo)

	get := func(target string) {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s status = %d", target, rec.Code)
		}
	}

	get("/events?filter=today")
	if repo.lastList.DateFilter != DateFilterToday {
		t.Errorf("filter=today produced DateFilter %q, want %q",
			repo.lastList.DateFilter, DateFilterToday)
	}

	get("/events?date_filter=this_week")
	if repo.lastList.DateFilter != DateFilterThisWeek {
		t.Errorf("date_filter alias produced DateFilter %q, want %q",
			repo.lastList.DateFilter, DateFilterThisWeek)
	}

	get("/events?filter=next_month&date_filter=today")
	if repo.lastList.DateFilter != DateFilterNextMonth {
		t.Errorf("filter should win over the alias, got %q", repo.lastList.DateFilter)
	}
}
