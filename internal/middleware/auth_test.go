// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desieventsleeds/go-backend/internal/core"
)

type stubVerifier struct {
	claims *AccessTokenClaims
	err    error
}

func (v stubVerifier) VerifyAccessToken(
	_ context.Context,
	_ string,
) (*AccessTokenClaims, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.claims, nil
}

func echoIdentity(t *testing.T, wantUserID, wantRole string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := GetUserID(r.Context()); got != wantUserID {
			t.Errorf("user id = %q, want %q", got, wantUserID)
		}
		if got := GetUserRole(r.Context()); got != wantRole {
			t.Errorf("role = %q, want %q", got, wantRole)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticatorRejectsMissingToken(t *testing.T) {
	handler := Authenticator(stubVerifier{})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler reached without a token")
		}),
	)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAuthenticatorRejectsBadToken(t *testing.T) {
	handler := Authenticator(stubVerifier{err: core.ErrTokenInvalid})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler reached with an invalid token")
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAuthenticatorPopulatesIdentity(t *testing.T) {
	verifier := stubVerifier{claims: &AccessTokenClaims{
		UserID: "user-1",
		Role:   "poster",
	}}

	handler := Authenticator(verifier)(echoIdentity(t, "user-1", "poster"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer valid")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestOptionalAuthAllowsAnonymous(t *testing.T) {
	handler := OptionalAuth(stubVerifier{})(echoIdentity(t, "", ""))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestOptionalAuthIgnoresBadToken(t *testing.T) {
	handler := OptionalAuth(stubVerifier{err: core.ErrTokenExpired})(
		echoIdentity(t, "", ""),
	)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer expired")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestRequireAdmin(t *testing.T) {
	verifier := stubVerifier{claims: &AccessTokenClaims{
		UserID: "user-1",
		Role:   "poster",
	}}

	handler := Authenticator(verifier)(RequireAdmin(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("poster passed an admin check")
		}),
	))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer valid")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}

	verifier.claims.Role = "admin"
	passed := false
	handler = Authenticator(verifier)(RequireAdmin(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
		}),
	))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !passed {
		t.Error("admin blocked by admin check")
	}
}
