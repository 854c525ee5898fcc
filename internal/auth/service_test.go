// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/desieventsleeds/go-backend/internal/core"
)

type fakeTokenStore struct {
	refreshTokens map[string]*RefreshToken
	resetTokens   map[string]*PasswordResetToken
	revokedUsers  map[string]bool
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{
		refreshTokens: map[string]*RefreshToken{},
		resetTokens:   map[string]*PasswordResetToken{},
		revokedUsers:  map[string]bool{},
	}
}

func (s *fakeTokenStore) Create(_ context.Context, token *RefreshToken) error {
	token.CreatedAt = time.Now()
	s.refreshTokens[token.TokenHash] = token
	return nil
}

func (s *fakeTokenStore) FindByHash(
	_ context.Context,
	tokenHash string,
) (*RefreshToken, error) {
	token, ok := s.refreshTokens[tokenHash]
	if !ok {
		return nil, fmt.Errorf("find refresh token: %w", core.ErrNotFound)
	}
	return token, nil
}

func (s *fakeTokenStore) MarkAsUsed(
	_ context.Context,
	id, replacedByID string,
) error {
	for _, token := range s.refreshTokens {
		if token.ID == id {
			token.IsUsed = true
			token.ReplacedByID = &replacedByID
			return nil
		}
	}
	return fmt.Errorf("mark refresh token as used: %w", core.ErrNotFound)
}

func (s *fakeTokenStore) RevokeByID(_ context.Context, id string) error {
	now := time.Now()
	for _, token := range s.refreshTokens {
		if token.ID == id {
			token.RevokedAt = &now
			return nil
		}
	}
	return fmt.Errorf("revoke refresh token: %w", core.ErrNotFound)
}

func (s *fakeTokenStore) RevokeByFamilyID(
	_ context.Context,
	familyID string,
) error {
	now := time.Now()
	for _, token := range s.refreshTokens {
		if token.FamilyID == familyID {
			token.RevokedAt = &now
		}
	}
	return nil
}

func (s *fakeTokenStore) RevokeAllForUser(
	_ context.Context,
	userID string,
) error {
	now := time.Now()
	for _, token := range s.refreshTokens {
		if token.UserID == userID {
			token.RevokedAt = &now
		}
	}
	s.revokedUsers[userID] = true
	return nil
}

func (s *fakeTokenStore) DeleteExpired(_ context.Context) (int64, error) {
	return 0, nil
}

func (s *fakeTokenStore) CreatePasswordReset(
	_ context.Context,
	token *PasswordResetToken,
) error {
	for hash, existing := range s.resetTokens {
		if existing.UserID == token.UserID {
			delete(s.resetTokens, hash)
		}
	}
	token.CreatedAt = time.Now()
	s.resetTokens[token.TokenHash] = token
	return nil
}

func (s *fakeTokenStore) ConsumePasswordReset(
	_ context.Context,
	tokenHash string,
) (*PasswordResetToken, error) {
	token, ok := s.resetTokens[tokenHash]
	if !ok || token.Used || time.Now().After(token.ExpiresAt) {
		return nil, fmt.Errorf("consume reset token: %w", core.ErrTokenInvalid)
	}
	token.Used = true
	return token, nil
}

type fakeUserStore struct {
	usersByID    map[string]*UserInfo
	usersByEmail map[string]*UserInfo
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		usersByID:    map[string]*UserInfo{},
		usersByEmail: map[string]*UserInfo{},
	}
}

func (s *fakeUserStore) add(user *UserInfo) {
	s.usersByID[user.ID] = user
	s.usersByEmail[user.Email] = user
}

func (s *fakeUserStore) GetByEmail(
	_ context.Context,
	email string,
) (*UserInfo, error) {
	user, ok := s.usersByEmail[email]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	return user, nil
}

func (s *fakeUserStore) GetByID(
	_ context.Context,
	id string,
) (*UserInfo, error) {
	user, ok := s.usersByID[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	return user, nil
}

func (s *fakeUserStore) Create(
	_ context.Context,
	email, passwordHash, firstName, lastName string,
) (*UserInfo, error) {
	if _, exists := s.usersByEmail[email]; exists {
		return nil, fmt.Errorf("create user: %w", core.ErrDuplicateKey)
	}

	user := &UserInfo{
		ID:           uuid.New().String(),
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: passwordHash,
		Role:         "poster",
		CreatedAt:    time.Now(),
	}
	s.add(user)
	return user, nil
}

func (s *fakeUserStore) IncrementTokenVersion(
	_ context.Context,
	userID string,
) error {
	user, ok := s.usersByID[userID]
	if !ok {
		return fmt.Errorf("increment token version: %w", core.ErrNotFound)
	}
	user.TokenVersion++
	return nil
}

func (s *fakeUserStore) UpdatePassword(
	_ context.Context,
	userID, passwordHash string,
) error {
	user, ok := s.usersByID[userID]
	if !ok {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}
	user.PasswordHash = passwordHash
	return nil
}

type fakeResetMailer struct {
	sent []string
}

func (m *fakeResetMailer) PasswordReset(to, name, token string) {
	m.sent = append(m.sent, token)
}

func newResetTestService(
	tokens *fakeTokenStore,
	users *fakeUserStore,
	mail *fakeResetMailer,
) *Service {
	return &Service{
		repo:         tokens,
		userProvider: users,
		mailer:       mail,
		resetTTL:     time.Hour,
	}
}

func TestForgotPasswordUnknownEmailIsSilent(t *testing.T) {
	tokens := newFakeTokenStore()
	mail := &fakeResetMailer{}
	svc := newResetTestService(tokens, newFakeUserStore(), mail)

	err := svc.ForgotPassword(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("ForgotPassword() error = %v", err)
	}

	if len(mail.sent) != 0 {
		t.Errorf("mails sent = %d, want 0", len(mail.sent))
	}
	if len(tokens.resetTokens) != 0 {
		t.Errorf("reset tokens stored = %d, want 0", len(tokens.resetTokens))
	}
}

func TestPasswordResetRoundTrip(t *testing.T) {
	tokens := newFakeTokenStore()
	users := newFakeUserStore()
	mail := &fakeResetMailer{}
	svc := newResetTestService(tokens, users, mail)

	hash, err := core.HashPassword("old-password")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	users.add(&UserInfo{
		ID:           "user-1",
		Email:        "poster@example.com",
		FirstName:    "Asha",
		LastName:     "Patel",
		PasswordHash: hash,
	})

	err = svc.ForgotPassword(context.Background(), "poster@example.com")
	if err != nil {
		t.Fatalf("ForgotPassword() error = %v", err)
	}
	if len(mail.sent) != 1 {
		t.Fatalf("mails sent = %d, want 1", len(mail.sent))
	}

	rawToken := mail.sent[0]

	err = svc.ResetPassword(context.Background(), rawToken, "new-password")
	if err != nil {
		t.Fatalf("ResetPassword() error = %v", err)
	}

	valid, err := core.VerifyPassword(
		"new-password",
		users.usersByID["user-1"].PasswordHash,
	)
	if err != nil || !valid {
		t.Errorf("new password verify = (%v, %v), want (true, nil)", valid, err)
	}

	if !tokens.revokedUsers["user-1"] {
		t.Error("reset should revoke every session for the account")
	}
	if users.usersByID["user-1"].TokenVersion != 1 {
		t.Errorf("token version = %d, want 1",
			users.usersByID["user-1"].TokenVersion)
	}
}

func TestPasswordResetTokenIsSingleUse(t *testing.T) {
	tokens := newFakeTokenStore()
	users := newFakeUserStore()
	mail := &fakeResetMailer{}
	svc := newResetTestService(tokens, users, mail)

	users.add(&UserInfo{
		ID:    "user-1",
		Email: "poster@example.com",
	})

	err := svc.ForgotPassword(context.Background(), "poster@example.com")
	if err != nil {
		t.Fatalf("ForgotPassword() error = %v", err)
	}

	rawToken := mail.sent[0]

	if err := svc.ResetPassword(context.Background(), rawToken, "first"); err != nil {
		t.Fatalf("first ResetPassword() error = %v", err)
	}

	err = svc.ResetPassword(context.Background(), rawToken, "second")
	if !errors.Is(err, core.ErrTokenInvalid) {
		t.Errorf("replayed token error = %v, want ErrTokenInvalid", err)
	}
}

func TestNewResetRequestSupersedesOldToken(t *testing.T) {
	tokens := newFakeTokenStore()
	users := newFakeUserStore()
	mail := &fakeResetMailer{}
	svc := newResetTestService(tokens, users, mail)

	users.add(&UserInfo{
		ID:    "user-1",
		Email: "poster@example.com",
	})

	ctx := context.Background()
	if err := svc.ForgotPassword(ctx, "poster@example.com"); err != nil {
		t.Fatalf("ForgotPassword() error = %v", err)
	}
	if err := svc.ForgotPassword(ctx, "poster@example.com"); err != nil {
		t.Fatalf("second ForgotPassword() error = %v", err)
	}

	err := svc.ResetPassword(ctx, mail.sent[0], "irrelevant")
	if !errors.Is(err, core.ErrTokenInvalid) {
		t.Errorf("stale token error = %v, want ErrTokenInvalid", err)
	}

	if err := svc.ResetPassword(ctx, mail.sent[1], "fresh"); err != nil {
		t.Errorf("fresh token error = %v", err)
	}
}
