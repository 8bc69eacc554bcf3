package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/consultancy-service/internal/config"
	"github.com/spec-kit/consultancy-service/internal/domain"
	"github.com/spec-kit/consultancy-service/internal/repository"
	apperrors "github.com/spec-kit/consultancy-service/pkg/util/errorutil"
)

type fakeResetRepo struct {
	mu     sync.Mutex
	tokens map[string]*repository.PasswordResetToken
}

func newFakeResetRepo() *fakeResetRepo {
	return &fakeResetRepo{tokens: make(map[string]*repository.PasswordResetToken)}
}

func (r *fakeResetRepo) Create(_ context.Context, token *repository.PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	copied := *token
	r.tokens[token.ID] = &copied
	return nil
}

func (r *fakeResetRepo) GetByToken(_ context.Context, tokenStr string) (*repository.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, token := range r.tokens {
		if token.Token == tokenStr {
			copied := *token
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeResetRepo) MarkUsed(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.tokens[id]
	if !ok || token.UsedAt != nil {
		return pgx.ErrNoRows
	}
	now := time.Now()
	token.UsedAt = &now
	return nil
}

func newAuthTestService() (*AuthService, *fakeUserRepo, *fakeProfileRepo, *fakeResetRepo) {
	users := newFakeUserRepo()
	profiles := newFakeProfileRepo()
	resets := newFakeResetRepo()
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret",
			AccessTokenTTLMinutes:   15,
			PasswordResetTTLMinutes: 30,
			BcryptCost:              4,
		},
	}
	svc := NewAuthService(cfg, AuthDependencies{
		UserRepo:          users,
		ProfileRepo:       profiles,
		PasswordResetRepo: resets,
	})
	return svc, users, profiles, resets
}

func TestRegisterCreatesUserWithProfile(t *testing.T) {
	svc, _, profiles, _ := newAuthTestService()
	ctx := context.Background()

	user, token, _, err := svc.Register(ctx, "Ada", "Ada@Example.com", "correct-horse")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "ada@example.com" {
		t.Errorf("email not normalized: %s", user.Email)
	}
	if user.Role != domain.RoleStudent {
		t.Errorf("role = %s, want STUDENT", user.Role)
	}
	if token == "" {
		t.Error("expected a token")
	}

	profile, err := profiles.GetByUserID(ctx, user.ID)
	if err != nil {
		t.Fatalf("profile missing: %v", err)
	}
	if profile.VerificationStatus != domain.VerificationUnverified {
		t.Errorf("new profile status = %s, want UNVERIFIED", profile.VerificationStatus)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newAuthTestService()
	ctx := context.Background()

	if _, _, _, err := svc.Register(ctx, "Ada", "ada@example.com", "correct-horse"); err != nil {
		t.Fatal(err)
	}
	_, _, _, err := svc.Register(ctx, "Imposter", "ADA@example.com", "other-pass")
	if !apperrors.IsCode(err, "CONFLICT") {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc, users, _, _ := newAuthTestService()
	ctx := context.Background()

	registered, _, _, err := svc.Register(ctx, "Ada", "ada@example.com", "correct-horse")
	if err != nil {
		t.Fatal(err)
	}

	user, token, _, err := svc.Login(ctx, "ada@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.ID != registered.ID || token == "" {
		t.Error("login returned wrong user or empty token")
	}

	if _, _, _, err := svc.Login(ctx, "ada@example.com", "wrong"); !apperrors.IsCode(err, "UNAUTHORIZED") {
		t.Fatalf("expected UNAUTHORIZED for bad password, got %v", err)
	}
	if _, _, _, err := svc.Login(ctx, "nobody@example.com", "x"); !apperrors.IsCode(err, "UNAUTHORIZED") {
		t.Fatalf("expected UNAUTHORIZED for unknown email, got %v", err)
	}

	registered.Status = domain.UserStatusSuspended
	if err := users.Update(ctx, registered); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := svc.Login(ctx, "ada@example.com", "correct-horse"); !apperrors.IsCode(err, "FORBIDDEN") {
		t.Fatalf("expected FORBIDDEN for suspended account, got %v", err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	svc, _, _, _ := newAuthTestService()
	ctx := context.Background()

	if _, _, _, err := svc.Register(ctx, "Ada", "ada@example.com", "correct-horse"); err != nil {
		t.Fatal(err)
	}

	token, err := svc.RequestPasswordReset(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("request reset: %v", err)
	}
	if token == nil {
		t.Fatal("expected a token for a known email")
	}

	// Unknown emails do not error and produce nothing.
	ghost, err := svc.RequestPasswordReset(ctx, "ghost@example.com")
	if err != nil || ghost != nil {
		t.Fatalf("unknown email: token=%v err=%v", ghost, err)
	}

	if err := svc.ConfirmPasswordReset(ctx, token.Token, "new-password-1"); err != nil {
		t.Fatalf("confirm reset: %v", err)
	}
	if _, _, _, err := svc.Login(ctx, "ada@example.com", "new-password-1"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}

	// A consumed token cannot be replayed.
	if err := svc.ConfirmPasswordReset(ctx, token.Token, "again"); !apperrors.IsCode(err, "UNAUTHORIZED") {
		t.Fatalf("expected UNAUTHORIZED for reused token, got %v", err)
	}
}
