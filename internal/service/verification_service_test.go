package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/consultancy-service/internal/domain"
	"github.com/spec-kit/consultancy-service/internal/events"
	apperrors "github.com/spec-kit/consultancy-service/pkg/util/errorutil"
)

func doc(docType domain.DocumentType, status domain.DocumentStatus, createdAt time.Time) domain.Document {
	return domain.Document{DocumentType: docType, Status: status, CreatedAt: createdAt}
}

func TestComputeProfileStatus(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		docs []domain.Document
		want domain.VerificationStatus
	}{
		{
			name: "no documents",
			docs: nil,
			want: domain.VerificationUnverified,
		},
		{
			name: "pending document",
			docs: []domain.Document{doc(domain.DocumentTypeID, domain.DocumentStatusPending, base)},
			want: domain.VerificationPending,
		},
		{
			name: "one required verified, other missing",
			docs: []domain.Document{doc(domain.DocumentTypeID, domain.DocumentStatusVerified, base)},
			want: domain.VerificationPending,
		},
		{
			name: "all required verified",
			docs: []domain.Document{
				doc(domain.DocumentTypeID, domain.DocumentStatusVerified, base),
				doc(domain.DocumentTypeAcademic, domain.DocumentStatusVerified, base),
			},
			want: domain.VerificationVerified,
		},
		{
			name: "latest rejection wins",
			docs: []domain.Document{
				doc(domain.DocumentTypeID, domain.DocumentStatusVerified, base),
				doc(domain.DocumentTypeAcademic, domain.DocumentStatusRejected, base),
			},
			want: domain.VerificationRejected,
		},
		{
			name: "resubmission supersedes rejection",
			docs: []domain.Document{
				doc(domain.DocumentTypeID, domain.DocumentStatusVerified, base),
				doc(domain.DocumentTypeAcademic, domain.DocumentStatusRejected, base),
				doc(domain.DocumentTypeAcademic, domain.DocumentStatusPending, base.Add(time.Hour)),
			},
			want: domain.VerificationPending,
		},
		{
			name: "resubmission verified completes profile",
			docs: []domain.Document{
				doc(domain.DocumentTypeID, domain.DocumentStatusVerified, base),
				doc(domain.DocumentTypeAcademic, domain.DocumentStatusRejected, base),
				doc(domain.DocumentTypeAcademic, domain.DocumentStatusVerified, base.Add(time.Hour)),
			},
			want: domain.VerificationVerified,
		},
		{
			name: "optional rejected document still rejects",
			docs: []domain.Document{
				doc(domain.DocumentTypeID, domain.DocumentStatusVerified, base),
				doc(domain.DocumentTypeAcademic, domain.DocumentStatusVerified, base),
				doc(domain.DocumentTypeRecommendation, domain.DocumentStatusRejected, base),
			},
			want: domain.VerificationRejected,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeProfileStatus(tc.docs)
			if got != tc.want {
				t.Errorf("ComputeProfileStatus = %s, want %s", got, tc.want)
			}
			// Re-derivation from the same documents must not drift.
			if again := ComputeProfileStatus(tc.docs); again != got {
				t.Errorf("recompute = %s, first = %s", again, got)
			}
		})
	}
}

func TestIsEligible(t *testing.T) {
	open := &domain.Service{RequiresVerification: false}
	gated := &domain.Service{RequiresVerification: true}
	verified := &domain.UserProfile{VerificationStatus: domain.VerificationVerified}
	pending := &domain.UserProfile{VerificationStatus: domain.VerificationPending}

	if !IsEligible(nil, open) {
		t.Error("open service must not require a profile")
	}
	if !IsEligible(verified, gated) {
		t.Error("verified profile must pass the gate")
	}
	if IsEligible(pending, gated) {
		t.Error("pending profile must not pass the gate")
	}
	if IsEligible(nil, gated) {
		t.Error("missing profile must not pass the gate")
	}
	if IsEligible(verified, nil) {
		t.Error("nil service fails closed")
	}
}

type verificationTestEnv struct {
	documents *fakeDocumentRepo
	profiles  *fakeProfileRepo
	service   *VerificationService
	admin     *domain.User
	profile   *domain.UserProfile
}

func newVerificationTestEnv(t *testing.T) *verificationTestEnv {
	t.Helper()
	env := &verificationTestEnv{
		documents: newFakeDocumentRepo(),
		profiles:  newFakeProfileRepo(),
		admin:     &domain.User{ID: "admin", Role: domain.RoleAdmin, Status: domain.UserStatusActive},
	}
	env.profile = &domain.UserProfile{UserID: "student", VerificationStatus: domain.VerificationPending}
	if err := env.profiles.Create(context.Background(), env.profile); err != nil {
		t.Fatal(err)
	}
	env.service = NewVerificationService(VerificationDependencies{
		DocumentRepo: env.documents,
		ProfileRepo:  env.profiles,
		Dispatcher:   events.NewInMemoryDispatcher(zap.NewNop()),
	})
	return env
}

func (env *verificationTestEnv) addDocument(t *testing.T, docType domain.DocumentType, createdAt time.Time) *domain.Document {
	t.Helper()
	document := &domain.Document{
		ProfileID:    env.profile.ID,
		DocumentType: docType,
		Status:       domain.DocumentStatusPending,
		CreatedAt:    createdAt,
	}
	if err := env.documents.Create(context.Background(), document); err != nil {
		t.Fatal(err)
	}
	return document
}

func TestReviewDocumentApprovalFlow(t *testing.T) {
	env := newVerificationTestEnv(t)
	ctx := context.Background()
	base := time.Now()

	idDoc := env.addDocument(t, domain.DocumentTypeID, base)
	academicDoc := env.addDocument(t, domain.DocumentTypeAcademic, base)

	if _, err := env.service.ReviewDocument(ctx, env.admin, idDoc.ID, DecisionApprove, ""); err != nil {
		t.Fatalf("approve id: %v", err)
	}
	profile, err := env.profiles.GetByID(ctx, env.profile.ID)
	if err != nil {
		t.Fatal(err)
	}
	if profile.VerificationStatus != domain.VerificationPending {
		t.Errorf("after one approval status = %s, want PENDING", profile.VerificationStatus)
	}

	if _, err := env.service.ReviewDocument(ctx, env.admin, academicDoc.ID, DecisionApprove, ""); err != nil {
		t.Fatalf("approve academic: %v", err)
	}
	profile, err = env.profiles.GetByID(ctx, env.profile.ID)
	if err != nil {
		t.Fatal(err)
	}
	if profile.VerificationStatus != domain.VerificationVerified {
		t.Errorf("after both approvals status = %s, want VERIFIED", profile.VerificationStatus)
	}
	if profile.VerifiedAt == nil {
		t.Error("VerifiedAt not set")
	}
}

func TestReviewDocumentIdempotent(t *testing.T) {
	env := newVerificationTestEnv(t)
	ctx := context.Background()

	document := env.addDocument(t, domain.DocumentTypeID, time.Now())

	first, err := env.service.ReviewDocument(ctx, env.admin, document.ID, DecisionReject, "unreadable scan")
	if err != nil {
		t.Fatalf("first review: %v", err)
	}
	second, err := env.service.ReviewDocument(ctx, env.admin, document.ID, DecisionReject, "unreadable scan")
	if err != nil {
		t.Fatalf("second review: %v", err)
	}
	if first.Status != second.Status {
		t.Errorf("statuses differ across identical reviews: %s vs %s", first.Status, second.Status)
	}

	profile, err := env.profiles.GetByID(ctx, env.profile.ID)
	if err != nil {
		t.Fatal(err)
	}
	if profile.VerificationStatus != domain.VerificationRejected {
		t.Errorf("profile status = %s, want REJECTED", profile.VerificationStatus)
	}
}

func TestReviewDocumentRequiresAdmin(t *testing.T) {
	env := newVerificationTestEnv(t)
	document := env.addDocument(t, domain.DocumentTypeID, time.Now())

	support := &domain.User{ID: "support", Role: domain.RoleSupport, Status: domain.UserStatusActive}
	_, err := env.service.ReviewDocument(context.Background(), support, document.ID, DecisionApprove, "")
	if !apperrors.IsCode(err, "FORBIDDEN") {
		t.Fatalf("expected FORBIDDEN for support reviewer, got %v", err)
	}
}

func TestReviewDocumentInvalidDecision(t *testing.T) {
	env := newVerificationTestEnv(t)
	document := env.addDocument(t, domain.DocumentTypeID, time.Now())

	_, err := env.service.ReviewDocument(context.Background(), env.admin, document.ID, ReviewDecision("MAYBE"), "")
	if !apperrors.IsCode(err, "VALIDATION_FAILED") {
		t.Fatalf("expected VALIDATION_FAILED, got %v", err)
	}
}
