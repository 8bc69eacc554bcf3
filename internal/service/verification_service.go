package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/consultancy-service/internal/auth"
	"github.com/spec-kit/consultancy-service/internal/domain"
	"github.com/spec-kit/consultancy-service/internal/events"
	"github.com/spec-kit/consultancy-service/internal/repository"
	apperrors "github.com/spec-kit/consultancy-service/pkg/util/errorutil"
)

// ReviewDecision is an admin's verdict on a single document.
type ReviewDecision string

const (
	DecisionApprove ReviewDecision = "APPROVE"
	DecisionReject  ReviewDecision = "REJECT"
)

// IsEligible reports whether a profile passes the verification gate for a
// service. Pure function: no lookups, no mutation.
func IsEligible(profile *domain.UserProfile, svc *domain.Service) bool {
	if svc == nil {
		return false
	}
	if !svc.RequiresVerification {
		return true
	}
	return profile != nil && profile.VerificationStatus == domain.VerificationVerified
}

// ComputeProfileStatus derives the aggregate verification status from a
// profile's documents. Only the newest document of each type counts: a
// rejected upload is superseded by re-submission. The derivation depends on
// nothing but the document set, so reapplying it is idempotent.
func ComputeProfileStatus(docs []domain.Document) domain.VerificationStatus {
	if len(docs) == 0 {
		return domain.VerificationUnverified
	}

	latest := make(map[domain.DocumentType]domain.Document, len(docs))
	for _, doc := range docs {
		current, ok := latest[doc.DocumentType]
		if !ok || doc.CreatedAt.After(current.CreatedAt) {
			latest[doc.DocumentType] = doc
		}
	}

	for _, doc := range latest {
		if doc.Status == domain.DocumentStatusRejected {
			return domain.VerificationRejected
		}
	}

	for _, required := range domain.RequiredDocumentTypes {
		doc, ok := latest[required]
		if !ok || doc.Status != domain.DocumentStatusVerified {
			return domain.VerificationPending
		}
	}
	return domain.VerificationVerified
}

// VerificationService reviews documents and maintains the profile aggregate.
type VerificationService struct {
	documents  repository.DocumentRepository
	profiles   repository.ProfileRepository
	dispatcher events.Dispatcher
}

// VerificationDependencies bundles repositories.
type VerificationDependencies struct {
	DocumentRepo repository.DocumentRepository
	ProfileRepo  repository.ProfileRepository
	Dispatcher   events.Dispatcher
}

// NewVerificationService constructs the service.
func NewVerificationService(deps VerificationDependencies) *VerificationService {
	return &VerificationService{
		documents:  deps.DocumentRepo,
		profiles:   deps.ProfileRepo,
		dispatcher: deps.Dispatcher,
	}
}

// ReviewDocument applies an approve/reject decision and recomputes the
// owning profile's verification status. Applying the same decision twice
// yields the same document and profile state.
func (s *VerificationService) ReviewDocument(ctx context.Context, actor *domain.User, documentID string, decision ReviewDecision, notes string) (*domain.Document, error) {
	if !auth.Can(actor, auth.ActionVerifyDocuments) {
		return nil, apperrors.NewForbidden("document review requires an admin role")
	}

	doc, err := s.documents.GetByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("document", map[string]any{"document_id": documentID})
		}
		return nil, apperrors.MapError(err)
	}

	switch decision {
	case DecisionApprove:
		doc.Status = domain.DocumentStatusVerified
	case DecisionReject:
		doc.Status = domain.DocumentStatusRejected
	default:
		return nil, apperrors.NewValidationError("decision must be APPROVE or REJECT", nil)
	}
	now := time.Now()
	doc.ReviewedBy = &actor.ID
	doc.ReviewedAt = &now
	doc.ReviewNotes = strings.TrimSpace(notes)

	if err := s.documents.UpdateReview(ctx, doc); err != nil {
		return nil, apperrors.MapError(err)
	}

	if err := s.recomputeProfile(ctx, actor, doc.ProfileID); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:      events.EventDocumentReviewed,
		SubjectID: doc.ID,
		Actor:     eventActor(actor),
		Payload: events.DocumentReviewedPayload{
			DocumentID:   doc.ID,
			DocumentType: doc.DocumentType,
			Decision:     doc.Status,
		},
	})
	return doc, nil
}

func (s *VerificationService) recomputeProfile(ctx context.Context, actor *domain.User, profileID string) error {
	profile, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		return apperrors.MapError(err)
	}

	docs, err := s.documents.ListByProfile(ctx, profileID)
	if err != nil {
		return apperrors.MapError(err)
	}

	newStatus := ComputeProfileStatus(docs)
	if newStatus == profile.VerificationStatus {
		return nil
	}

	oldStatus := profile.VerificationStatus
	profile.VerificationStatus = newStatus
	if newStatus == domain.VerificationVerified {
		now := time.Now()
		profile.VerifiedAt = &now
	} else {
		profile.VerifiedAt = nil
	}
	if err := s.profiles.Update(ctx, profile); err != nil {
		return apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventProfileStatusChanged,
		SubjectID: profile.UserID,
		Actor:     eventActor(actor),
		Payload: events.ProfileStatusChangedPayload{
			ProfileID: profile.ID,
			OldStatus: oldStatus,
			NewStatus: newStatus,
		},
	})
	return nil
}

func (s *VerificationService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
