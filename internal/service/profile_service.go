package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/consultancy-service/internal/auth"
	"github.com/spec-kit/consultancy-service/internal/domain"
	"github.com/spec-kit/consultancy-service/internal/repository"
	"github.com/spec-kit/consultancy-service/internal/storage"
	apperrors "github.com/spec-kit/consultancy-service/pkg/util/errorutil"
)

// allowedDocumentMimeTypes restricts uploads to reviewable formats.
var allowedDocumentMimeTypes = map[string]struct{}{
	"application/pdf": {},
	"image/jpeg":      {},
	"image/png":       {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
}

const maxDocumentSizeBytes = 5 << 20

// ProfileService manages profiles and document uploads.
type ProfileService struct {
	profiles  repository.ProfileRepository
	documents repository.DocumentRepository
	store     storage.DocumentStore
}

// NewProfileService constructs the service.
func NewProfileService(profiles repository.ProfileRepository, documents repository.DocumentRepository, store storage.DocumentStore) *ProfileService {
	return &ProfileService{profiles: profiles, documents: documents, store: store}
}

// DocumentUploadInput describes an upload request.
type DocumentUploadInput struct {
	DocumentType domain.DocumentType
	Title        string
	FileName     string
	MimeType     string
	SizeBytes    int64
	Content      io.Reader
}

// GetProfile returns the actor's profile with documents.
func (s *ProfileService) GetProfile(ctx context.Context, actor *domain.User) (*domain.UserProfile, []domain.Document, error) {
	profile, err := s.profileFor(ctx, actor.ID)
	if err != nil {
		return nil, nil, err
	}
	docs, err := s.documents.ListByProfile(ctx, profile.ID)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return profile, docs, nil
}

// UpdateProfile edits contact fields. Verification state is never writable
// here; it is derived from document review only.
func (s *ProfileService) UpdateProfile(ctx context.Context, actor *domain.User, phone, city, educationLevel, bio string) (*domain.UserProfile, error) {
	profile, err := s.profileFor(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	profile.PhoneNumber = strings.TrimSpace(phone)
	profile.City = strings.TrimSpace(city)
	profile.EducationLevel = strings.TrimSpace(educationLevel)
	profile.Bio = strings.TrimSpace(bio)
	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, apperrors.MapError(err)
	}
	return profile, nil
}

// UploadDocument stores the file and records a PENDING document. A profile
// sitting at UNVERIFIED or REJECTED moves back to PENDING so admins pick it
// up for review again.
func (s *ProfileService) UploadDocument(ctx context.Context, actor *domain.User, input DocumentUploadInput) (*domain.Document, error) {
	if !auth.Can(actor, auth.ActionUploadDocument) {
		return nil, apperrors.NewForbidden("upload not permitted")
	}
	if _, ok := allowedDocumentMimeTypes[input.MimeType]; !ok {
		return nil, apperrors.NewValidationError("unsupported file type", map[string]any{"mime_type": input.MimeType})
	}
	if input.SizeBytes <= 0 || input.SizeBytes > maxDocumentSizeBytes {
		return nil, apperrors.NewValidationError("file exceeds the 5MB limit", map[string]any{"size_bytes": input.SizeBytes})
	}

	profile, err := s.profileFor(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("documents/%s/%s-%s", profile.ID, uuid.NewString(), input.FileName)
	storedKey, err := s.store.Store(ctx, key, input.MimeType, input.Content, input.SizeBytes)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	doc := &domain.Document{
		ProfileID:    profile.ID,
		DocumentType: input.DocumentType,
		Title:        strings.TrimSpace(input.Title),
		StorageKey:   storedKey,
		FileName:     input.FileName,
		MimeType:     input.MimeType,
		SizeBytes:    input.SizeBytes,
		Status:       domain.DocumentStatusPending,
	}
	if err := s.documents.Create(ctx, doc); err != nil {
		return nil, apperrors.MapError(err)
	}

	if profile.VerificationStatus == domain.VerificationUnverified || profile.VerificationStatus == domain.VerificationRejected {
		profile.VerificationStatus = domain.VerificationPending
		profile.VerifiedAt = nil
		if err := s.profiles.Update(ctx, profile); err != nil {
			return nil, apperrors.MapError(err)
		}
	}
	return doc, nil
}

// OpenDocument streams a stored document. Owners and staff only.
func (s *ProfileService) OpenDocument(ctx context.Context, actor *domain.User, documentID string) (*domain.Document, io.ReadCloser, error) {
	doc, err := s.documents.GetByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("document", map[string]any{"document_id": documentID})
		}
		return nil, nil, apperrors.MapError(err)
	}

	if !actor.Role.IsStaff() {
		profile, err := s.profileFor(ctx, actor.ID)
		if err != nil {
			return nil, nil, err
		}
		if doc.ProfileID != profile.ID {
			return nil, nil, apperrors.NewForbidden("access denied")
		}
	}

	reader, err := s.store.Retrieve(ctx, doc.StorageKey)
	if err != nil {
		return nil, nil, apperrors.NewInternalError(err)
	}
	return doc, reader, nil
}

// ListPendingDocuments feeds the admin review queue.
func (s *ProfileService) ListPendingDocuments(ctx context.Context, actor *domain.User, limit, offset int) ([]domain.Document, error) {
	if !auth.Can(actor, auth.ActionVerifyDocuments) {
		return nil, apperrors.NewForbidden("admin role required")
	}
	docs, err := s.documents.ListPending(ctx, limit, offset)
	return docs, apperrors.MapError(err)
}

func (s *ProfileService) profileFor(ctx context.Context, userID string) (*domain.UserProfile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("profile", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}
	return profile, nil
}
