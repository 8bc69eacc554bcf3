package dto

import (
	"time"

	"github.com/spec-kit/consultancy-service/internal/domain"
)

// UpdateProfileRequest payload.
type UpdateProfileRequest struct {
	PhoneNumber    string `json:"phone_number" validate:"max=30"`
	City           string `json:"city" validate:"max=120"`
	EducationLevel string `json:"education_level" validate:"max=120"`
	Bio            string `json:"bio" validate:"max=2000"`
}

// ProfileResponse carries the profile with its documents.
type ProfileResponse struct {
	ID                 string                    `json:"id"`
	UserID             string                    `json:"user_id"`
	PhoneNumber        string                    `json:"phone_number"`
	City               string                    `json:"city"`
	EducationLevel     string                    `json:"education_level"`
	Bio                string                    `json:"bio"`
	VerificationStatus domain.VerificationStatus `json:"verification_status"`
	VerifiedAt         *time.Time                `json:"verified_at,omitempty"`
	Documents          []DocumentResponse        `json:"documents,omitempty"`
	UpdatedAt          time.Time                 `json:"updated_at"`
}

// DocumentResponse metadata for one upload.
type DocumentResponse struct {
	ID           string                `json:"id"`
	DocumentType domain.DocumentType   `json:"document_type"`
	Title        string                `json:"title"`
	FileName     string                `json:"file_name"`
	MimeType     string                `json:"mime_type"`
	SizeBytes    int64                 `json:"size_bytes"`
	Status       domain.DocumentStatus `json:"status"`
	ReviewNotes  string                `json:"review_notes,omitempty"`
	ReviewedAt   *time.Time            `json:"reviewed_at,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
}

// ReviewDocumentRequest payload for the admin review endpoint.
type ReviewDocumentRequest struct {
	Decision string `json:"decision" validate:"required,oneof=APPROVE REJECT"`
	Notes    string `json:"notes" validate:"max=2000"`
}
