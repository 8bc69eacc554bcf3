package domain

import "time"

// DocumentType enumerates accepted upload categories.
type DocumentType string

const (
	DocumentTypeID                DocumentType = "ID"
	DocumentTypeBirthCert         DocumentType = "BIRTH_CERT"
	DocumentTypeAcademic          DocumentType = "ACADEMIC"
	DocumentTypeRecommendation    DocumentType = "RECOMMENDATION"
	DocumentTypePersonalStatement DocumentType = "PERSONAL_STATEMENT"
	DocumentTypeOther             DocumentType = "OTHER"
)

// RequiredDocumentTypes are the types a profile must have individually
// verified before the profile itself becomes VERIFIED.
var RequiredDocumentTypes = []DocumentType{
	DocumentTypeID,
	DocumentTypeAcademic,
}

// DocumentStatus is the review state of a single upload.
type DocumentStatus string

const (
	DocumentStatusPending  DocumentStatus = "PENDING"
	DocumentStatusVerified DocumentStatus = "VERIFIED"
	DocumentStatusRejected DocumentStatus = "REJECTED"
)

// Document is an uploaded file owned by a profile. Documents are retained
// for audit and never deleted; a rejected document is superseded by a newer
// upload of the same type.
type Document struct {
	ID           string
	ProfileID    string
	DocumentType DocumentType
	Title        string
	StorageKey   string
	FileName     string
	MimeType     string
	SizeBytes    int64
	Status       DocumentStatus
	ReviewedBy   *string
	ReviewNotes  string
	ReviewedAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
