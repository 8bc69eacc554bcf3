package domain

import "time"

// VerificationStatus is the aggregate verification state of a profile,
// derived from its documents.
type VerificationStatus string

const (
	VerificationUnverified VerificationStatus = "UNVERIFIED"
	VerificationPending    VerificationStatus = "PENDING"
	VerificationVerified   VerificationStatus = "VERIFIED"
	VerificationRejected   VerificationStatus = "REJECTED"
)

// UserProfile extends a User with contact details and the verification
// state that gates verification-required services.
type UserProfile struct {
	ID                 string
	UserID             string
	PhoneNumber        string
	City               string
	EducationLevel     string
	Bio                string
	VerificationStatus VerificationStatus
	VerifiedAt         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
