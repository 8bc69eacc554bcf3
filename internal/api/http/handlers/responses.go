package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/consultancy-service/internal/api/dto"
	"github.com/spec-kit/consultancy-service/internal/auth"
	"github.com/spec-kit/consultancy-service/internal/domain"
	apperrors "github.com/spec-kit/consultancy-service/pkg/util/errorutil"
)

func requirePrincipal(c *fiber.Ctx) (*auth.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return principal, nil
}

func parseTime(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}
	return &t
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func parseStatuses(raw string) []domain.BookingStatus {
	if raw == "" {
		return nil
	}
	var statuses []domain.BookingStatus
	for _, part := range strings.Split(raw, ",") {
		statuses = append(statuses, domain.BookingStatus(strings.TrimSpace(part)))
	}
	return statuses
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		Status:    user.Status,
		CreatedAt: user.CreatedAt,
	}
}

func profileResponse(profile *domain.UserProfile, docs []domain.Document) dto.ProfileResponse {
	documents := make([]dto.DocumentResponse, 0, len(docs))
	for i := range docs {
		documents = append(documents, documentResponse(&docs[i]))
	}
	return dto.ProfileResponse{
		ID:                 profile.ID,
		UserID:             profile.UserID,
		PhoneNumber:        profile.PhoneNumber,
		City:               profile.City,
		EducationLevel:     profile.EducationLevel,
		Bio:                profile.Bio,
		VerificationStatus: profile.VerificationStatus,
		VerifiedAt:         profile.VerifiedAt,
		Documents:          documents,
		UpdatedAt:          profile.UpdatedAt,
	}
}

func documentResponse(doc *domain.Document) dto.DocumentResponse {
	return dto.DocumentResponse{
		ID:           doc.ID,
		DocumentType: doc.DocumentType,
		Title:        doc.Title,
		FileName:     doc.FileName,
		MimeType:     doc.MimeType,
		SizeBytes:    doc.SizeBytes,
		Status:       doc.Status,
		ReviewNotes:  doc.ReviewNotes,
		ReviewedAt:   doc.ReviewedAt,
		CreatedAt:    doc.CreatedAt,
	}
}

func bookingSummary(booking *domain.Booking) dto.BookingSummary {
	return dto.BookingSummary{
		ID:              booking.ID,
		ReferenceKey:    booking.ReferenceKey,
		UserID:          booking.UserID,
		ServiceID:       booking.ServiceID,
		WindowID:        booking.WindowID,
		RequestedTime:   booking.RequestedTime,
		Status:          booking.Status,
		AssignedStaffID: booking.AssignedStaffID,
		QuotedPrice:     booking.QuotedPrice,
		CreatedAt:       booking.CreatedAt,
		UpdatedAt:       booking.UpdatedAt,
	}
}

func bookingDetail(booking *domain.Booking, updates []domain.BookingUpdate) dto.BookingDetailResponse {
	items := make([]dto.BookingUpdateResponse, 0, len(updates))
	for i := range updates {
		items = append(items, bookingUpdateResponse(&updates[i]))
	}
	return dto.BookingDetailResponse{
		BookingSummary: bookingSummary(booking),
		Message:        booking.Message,
		ConfirmedAt:    booking.ConfirmedAt,
		CompletedAt:    booking.CompletedAt,
		Updates:        items,
	}
}

func bookingUpdateResponse(update *domain.BookingUpdate) dto.BookingUpdateResponse {
	return dto.BookingUpdateResponse{
		ID:         update.ID,
		AuthorID:   update.AuthorID,
		AuthorRole: update.AuthorRole,
		Body:       update.Body,
		IsInternal: update.IsInternal,
		CreatedAt:  update.CreatedAt,
	}
}

func historyResponses(entries []domain.BookingHistory) []dto.BookingHistoryResponse {
	resp := make([]dto.BookingHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, dto.BookingHistoryResponse{
			ID:          entry.ID,
			ChangeType:  entry.ChangeType,
			ChangedByID: entry.ChangedByID,
			OldValue:    entry.OldValue,
			NewValue:    entry.NewValue,
			CreatedAt:   entry.CreatedAt,
		})
	}
	return resp
}

func categoryResponse(category *domain.ServiceCategory) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		SortOrder:   category.SortOrder,
		IsActive:    category.IsActive,
	}
}

func serviceResponse(svc *domain.Service) dto.ServiceResponse {
	return dto.ServiceResponse{
		ID:                   svc.ID,
		CategoryID:           svc.CategoryID,
		Name:                 svc.Name,
		Description:          svc.Description,
		ShortDescription:     svc.ShortDescription,
		PricingType:          svc.PricingType,
		EffectivePrice:       svc.EffectivePrice(),
		Visibility:           svc.Visibility,
		RequiresVerification: svc.RequiresVerification,
		IsActive:             svc.IsActive,
		IsFeatured:           svc.IsFeatured,
	}
}

func windowResponse(window *domain.AvailabilityWindow) dto.WindowResponse {
	return dto.WindowResponse{
		ID:          window.ID,
		ServiceID:   window.ServiceID,
		StartsAt:    window.StartsAt,
		EndsAt:      window.EndsAt,
		Capacity:    window.Capacity,
		BookedCount: window.BookedCount,
	}
}
