package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/consultancy-service/internal/config"
	"github.com/spec-kit/consultancy-service/internal/events"
)

// NotificationService fans domain events out to delivery channels. Delivery
// is best-effort: failures are logged and never surface to the caller that
// triggered the event.
type NotificationService struct {
	cfg    config.NotificationConfig
	logger *zap.Logger
}

// NewNotificationService constructs the service.
func NewNotificationService(cfg config.NotificationConfig, logger *zap.Logger) *NotificationService {
	return &NotificationService{cfg: cfg, logger: logger}
}

// HandleBookingCreated notifies staff about a new booking request.
func (s *NotificationService) HandleBookingCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.BookingCreatedPayload)
	if !ok {
		s.logger.Warn("unexpected payload for booking_created", zap.String("event_id", event.ID))
		return nil
	}
	s.sendEmail("booking.created",
		zap.String("booking_id", event.SubjectID),
		zap.String("service_id", payload.ServiceID),
		zap.Time("requested_time", payload.RequestedTime),
	)
	s.sendWebhook(event)
	return nil
}

// HandleBookingStatusChanged notifies the booking owner about status moves.
func (s *NotificationService) HandleBookingStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.BookingStatusChangedPayload)
	if !ok {
		s.logger.Warn("unexpected payload for booking_status_changed", zap.String("event_id", event.ID))
		return nil
	}
	s.sendEmail("booking.status_changed",
		zap.String("booking_id", event.SubjectID),
		zap.String("old_status", string(payload.OldStatus)),
		zap.String("new_status", string(payload.NewStatus)),
	)
	s.sendWebhook(event)
	return nil
}

// HandleBookingAssigned notifies the assigned staff member.
func (s *NotificationService) HandleBookingAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.BookingAssignedPayload)
	if !ok {
		s.logger.Warn("unexpected payload for booking_assigned", zap.String("event_id", event.ID))
		return nil
	}
	fields := []zap.Field{zap.String("booking_id", event.SubjectID)}
	if payload.AssignedStaffID != nil {
		fields = append(fields, zap.String("assigned_staff_id", *payload.AssignedStaffID))
	}
	s.sendEmail("booking.assigned", fields...)
	return nil
}

// HandleBookingUpdateAdded notifies the counterparty about a new message.
func (s *NotificationService) HandleBookingUpdateAdded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.BookingUpdateAddedPayload)
	if !ok {
		s.logger.Warn("unexpected payload for booking_update_added", zap.String("event_id", event.ID))
		return nil
	}
	// Internal notes stay within the staff channel.
	if payload.IsInternal {
		return nil
	}
	s.sendEmail("booking.update_added",
		zap.String("booking_id", event.SubjectID),
		zap.String("update_id", payload.UpdateID),
	)
	return nil
}

// HandleDocumentReviewed notifies the document owner about the verdict.
func (s *NotificationService) HandleDocumentReviewed(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.DocumentReviewedPayload)
	if !ok {
		s.logger.Warn("unexpected payload for document_reviewed", zap.String("event_id", event.ID))
		return nil
	}
	s.sendEmail("document.reviewed",
		zap.String("document_id", payload.DocumentID),
		zap.String("document_type", string(payload.DocumentType)),
		zap.String("decision", string(payload.Decision)),
	)
	return nil
}

// HandleProfileStatusChanged notifies the user about verification changes.
func (s *NotificationService) HandleProfileStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ProfileStatusChangedPayload)
	if !ok {
		s.logger.Warn("unexpected payload for profile_status_changed", zap.String("event_id", event.ID))
		return nil
	}
	s.sendEmail("profile.status_changed",
		zap.String("user_id", event.SubjectID),
		zap.String("old_status", string(payload.OldStatus)),
		zap.String("new_status", string(payload.NewStatus)),
	)
	s.sendWebhook(event)
	return nil
}

// sendEmail stands in for the mail provider integration. The structured log
// line carries everything a real template would need.
func (s *NotificationService) sendEmail(template string, fields ...zap.Field) {
	fields = append(fields, zap.String("template", template), zap.String("from", s.cfg.EmailFrom))
	s.logger.Info("notification email queued", fields...)
}

// sendWebhook posts the event to the configured webhook, if any.
func (s *NotificationService) sendWebhook(event events.Event) {
	if s.cfg.WebhookURL == "" {
		return
	}
	s.logger.Info("notification webhook queued",
		zap.String("url", s.cfg.WebhookURL),
		zap.String("event_type", string(event.Type)),
		zap.String("subject_id", event.SubjectID),
	)
}
