package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/consultancy-service/internal/events"
	"github.com/spec-kit/consultancy-service/internal/service"
)

// StartNotificationWorker subscribes the notification service to every
// event type it cares about.
func StartNotificationWorker(dispatcher events.Dispatcher, notifications *service.NotificationService, logger *zap.Logger) {
	dispatcher.Subscribe(events.EventBookingCreated, notifications.HandleBookingCreated)
	dispatcher.Subscribe(events.EventBookingStatusChanged, notifications.HandleBookingStatusChanged)
	dispatcher.Subscribe(events.EventBookingAssigned, notifications.HandleBookingAssigned)
	dispatcher.Subscribe(events.EventBookingUpdateAdded, notifications.HandleBookingUpdateAdded)
	dispatcher.Subscribe(events.EventDocumentReviewed, notifications.HandleDocumentReviewed)
	dispatcher.Subscribe(events.EventProfileStatusChanged, notifications.HandleProfileStatusChanged)

	logger.Info("notification worker subscribed to event bus")
}
