package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/consultancy-service/internal/api/dto"
	"github.com/spec-kit/consultancy-service/internal/domain"
	"github.com/spec-kit/consultancy-service/internal/service"
	apperrors "github.com/spec-kit/consultancy-service/pkg/util/errorutil"
	"github.com/spec-kit/consultancy-service/pkg/util/validation"
)

// BookingsHandler manages end-user booking endpoints.
type BookingsHandler struct {
	bookings *service.BookingService
}

// NewBookingsHandler constructs handler.
func NewBookingsHandler(bookingService *service.BookingService) *BookingsHandler {
	return &BookingsHandler{bookings: bookingService}
}

// CreateBooking POST /bookings.
func (h *BookingsHandler) CreateBooking(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if errs := validation.ValidateStruct(req); errs != nil {
		return apperrors.NewValidationError("validation failed", toDetails(errs))
	}

	booking, err := h.bookings.Create(c.Context(), principal.User, service.BookingCreateInput{
		ServiceID:     req.ServiceID,
		RequestedTime: req.RequestedTime,
		Message:       req.Message,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": bookingSummary(booking)})
}

// ListBookings GET /bookings.
func (h *BookingsHandler) ListBookings(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	bookings, err := h.bookings.ListForUser(c.Context(), principal.User, parseBookingQuery(c))
	if err != nil {
		return err
	}
	items := make([]dto.BookingSummary, 0, len(bookings))
	for i := range bookings {
		items = append(items, bookingSummary(&bookings[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetBooking GET /bookings/:id.
func (h *BookingsHandler) GetBooking(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	booking, updates, err := h.bookings.Get(c.Context(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": bookingDetail(booking, updates)})
}

// CancelBooking POST /bookings/:id/cancel.
func (h *BookingsHandler) CancelBooking(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	booking, err := h.bookings.Transition(c.Context(), principal.User, c.Params("id"), domain.BookingStatusCancelled, "")
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": bookingSummary(booking)})
}

// AddUpdate POST /bookings/:id/updates.
func (h *BookingsHandler) AddUpdate(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateBookingUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if errs := validation.ValidateStruct(req); errs != nil {
		return apperrors.NewValidationError("validation failed", toDetails(errs))
	}

	update, err := h.bookings.AddUpdate(c.Context(), principal.User, c.Params("id"), req.Body, req.IsInternal)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": bookingUpdateResponse(update)})
}

func parseBookingQuery(c *fiber.Ctx) service.BookingListFilter {
	filter := service.BookingListFilter{
		Statuses:    parseStatuses(c.Query("status")),
		CreatedFrom: parseTime(c.Query("created_from")),
		CreatedTo:   parseTime(c.Query("created_to")),
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}
