package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/consultancy-service/internal/api/dto"
	"github.com/spec-kit/consultancy-service/internal/domain"
	"github.com/spec-kit/consultancy-service/internal/service"
	apperrors "github.com/spec-kit/consultancy-service/pkg/util/errorutil"
	"github.com/spec-kit/consultancy-service/pkg/util/validation"
)

// StaffBookingsHandler manages the staff booking workflow.
type StaffBookingsHandler struct {
	bookings *service.BookingService
}

// NewStaffBookingsHandler constructs handler.
func NewStaffBookingsHandler(bookingService *service.BookingService) *StaffBookingsHandler {
	return &StaffBookingsHandler{bookings: bookingService}
}

// ListBookings GET /staff/bookings.
func (h *StaffBookingsHandler) ListBookings(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	filter := parseBookingQuery(c)
	if serviceID := c.Query("service_id"); serviceID != "" {
		filter.ServiceID = &serviceID
	}
	if staffID := c.Query("assigned_staff_id"); staffID != "" {
		filter.AssignedStaffID = &staffID
	}
	bookings, err := h.bookings.ListForStaff(c.Context(), principal.User, filter)
	if err != nil {
		return err
	}
	items := make([]dto.BookingSummary, 0, len(bookings))
	for i := range bookings {
		items = append(items, bookingSummary(&bookings[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetBooking GET /staff/bookings/:id.
func (h *StaffBookingsHandler) GetBooking(c *fiber.Ctx) error {
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

// Transition POST /staff/bookings/:id/transition.
func (h *StaffBookingsHandler) Transition(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.TransitionBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if errs := validation.ValidateStruct(req); errs != nil {
		return apperrors.NewValidationError("validation failed", toDetails(errs))
	}

	booking, err := h.bookings.Transition(c.Context(), principal.User, c.Params("id"), domain.BookingStatus(req.Status), req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": bookingSummary(booking)})
}

// Assign POST /staff/bookings/:id/assign.
func (h *StaffBookingsHandler) Assign(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.AssignBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if errs := validation.ValidateStruct(req); errs != nil {
		return apperrors.NewValidationError("validation failed", toDetails(errs))
	}

	booking, err := h.bookings.Assign(c.Context(), principal.User, c.Params("id"), req.StaffID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": bookingSummary(booking)})
}

// History GET /staff/bookings/:id/history.
func (h *StaffBookingsHandler) History(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 50)
	entries, err := h.bookings.History(c.Context(), principal.User, c.Params("id"), pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": historyResponses(entries)})
}
