package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/consultancy-service/internal/auth"
	"github.com/spec-kit/consultancy-service/internal/domain"
	"github.com/spec-kit/consultancy-service/internal/events"
	"github.com/spec-kit/consultancy-service/internal/repository"
	apperrors "github.com/spec-kit/consultancy-service/pkg/util/errorutil"
)

// BookingService coordinates booking creation and the status lifecycle.
type BookingService struct {
	bookings   repository.BookingRepository
	windows    repository.WindowRepository
	catalog    repository.CatalogRepository
	profiles   repository.ProfileRepository
	users      repository.UserRepository
	updates    repository.BookingUpdateRepository
	history    repository.BookingHistoryRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// BookingDependencies bundles repositories for the booking service.
type BookingDependencies struct {
	BookingRepo repository.BookingRepository
	WindowRepo  repository.WindowRepository
	CatalogRepo repository.CatalogRepository
	ProfileRepo repository.ProfileRepository
	UserRepo    repository.UserRepository
	UpdateRepo  repository.BookingUpdateRepository
	HistoryRepo repository.BookingHistoryRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// BookingCreateInput describes a booking request.
type BookingCreateInput struct {
	ServiceID     string
	RequestedTime time.Time
	Message       string
}

// BookingListFilter describes listing filters.
type BookingListFilter struct {
	Statuses        []domain.BookingStatus
	ServiceID       *string
	AssignedStaffID *string
	CreatedFrom     *time.Time
	CreatedTo       *time.Time
	Limit           int
	Offset          int
}

// NewBookingService constructs the service.
func NewBookingService(deps BookingDependencies) *BookingService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{
		bookings:   deps.BookingRepo,
		windows:    deps.WindowRepo,
		catalog:    deps.CatalogRepo,
		profiles:   deps.ProfileRepo,
		users:      deps.UserRepo,
		updates:    deps.UpdateRepo,
		history:    deps.HistoryRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Create validates a booking request against the catalog, the verification
// gate and window capacity, then creates a PENDING booking. The capacity
// check and the insert share one transaction inside CreateReserved, so
// concurrent requests can never overbook a window. A booking rejected
// earlier is re-requested through Create again; REJECTED is terminal.
func (s *BookingService) Create(ctx context.Context, actor *domain.User, input BookingCreateInput) (*domain.Booking, error) {
	if !auth.Can(actor, auth.ActionCreateBooking) {
		return nil, apperrors.NewForbidden("booking not permitted")
	}

	svc, err := s.catalog.GetServiceByID(ctx, input.ServiceID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("service", map[string]any{"service_id": input.ServiceID})
		}
		return nil, apperrors.MapError(err)
	}
	if !svc.IsActive {
		return nil, apperrors.NewServiceUnavailable("service is not active", map[string]any{"service_id": svc.ID})
	}
	if !svc.VisibleTo(actor.Role) {
		return nil, apperrors.NewServiceUnavailable("service is not available to this account", map[string]any{"service_id": svc.ID})
	}

	if svc.RequiresVerification {
		profile, err := s.profiles.GetByUserID(ctx, actor.ID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.MapError(err)
		}
		if !IsEligible(profile, svc) {
			return nil, apperrors.NewVerificationRequired(map[string]any{"service_id": svc.ID})
		}
	}

	window, err := s.windows.FindContaining(ctx, svc.ID, input.RequestedTime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewCapacityExceeded(map[string]any{
				"service_id": svc.ID,
				"reason":     "no availability window covers the requested time",
			})
		}
		return nil, apperrors.MapError(err)
	}

	price := svc.EffectivePrice()
	booking := &domain.Booking{
		ReferenceKey:  generateBookingKey(),
		UserID:        actor.ID,
		ServiceID:     svc.ID,
		WindowID:      window.ID,
		RequestedTime: input.RequestedTime,
		Message:       strings.TrimSpace(input.Message),
		Status:        domain.BookingStatusPending,
		QuotedPrice:   &price,
	}

	if err := s.bookings.CreateReserved(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrWindowFull) {
			return nil, apperrors.NewCapacityExceeded(map[string]any{"window_id": window.ID})
		}
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventBookingCreated,
		SubjectID: booking.ID,
		Actor:     eventActor(actor),
		Payload: events.BookingCreatedPayload{
			ServiceID:     booking.ServiceID,
			WindowID:      booking.WindowID,
			RequestedTime: booking.RequestedTime,
			QuotedPrice:   booking.QuotedPrice,
		},
	})
	return booking, nil
}

// Transition moves a booking along the status graph. Staff may take any
// edge; the owning user may only cancel. Terminal statuses admit nothing.
func (s *BookingService) Transition(ctx context.Context, actor *domain.User, bookingID string, newStatus domain.BookingStatus, comment string) (*domain.Booking, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeTransition(actor, booking, newStatus); err != nil {
		return nil, err
	}

	if booking.Status.IsTerminal() {
		return nil, apperrors.NewTerminalState(string(booking.Status))
	}
	if !booking.Status.CanTransitionTo(newStatus) {
		return nil, apperrors.NewInvalidTransition(string(booking.Status), string(newStatus))
	}

	oldStatus := booking.Status
	now := time.Now()
	switch newStatus {
	case domain.BookingStatusConfirmed:
		booking.ConfirmedAt = &now
	case domain.BookingStatusCompleted:
		booking.CompletedAt = &now
	}
	booking.Status = newStatus

	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, apperrors.MapError(err)
	}

	// The status change is committed. Slot release and the audit entry are
	// best-effort from here: failing them must not report a transition that
	// already happened as failed.
	if newStatus == domain.BookingStatusCancelled || newStatus == domain.BookingStatusRejected {
		if err := s.windows.Release(ctx, booking.WindowID); err != nil {
			s.logger.Warn("failed to release window slot",
				zap.String("booking_id", booking.ID),
				zap.String("window_id", booking.WindowID),
				zap.Error(err))
		}
	}

	if err := s.recordStatusChange(ctx, actor, booking.ID, oldStatus, newStatus, comment); err != nil {
		s.logger.Warn("failed to record status change",
			zap.String("booking_id", booking.ID),
			zap.Error(err))
	}
	s.publishEvent(ctx, events.Event{
		Type:      events.EventBookingStatusChanged,
		SubjectID: booking.ID,
		Actor:     eventActor(actor),
		Payload: events.BookingStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
			Comment:   comment,
		},
	})
	return booking, nil
}

// Assign sets the staff member working a booking.
func (s *BookingService) Assign(ctx context.Context, actor *domain.User, bookingID, staffID string) (*domain.Booking, error) {
	if !auth.Can(actor, auth.ActionAssignBooking) {
		return nil, apperrors.NewForbidden("assignment requires a staff role")
	}

	assignee, err := s.users.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("staff user", map[string]any{"staff_id": staffID})
		}
		return nil, apperrors.MapError(err)
	}
	if !assignee.Role.IsStaff() {
		return nil, apperrors.NewConflict("assignee is not staff", map[string]any{"staff_id": staffID})
	}
	if assignee.Status != domain.UserStatusActive {
		return nil, apperrors.NewConflict("assignee suspended", map[string]any{"staff_id": staffID})
	}

	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status.IsTerminal() {
		return nil, apperrors.NewTerminalState(string(booking.Status))
	}

	oldAssignee := booking.AssignedStaffID
	booking.AssignedStaffID = &assignee.ID
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.recordAssigneeChange(ctx, actor, booking.ID, oldAssignee, booking.AssignedStaffID); err != nil {
		s.logger.Warn("failed to record assignee change",
			zap.String("booking_id", booking.ID),
			zap.Error(err))
	}
	s.publishEvent(ctx, events.Event{
		Type:      events.EventBookingAssigned,
		SubjectID: booking.ID,
		Actor:     eventActor(actor),
		Payload: events.BookingAssignedPayload{
			AssignedStaffID: booking.AssignedStaffID,
		},
	})
	return booking, nil
}

// AddUpdate appends a thread entry. Owners may post public updates; staff
// may also post internal notes invisible to the owner.
func (s *BookingService) AddUpdate(ctx context.Context, actor *domain.User, bookingID, body string, internal bool) (*domain.BookingUpdate, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	isOwner := booking.UserID == actor.ID
	isStaff := actor.Role.IsStaff()
	if !isOwner && !isStaff {
		return nil, apperrors.NewForbidden("access denied")
	}
	if internal && !auth.Can(actor, auth.ActionPostInternalNote) {
		return nil, apperrors.NewForbidden("internal notes require a staff role")
	}

	update := &domain.BookingUpdate{
		BookingID:  booking.ID,
		AuthorID:   actor.ID,
		AuthorRole: actor.Role,
		Body:       strings.TrimSpace(body),
		IsInternal: internal,
	}
	if err := s.updates.Create(ctx, update); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:      events.EventBookingUpdateAdded,
		SubjectID: booking.ID,
		Actor:     eventActor(actor),
		Payload: events.BookingUpdateAddedPayload{
			UpdateID:    update.ID,
			IsInternal:  update.IsInternal,
			BodyPreview: stringPreview(update.Body, 120),
		},
	})
	return update, nil
}

// ListForUser returns the actor's own bookings.
func (s *BookingService) ListForUser(ctx context.Context, actor *domain.User, filter BookingListFilter) ([]domain.Booking, error) {
	repoFilter := repository.BookingFilter{
		UserID:      &actor.ID,
		Statuses:    filter.Statuses,
		CreatedFrom: filter.CreatedFrom,
		CreatedTo:   filter.CreatedTo,
		Limit:       filter.Limit,
		Offset:      filter.Offset,
	}
	bookings, err := s.bookings.ListWithFilter(ctx, repoFilter)
	return bookings, apperrors.MapError(err)
}

// ListForStaff returns bookings across users for the admin surface.
func (s *BookingService) ListForStaff(ctx context.Context, actor *domain.User, filter BookingListFilter) ([]domain.Booking, error) {
	if !actor.Role.IsStaff() {
		return nil, apperrors.NewForbidden("staff role required")
	}
	repoFilter := repository.BookingFilter{
		ServiceID:       filter.ServiceID,
		AssignedStaffID: filter.AssignedStaffID,
		Statuses:        filter.Statuses,
		CreatedFrom:     filter.CreatedFrom,
		CreatedTo:       filter.CreatedTo,
		Limit:           filter.Limit,
		Offset:          filter.Offset,
	}
	bookings, err := s.bookings.ListWithFilter(ctx, repoFilter)
	return bookings, apperrors.MapError(err)
}

// Get fetches a booking with its visible thread for the actor.
func (s *BookingService) Get(ctx context.Context, actor *domain.User, bookingID string) (*domain.Booking, []domain.BookingUpdate, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	isOwner := booking.UserID == actor.ID
	if !isOwner && !actor.Role.IsStaff() {
		return nil, nil, apperrors.NewForbidden("access denied")
	}

	updates, err := s.updates.ListByBooking(ctx, booking.ID)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	if !actor.Role.IsStaff() {
		visible := make([]domain.BookingUpdate, 0, len(updates))
		for _, update := range updates {
			if update.IsInternal {
				continue
			}
			visible = append(visible, update)
		}
		updates = visible
	}
	return booking, updates, nil
}

// History returns audit entries for staff.
func (s *BookingService) History(ctx context.Context, actor *domain.User, bookingID string, limit, offset int) ([]domain.BookingHistory, error) {
	if !actor.Role.IsStaff() {
		return nil, apperrors.NewForbidden("staff role required")
	}
	if _, err := s.getBooking(ctx, bookingID); err != nil {
		return nil, err
	}
	entries, err := s.history.ListByBooking(ctx, bookingID, limit, offset)
	return entries, apperrors.MapError(err)
}

func (s *BookingService) authorizeTransition(actor *domain.User, booking *domain.Booking, newStatus domain.BookingStatus) error {
	if auth.Can(actor, auth.ActionTransitionBooking) {
		return nil
	}
	if booking.UserID == actor.ID && newStatus == domain.BookingStatusCancelled && auth.Can(actor, auth.ActionCancelOwnBooking) {
		return nil
	}
	return apperrors.NewForbidden("transition not permitted for this account")
}

func (s *BookingService) getBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("booking", map[string]any{"booking_id": bookingID})
		}
		return nil, apperrors.MapError(err)
	}
	return booking, nil
}

func (s *BookingService) recordStatusChange(ctx context.Context, actor *domain.User, bookingID string, oldStatus, newStatus domain.BookingStatus, comment string) error {
	if s.history == nil {
		return nil
	}
	return s.history.Create(ctx, &domain.BookingHistory{
		BookingID:   bookingID,
		ChangedByID: &actor.ID,
		ChangeType:  domain.ChangeTypeStatus,
		OldValue: map[string]any{
			"status": oldStatus,
		},
		NewValue: map[string]any{
			"status":  newStatus,
			"comment": comment,
		},
	})
}

func (s *BookingService) recordAssigneeChange(ctx context.Context, actor *domain.User, bookingID string, oldAssignee, newAssignee *string) error {
	if s.history == nil {
		return nil
	}
	return s.history.Create(ctx, &domain.BookingHistory{
		BookingID:   bookingID,
		ChangedByID: &actor.ID,
		ChangeType:  domain.ChangeTypeAssignee,
		OldValue: map[string]any{
			"assigned_staff_id": oldAssignee,
		},
		NewValue: map[string]any{
			"assigned_staff_id": newAssignee,
		},
	})
}

func (s *BookingService) publishEvent(ctx context.Context, event events.Event) {
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

func eventActor(actor *domain.User) events.Actor {
	return events.Actor{
		UserID: actor.ID,
		Role:   actor.Role,
	}
}

func generateBookingKey() string {
	return "BKG-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
