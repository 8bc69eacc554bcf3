package auth

import "github.com/spec-kit/consultancy-service/internal/domain"

// Action names an operation subject to authorization.
type Action string

const (
	ActionManageCatalog     Action = "catalog.manage"
	ActionVerifyDocuments   Action = "documents.verify"
	ActionTransitionBooking Action = "booking.transition"
	ActionAssignBooking     Action = "booking.assign"
	ActionCancelOwnBooking  Action = "booking.cancel_own"
	ActionUploadDocument    Action = "documents.upload"
	ActionCreateBooking     Action = "booking.create"
	ActionPostInternalNote  Action = "booking.internal_note"
)

// staffOnly actions require a SUPPORT or ADMIN role; adminOnly require ADMIN.
var adminOnly = map[Action]struct{}{
	ActionManageCatalog:   {},
	ActionVerifyDocuments: {},
}

var staffOnly = map[Action]struct{}{
	ActionTransitionBooking: {},
	ActionAssignBooking:     {},
	ActionPostInternalNote:  {},
}

// Can is the single capability check for actor/action pairs. Ownership
// checks (a user cancelling their own booking) are layered on top by the
// caller, which knows the resource.
func Can(actor *domain.User, action Action) bool {
	if actor == nil || actor.Status != domain.UserStatusActive {
		return false
	}
	if _, ok := adminOnly[action]; ok {
		return actor.Role == domain.RoleAdmin
	}
	if _, ok := staffOnly[action]; ok {
		return actor.Role.IsStaff()
	}
	switch action {
	case ActionCreateBooking, ActionUploadDocument, ActionCancelOwnBooking:
		return true
	default:
		return false
	}
}
