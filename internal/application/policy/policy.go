// Package policy decides whether a caller may perform an action on a resource.
// Every service operation consults Authorize instead of branching on roles
// itself.
package policy

import (
	"github.com/ototamirci/backend/internal/domain/entities"
	apperrors "github.com/ototamirci/backend/pkg/errors"
)

// Action names an operation guarded by the policy
type Action string

const (
	ActionShopCreate       Action = "shop.create"
	ActionShopUpdate       Action = "shop.update"
	ActionShopAvailability Action = "shop.availability"
	ActionShopDelete       Action = "shop.delete"

	ActionReviewSubmit Action = "review.submit"

	ActionAppointmentCreate       Action = "appointment.create"
	ActionAppointmentRead         Action = "appointment.read"
	ActionAppointmentUpdateStatus Action = "appointment.update_status"
	ActionAppointmentDelete       Action = "appointment.delete"
)

// Resource describes the ownership facts of the target. Unused fields stay empty.
type Resource struct {
	ShopOwnerID       string
	AppointmentUserID string
}

// Authorize returns nil when caller may perform action on res, otherwise a
// forbidden AppError carrying a user-facing message.
func Authorize(caller entities.Identity, action Action, res Resource) error {
	if caller.UserID == "" {
		return apperrors.NewAuthenticationError("user not authenticated")
	}

	switch action {
	case ActionShopCreate:
		if caller.Role != entities.RoleMechanic {
			return apperrors.NewForbiddenError("only mechanics can create shops")
		}
	case ActionShopUpdate, ActionShopAvailability:
		if caller.Role != entities.RoleMechanic || res.ShopOwnerID != caller.UserID {
			return apperrors.NewForbiddenError("you can only update your own shop")
		}
	case ActionShopDelete:
		if caller.Role != entities.RoleMechanic || res.ShopOwnerID != caller.UserID {
			return apperrors.NewForbiddenError("you can only delete your own shop")
		}
	case ActionReviewSubmit:
		if caller.Role != entities.RoleCustomer {
			return apperrors.NewForbiddenError("only customers can leave reviews")
		}
	case ActionAppointmentCreate:
		if caller.Role != entities.RoleCustomer {
			return apperrors.NewForbiddenError("only customers can create appointments")
		}
	case ActionAppointmentRead:
		if !isCreator(caller, res) && !isShopOwner(caller, res) {
			return apperrors.NewForbiddenError("access denied")
		}
	case ActionAppointmentUpdateStatus:
		if !isCreator(caller, res) && !isShopOwner(caller, res) {
			return apperrors.NewForbiddenError("you do not have permission to update this appointment")
		}
	case ActionAppointmentDelete:
		if !isCreator(caller, res) {
			return apperrors.NewForbiddenError("you can only delete your own appointments")
		}
	default:
		return apperrors.NewForbiddenError("unknown action")
	}

	return nil
}

// AuthorizeTransition checks a status change that Authorize already allowed.
// In lenient mode any enumerated status is accepted, matching the booking
// flow clients rely on today. Strict mode enforces the lifecycle graph and
// reserves every move to the shop owner.
func AuthorizeTransition(caller entities.Identity, res Resource, from, to entities.AppointmentStatus, strict bool) error {
	if !to.Valid() {
		return apperrors.NewValidationError("invalid status")
	}
	if !strict {
		return nil
	}
	if !isShopOwner(caller, res) {
		return apperrors.NewForbiddenError("only the shop owner can change appointment status")
	}
	if !CanTransition(from, to) {
		return apperrors.NewValidationError("cannot move appointment from " + string(from) + " to " + string(to))
	}
	return nil
}

// CanTransition reports whether the lifecycle graph allows from → to.
func CanTransition(from, to entities.AppointmentStatus) bool {
	switch from {
	case entities.AppointmentStatusPending:
		return to == entities.AppointmentStatusConfirmed || to == entities.AppointmentStatusRejected
	case entities.AppointmentStatusConfirmed:
		return to == entities.AppointmentStatusCompleted
	}
	return false
}

// IsOwnerSideStatus reports whether to is normally set by the shop owner.
func IsOwnerSideStatus(to entities.AppointmentStatus) bool {
	return to == entities.AppointmentStatusConfirmed ||
		to == entities.AppointmentStatusRejected ||
		to == entities.AppointmentStatusCompleted
}

func isCreator(caller entities.Identity, res Resource) bool {
	return res.AppointmentUserID != "" && res.AppointmentUserID == caller.UserID
}

func isShopOwner(caller entities.Identity, res Resource) bool {
	return res.ShopOwnerID != "" && res.ShopOwnerID == caller.UserID
}
