package policy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ototamirci/backend/internal/application/policy"
	"github.com/ototamirci/backend/internal/domain/entities"
	apperrors "github.com/ototamirci/backend/pkg/errors"
)

var (
	customer = entities.Identity{UserID: "cust-1", Email: "ahmet@example.com", Role: entities.RoleCustomer}
	other    = entities.Identity{UserID: "cust-2", Email: "ayse@example.com", Role: entities.RoleCustomer}
	mechanic = entities.Identity{UserID: "mech-1", Email: "mehmet@sanayi.com", Role: entities.RoleMechanic}
	rival    = entities.Identity{UserID: "mech-2", Email: "usta@sanayi.com", Role: entities.RoleMechanic}
)

func TestAuthorize(t *testing.T) {
	ownShop := policy.Resource{ShopOwnerID: mechanic.UserID}
	booking := policy.Resource{ShopOwnerID: mechanic.UserID, AppointmentUserID: customer.UserID}

	testCases := []struct {
		name    string
		caller  entities.Identity
		action  policy.Action
		res     policy.Resource
		allowed bool
	}{
		{"mechanic creates shop", mechanic, policy.ActionShopCreate, policy.Resource{}, true},
		{"customer cannot create shop", customer, policy.ActionShopCreate, policy.Resource{}, false},
		{"owner updates shop", mechanic, policy.ActionShopUpdate, ownShop, true},
		{"rival cannot update shop", rival, policy.ActionShopUpdate, ownShop, false},
		{"owner toggles availability", mechanic, policy.ActionShopAvailability, ownShop, true},
		{"customer cannot toggle availability", customer, policy.ActionShopAvailability, ownShop, false},
		{"owner deletes shop", mechanic, policy.ActionShopDelete, ownShop, true},
		{"rival cannot delete shop", rival, policy.ActionShopDelete, ownShop, false},
		{"customer reviews", customer, policy.ActionReviewSubmit, ownShop, true},
		{"mechanic cannot review", mechanic, policy.ActionReviewSubmit, ownShop, false},
		{"customer books", customer, policy.ActionAppointmentCreate, ownShop, true},
		{"mechanic cannot book", mechanic, policy.ActionAppointmentCreate, ownShop, false},
		{"creator reads", customer, policy.ActionAppointmentRead, booking, true},
		{"owner reads", mechanic, policy.ActionAppointmentRead, booking, true},
		{"stranger cannot read", other, policy.ActionAppointmentRead, booking, false},
		{"owner updates status", mechanic, policy.ActionAppointmentUpdateStatus, booking, true},
		{"creator updates status", customer, policy.ActionAppointmentUpdateStatus, booking, true},
		{"rival cannot update status", rival, policy.ActionAppointmentUpdateStatus, booking, false},
		{"creator deletes", customer, policy.ActionAppointmentDelete, booking, true},
		{"owner cannot delete", mechanic, policy.ActionAppointmentDelete, booking, false},
		{"stranger cannot delete", other, policy.ActionAppointmentDelete, booking, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := policy.Authorize(tc.caller, tc.action, tc.res)
			if tc.allowed {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeForbidden), "got %v", err)
		})
	}
}

func TestAuthorize_AnonymousCaller(t *testing.T) {
	err := policy.Authorize(entities.Identity{}, policy.ActionReviewSubmit, policy.Resource{})

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeAuthentication))
}

func TestAuthorize_EmptyOwnershipNeverMatches(t *testing.T) {
	err := policy.Authorize(customer, policy.ActionAppointmentDelete, policy.Resource{})

	assert.Error(t, err)
}

func TestAuthorizeTransition_Lenient(t *testing.T) {
	booking := policy.Resource{ShopOwnerID: mechanic.UserID, AppointmentUserID: customer.UserID}

	// A creator may set any enumerated status while strict mode is off.
	assert.NoError(t, policy.AuthorizeTransition(customer, booking, entities.AppointmentStatusPending, entities.AppointmentStatusConfirmed, false))
	assert.NoError(t, policy.AuthorizeTransition(mechanic, booking, entities.AppointmentStatusCompleted, entities.AppointmentStatusPending, false))

	err := policy.AuthorizeTransition(mechanic, booking, entities.AppointmentStatusPending, "cancelled", false)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestAuthorizeTransition_Strict(t *testing.T) {
	booking := policy.Resource{ShopOwnerID: mechanic.UserID, AppointmentUserID: customer.UserID}

	assert.NoError(t, policy.AuthorizeTransition(mechanic, booking, entities.AppointmentStatusPending, entities.AppointmentStatusConfirmed, true))
	assert.NoError(t, policy.AuthorizeTransition(mechanic, booking, entities.AppointmentStatusConfirmed, entities.AppointmentStatusCompleted, true))

	err := policy.AuthorizeTransition(customer, booking, entities.AppointmentStatusPending, entities.AppointmentStatusConfirmed, true)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeForbidden))

	err = policy.AuthorizeTransition(mechanic, booking, entities.AppointmentStatusPending, entities.AppointmentStatusCompleted, true)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	err = policy.AuthorizeTransition(mechanic, booking, entities.AppointmentStatusRejected, entities.AppointmentStatusConfirmed, true)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestCanTransition(t *testing.T) {
	assert.True(t, policy.CanTransition(entities.AppointmentStatusPending, entities.AppointmentStatusRejected))
	assert.False(t, policy.CanTransition(entities.AppointmentStatusCompleted, entities.AppointmentStatusPending))
	assert.False(t, policy.CanTransition(entities.AppointmentStatusConfirmed, entities.AppointmentStatusRejected))
}
