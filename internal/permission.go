package internal

import (
	"fmt"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/user"
)

var resourcePlural = map[string]string{
	user.ResourceProduct:  "products",
	user.ResourceCategory: "categories",
	user.ResourceSupplier: "suppliers",
}

// RequireStaff gates staff-only reads such as reports, exports and the manual sweep.
func RequireStaff(actor *user.Actor) error {
	if actor == nil {
		return ErrAuthenticationRequired
	}
	if !actor.Staff() {
		return ErrStaffRequired
	}
	return nil
}

// Authorize gates mutations: the actor must be staff and hold <action>_<resource>.
func Authorize(actor *user.Actor, action, resource string) error {
	if err := RequireStaff(actor); err != nil {
		return err
	}
	if !actor.Can(action, resource) {
		plural, ok := resourcePlural[resource]
		if !ok {
			plural = resource
		}
		return NewPermissionDenied(fmt.Sprintf("You don't have permission to %s %s.", action, plural))
	}
	return nil
}
