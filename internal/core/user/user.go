package user

import "fmt"

// PermissionAdmin grants every action on every resource.
const PermissionAdmin = "admin"

const (
	ActionAdd    = "add"
	ActionChange = "change"
	ActionDelete = "delete"
)

const (
	ResourceProduct  = "product"
	ResourceCategory = "category"
	ResourceSupplier = "supplier"
)

// Actor is the authenticated user passed explicitly into every operation.
type Actor struct {
	ID          int64    `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	IsStaff     bool     `json:"is_staff"`
	Permissions []string `json:"permissions,omitempty"`
}

func PermissionName(action, resource string) string {
	return fmt.Sprintf("%s_%s", action, resource)
}

func (a *Actor) HasPermission(permission string) bool {
	if a == nil {
		return false
	}
	for _, p := range a.Permissions {
		if p == permission || p == PermissionAdmin {
			return true
		}
	}
	return false
}

// Can reports has_permission(actor, action, resource).
func (a *Actor) Can(action, resource string) bool {
	return a.HasPermission(PermissionName(action, resource))
}

func (a *Actor) Staff() bool {
	return a != nil && a.IsStaff
}

// CanManage is the gate for every catalog and supplier mutation.
func (a *Actor) CanManage(action, resource string) bool {
	return a.Staff() && a.Can(action, resource)
}
