package shared

import (
	"tikidan/internal/domain/rbac"
	"tikidan/internal/domain/users"
)

// Profile is a user record together with its resolved access.
type Profile struct {
	users.Employee
	Permissions           []string `json:"permissions"`
	DisplayName           string   `json:"displayName"`
	RoleLabel             string   `json:"roleLabel"`
	UsesCustomPermissions bool     `json:"usesCustomPermissions"`
}

func NewProfile(resolver *rbac.Resolver, emp users.Employee) Profile {
	access := emp.Access()
	registry := resolver.Registry()
	return Profile{
		Employee:              emp,
		Permissions:           resolver.EffectivePermissions(access).List(),
		DisplayName:           registry.DisplayName(emp.Role),
		RoleLabel:             registry.DisplayNameWithDepartment(emp.Role, emp.Department),
		UsesCustomPermissions: rbac.UsesCustomPermissions(access),
	}
}
