package rbac

import (
	"errors"
	"fmt"
)

// Level is a seniority tier used for grouping roles in the admin UI. It never
// implies capabilities.
type Level string

const (
	LevelBasic            Level = "basic"
	LevelStaff            Level = "staff"
	LevelManagement       Level = "management"
	LevelSeniorManagement Level = "senior_management"
	LevelExecutive        Level = "executive"
	LevelSystem           Level = "system"
)

func (l Level) Valid() bool {
	switch l {
	case LevelBasic, LevelStaff, LevelManagement, LevelSeniorManagement, LevelExecutive, LevelSystem:
		return true
	}
	return false
}

type Role struct {
	Key         string
	DisplayName string
	Department  string
	Permissions PermissionSet
	Level       Level
}

type Department struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// Capability is one assignable entry of the permission catalogue.
type Capability struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// RoleSummary is the admin listing view of a role.
type RoleSummary struct {
	Key             string `json:"key"`
	DisplayName     string `json:"displayName"`
	Department      string `json:"department"`
	DepartmentLabel string `json:"departmentLabel"`
	Level           Level  `json:"level"`
}

// RoleRef is the per-department listing view of a role.
type RoleRef struct {
	Key         string `json:"key"`
	DisplayName string `json:"displayName"`
	Level       Level  `json:"level"`
}

// Registry is the read-only role, department and capability table. It is
// never mutated after Build, so concurrent readers need no locking.
type Registry struct {
	roles       map[string]Role
	roleOrder   []string
	departments map[string]string
	deptOrder   []string
	catalogue   []Capability
	capIndex    map[string]struct{}
	fallback    PermissionSet
}

func (r *Registry) Lookup(key string) (Role, bool) {
	role, ok := r.roles[key]
	return role, ok
}

func (r *Registry) HasRole(key string) bool {
	_, ok := r.roles[key]
	return ok
}

// RequireRole is Lookup for callers that must reject unknown keys.
func (r *Registry) RequireRole(key string) (Role, error) {
	role, ok := r.roles[key]
	if !ok {
		return Role{}, UnknownRole(key)
	}
	return role, nil
}

// DisplayName echoes the key back when the role is not registered.
func (r *Registry) DisplayName(key string) string {
	if role, ok := r.roles[key]; ok {
		return role.DisplayName
	}
	return key
}

func (r *Registry) Department(key string) string {
	return r.roles[key].Department
}

// Permissions returns the role's grant set, or {dashboard} for unknown roles.
func (r *Registry) Permissions(key string) PermissionSet {
	if role, ok := r.roles[key]; ok {
		return role.Permissions
	}
	return r.fallback
}

// DisplayNameWithDepartment renders "Role - Department" for a user placed in a
// department, the plain display name otherwise.
func (r *Registry) DisplayNameWithDepartment(key, userDepartment string) string {
	role, ok := r.roles[key]
	if !ok {
		return key
	}
	if userDepartment == "" {
		return role.DisplayName
	}
	return role.DisplayName + " - " + r.DepartmentLabel(userDepartment)
}

// Roles lists every role in registration order.
func (r *Registry) Roles() []RoleSummary {
	out := make([]RoleSummary, 0, len(r.roleOrder))
	for _, key := range r.roleOrder {
		role := r.roles[key]
		out = append(out, RoleSummary{
			Key:             role.Key,
			DisplayName:     role.DisplayName,
			Department:      role.Department,
			DepartmentLabel: r.DepartmentLabel(role.Department),
			Level:           role.Level,
		})
	}
	return out
}

// RolesByDepartment filters by exact department code; "" matches only roles
// without a department.
func (r *Registry) RolesByDepartment(code string) []RoleRef {
	out := make([]RoleRef, 0)
	for _, key := range r.roleOrder {
		role := r.roles[key]
		if role.Department != code {
			continue
		}
		out = append(out, RoleRef{Key: role.Key, DisplayName: role.DisplayName, Level: role.Level})
	}
	return out
}

// DepartmentLabel falls back to the raw code for unregistered departments.
func (r *Registry) DepartmentLabel(code string) string {
	if label, ok := r.departments[code]; ok {
		return label
	}
	return code
}

func (r *Registry) HasDepartment(code string) bool {
	_, ok := r.departments[code]
	return ok
}

func (r *Registry) Departments() []Department {
	out := make([]Department, 0, len(r.deptOrder))
	for _, code := range r.deptOrder {
		out = append(out, Department{Code: code, Label: r.departments[code]})
	}
	return out
}

// Catalogue returns the assignable capabilities in display order.
func (r *Registry) Catalogue() []Capability {
	out := make([]Capability, len(r.catalogue))
	copy(out, r.catalogue)
	return out
}

func (r *Registry) InCatalogue(capability string) bool {
	_, ok := r.capIndex[capability]
	return ok
}

// Builder assembles a Registry. It is not safe for concurrent use; the
// Registry it returns is.
type Builder struct {
	reg  *Registry
	errs []error
}

func NewBuilder() *Builder {
	return &Builder{reg: &Registry{
		roles:       map[string]Role{},
		departments: map[string]string{},
		capIndex:    map[string]struct{}{},
		fallback:    NewPermissionSet(CapabilityDashboard),
	}}
}

func (b *Builder) Department(code, label string) *Builder {
	if _, ok := b.reg.departments[code]; ok {
		b.errs = append(b.errs, fmt.Errorf("department %q registered twice", code))
		return b
	}
	b.reg.departments[code] = label
	b.reg.deptOrder = append(b.reg.deptOrder, code)
	return b
}

func (b *Builder) Capability(value, label string) *Builder {
	switch {
	case value == "" || value == Wildcard:
		b.errs = append(b.errs, fmt.Errorf("capability %q cannot be catalogued", value))
		return b
	case b.reg.InCatalogue(value):
		b.errs = append(b.errs, fmt.Errorf("capability %q catalogued twice", value))
		return b
	}
	b.reg.capIndex[value] = struct{}{}
	b.reg.catalogue = append(b.reg.catalogue, Capability{Value: value, Label: label})
	return b
}

func (b *Builder) Role(key, displayName, department string, level Level, permissions ...string) *Builder {
	if key == "" {
		b.errs = append(b.errs, errors.New("role key is required"))
		return b
	}
	if _, ok := b.reg.roles[key]; ok {
		b.errs = append(b.errs, fmt.Errorf("role %q registered twice", key))
		return b
	}
	if !level.Valid() {
		b.errs = append(b.errs, fmt.Errorf("role %q has invalid level %q", key, level))
	}
	b.reg.roles[key] = Role{
		Key:         key,
		DisplayName: displayName,
		Department:  department,
		Permissions: NewPermissionSet(permissions...),
		Level:       level,
	}
	b.reg.roleOrder = append(b.reg.roleOrder, key)
	return b
}

// Build checks cross-table invariants and returns the frozen registry.
func (b *Builder) Build() (*Registry, error) {
	errs := append([]error(nil), b.errs...)
	if _, ok := b.reg.departments[""]; !ok {
		errs = append(errs, errors.New(`department "" must be registered`))
	}
	for _, key := range b.reg.roleOrder {
		role := b.reg.roles[key]
		if !b.reg.HasDepartment(role.Department) {
			errs = append(errs, fmt.Errorf("role %q references unknown department %q", key, role.Department))
		}
		if role.Permissions.IsEmpty() {
			errs = append(errs, fmt.Errorf("role %q grants no capabilities", key))
		}
		for _, capability := range role.Permissions.List() {
			if capability != Wildcard && !b.reg.InCatalogue(capability) {
				errs = append(errs, fmt.Errorf("role %q grants uncatalogued capability %q", key, capability))
			}
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	reg := b.reg
	b.reg = nil
	return reg, nil
}

// MustBuild panics on an invalid table; meant for static initialisation.
func (b *Builder) MustBuild() *Registry {
	reg, err := b.Build()
	if err != nil {
		panic(err)
	}
	return reg
}
