package rbac

import "log/slog"

// User is the slice of a directory record that access decisions depend on.
// ReportsTo is a lookup key only; the reporting graph may contain cycles.
type User struct {
	ID                string
	Role              string
	Department        string
	CustomPermissions []string
	ReportsTo         string
}

// UnknownRoleHook observes users whose stored role is missing from the registry.
type UnknownRoleHook func(user User)

type ResolverOption func(*Resolver)

// WithUnknownRoleHook replaces the default warning log.
func WithUnknownRoleHook(hook UnknownRoleHook) ResolverOption {
	return func(r *Resolver) {
		if hook != nil {
			r.onUnknown = hook
		}
	}
}

// Resolver computes effective permission sets. It holds no per-user state.
type Resolver struct {
	registry  *Registry
	onUnknown UnknownRoleHook
}

func NewResolver(registry *Registry, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		registry: registry,
		onUnknown: func(user User) {
			slog.Warn("user references unregistered role; granting fallback permissions",
				"userId", user.ID,
				"role", user.Role,
				"err", UnknownRole(user.Role),
			)
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) Registry() *Registry {
	return r.registry
}

// EffectivePermissions returns the user's custom permissions when any are set,
// replacing (never merging with) the role's grant set. An empty custom list
// falls through to the role.
func (r *Resolver) EffectivePermissions(user User) PermissionSet {
	if len(user.CustomPermissions) > 0 {
		return NewPermissionSet(user.CustomPermissions...)
	}
	if !r.registry.HasRole(user.Role) {
		r.onUnknown(user)
	}
	return r.registry.Permissions(user.Role)
}

// HasCapability is the single capability check every route-level gate reduces to.
func (r *Resolver) HasCapability(user User, capability string) bool {
	return r.EffectivePermissions(user).Allows(capability)
}

// UsesCustomPermissions reports whether the role grant set is overridden.
func UsesCustomPermissions(user User) bool {
	return len(user.CustomPermissions) > 0
}
