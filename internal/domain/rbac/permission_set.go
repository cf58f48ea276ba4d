package rbac

// Wildcard grants every capability to whoever holds it.
const Wildcard = "*"

// CapabilityDashboard is the only capability granted to unregistered roles.
const CapabilityDashboard = "dashboard"

// PermissionSet is an immutable set of capability identifiers that remembers
// first-insertion order for presentation.
type PermissionSet struct {
	items []string
	index map[string]struct{}
}

// NewPermissionSet builds a set, dropping duplicates and empty identifiers.
func NewPermissionSet(capabilities ...string) PermissionSet {
	set := PermissionSet{
		items: make([]string, 0, len(capabilities)),
		index: make(map[string]struct{}, len(capabilities)),
	}
	for _, capability := range capabilities {
		if capability == "" {
			continue
		}
		if _, ok := set.index[capability]; ok {
			continue
		}
		set.index[capability] = struct{}{}
		set.items = append(set.items, capability)
	}
	return set
}

// Contains reports literal membership; it does not expand the wildcard.
func (s PermissionSet) Contains(capability string) bool {
	_, ok := s.index[capability]
	return ok
}

// Allows reports membership, treating the wildcard as granting everything.
func (s PermissionSet) Allows(capability string) bool {
	return s.Contains(Wildcard) || s.Contains(capability)
}

func (s PermissionSet) Len() int {
	return len(s.items)
}

func (s PermissionSet) IsEmpty() bool {
	return len(s.items) == 0
}

// List returns a copy of the members in insertion order.
func (s PermissionSet) List() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// Equal compares membership only.
func (s PermissionSet) Equal(other PermissionSet) bool {
	if len(s.items) != len(other.items) {
		return false
	}
	for _, item := range s.items {
		if !other.Contains(item) {
			return false
		}
	}
	return true
}
