package rbac_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tikidan/internal/domain/rbac"
)

func TestEffectivePermissionsFromRole(t *testing.T) {
	resolver := rbac.NewResolver(rbac.Default())

	for _, summary := range rbac.Default().Roles() {
		for _, custom := range [][]string{nil, {}} {
			user := rbac.User{ID: "u1", Role: summary.Key, CustomPermissions: custom}
			got := resolver.EffectivePermissions(user)
			assert.True(t, got.Equal(rbac.Default().Permissions(summary.Key)), "role %s", summary.Key)
		}
	}
}

func TestCustomPermissionsReplaceRoleGrants(t *testing.T) {
	resolver := rbac.NewResolver(rbac.Default())
	custom := []string{"billing", "dashboard", "billing"}

	for _, role := range []string{rbac.RoleUser, rbac.RoleAdmin, "nonexistent_role"} {
		user := rbac.User{ID: "u1", Role: role, CustomPermissions: custom}
		got := resolver.EffectivePermissions(user)
		assert.True(t, got.Equal(rbac.NewPermissionSet(custom...)), "role %s", role)
		assert.Equal(t, 2, got.Len())
	}
}

func TestScenarioAccountsExecutive(t *testing.T) {
	resolver := rbac.NewResolver(rbac.Default())
	user := rbac.User{ID: "u1", Role: rbac.RoleAccountsExecutive}

	assert.True(t, resolver.HasCapability(user, "expenses_settings"))
	assert.False(t, resolver.HasCapability(user, "meetings"))
}

func TestScenarioCustomOverride(t *testing.T) {
	resolver := rbac.NewResolver(rbac.Default())
	user := rbac.User{ID: "u1", Role: rbac.RoleUser, CustomPermissions: []string{"dashboard", "billing"}}

	assert.False(t, rbac.Default().Permissions(rbac.RoleUser).Contains("billing"))
	assert.True(t, resolver.HasCapability(user, "billing"))

	assert.True(t, rbac.Default().Permissions(rbac.RoleUser).Contains("team"))
	assert.False(t, resolver.HasCapability(user, "team"))
}

func TestWildcardGrantsEverything(t *testing.T) {
	reg, err := rbac.NewBuilder().
		Department("", "None").
		Capability("dashboard", "Dashboard").
		Role("root", "Root", "", rbac.LevelSystem, rbac.Wildcard).
		Build()
	require.NoError(t, err)
	resolver := rbac.NewResolver(reg)

	viaRole := rbac.User{ID: "u1", Role: "root"}
	viaCustom := rbac.User{ID: "u2", Role: "ghost", CustomPermissions: []string{rbac.Wildcard}}
	for _, user := range []rbac.User{viaRole, viaCustom} {
		for _, capability := range []string{"*", "dashboard", "billing", "anything_at_all", ""} {
			assert.True(t, resolver.HasCapability(user, capability), "user %s capability %q", user.ID, capability)
		}
	}
}

func TestUnknownRoleDegradesAndIsReported(t *testing.T) {
	var reported []rbac.User
	resolver := rbac.NewResolver(rbac.Default(), rbac.WithUnknownRoleHook(func(user rbac.User) {
		reported = append(reported, user)
	}))

	user := rbac.User{ID: "u9", Role: "nonexistent_role"}
	got := resolver.EffectivePermissions(user)
	assert.Equal(t, []string{"dashboard"}, got.List())
	assert.True(t, resolver.HasCapability(user, "dashboard"))
	assert.False(t, resolver.HasCapability(user, "team"))
	require.Len(t, reported, 3)
	assert.Equal(t, "nonexistent_role", reported[0].Role)

	reported = nil
	resolver.EffectivePermissions(rbac.User{ID: "u9", Role: "nonexistent_role", CustomPermissions: []string{"team"}})
	assert.Empty(t, reported, "custom override does not consult the role")
}

func TestEffectivePermissionsIdempotent(t *testing.T) {
	resolver := rbac.NewResolver(rbac.Default())
	user := rbac.User{ID: "u1", Role: rbac.RoleManager}

	first := resolver.EffectivePermissions(user)
	second := resolver.EffectivePermissions(user)
	assert.Equal(t, first.List(), second.List())

	first.List()[0] = "mutated"
	assert.Equal(t, first.List(), resolver.EffectivePermissions(user).List())
}

func TestResolverConcurrentReads(t *testing.T) {
	resolver := rbac.NewResolver(rbac.Default())
	users := []rbac.User{
		{ID: "a", Role: rbac.RoleAdmin},
		{ID: "b", Role: rbac.RoleTester},
		{ID: "c", Role: rbac.RoleUser, CustomPermissions: []string{"billing"}},
	}

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user := users[i%len(users)]
			for j := 0; j < 100; j++ {
				resolver.HasCapability(user, "billing")
				_ = resolver.Registry().Roles()
			}
		}(i)
	}
	wg.Wait()

	assert.True(t, resolver.HasCapability(users[0], "billing"))
	assert.False(t, resolver.HasCapability(users[1], "billing"))
	assert.True(t, resolver.HasCapability(users[2], "billing"))
}
