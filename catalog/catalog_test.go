package catalog_test

import (
	"errors"
	"testing"

	"github.com/xraph/muster/catalog"
	"github.com/xraph/muster/rank"
)

func TestCatalogIndexConsistent(t *testing.T) {
	seen := map[string]bool{}
	for _, p := range catalog.All() {
		if p.ID == "" {
			t.Fatal("catalog entry with empty id")
		}
		if seen[p.ID] {
			t.Fatalf("duplicate catalog id %q", p.ID)
		}
		seen[p.ID] = true

		got, ok := catalog.Get(p.ID)
		if !ok {
			t.Fatalf("Get(%q) missed a cataloged id", p.ID)
		}
		if got.Category != p.Category {
			t.Errorf("Get(%q) category mismatch", p.ID)
		}
	}

	if _, ok := catalog.Get("nonexistent_permission"); ok {
		t.Error("Get returned a permission for an unknown id")
	}
}

func TestDefaultGrantsMonotone(t *testing.T) {
	// Every grant held by a role must also be held by every higher role.
	roles := rank.All()
	for i := 1; i < len(roles); i++ {
		higher, lower := roles[i-1], roles[i]
		for _, pid := range catalog.Grants(lower) {
			if !catalog.GrantedByDefault(higher, pid) {
				t.Errorf("%s holds %q but higher role %s does not", lower, pid, higher)
			}
		}
	}
}

func TestAdminHoldsFullCatalog(t *testing.T) {
	if got, want := len(catalog.Grants(rank.RoleAdmin)), len(catalog.All()); got != want {
		t.Errorf("admin holds %d of %d permissions", got, want)
	}
}

func TestPendingHoldsNothing(t *testing.T) {
	if grants := catalog.Grants(rank.RolePending); len(grants) != 0 {
		t.Errorf("pending holds %v, want none", grants)
	}
}

func TestResolveDefaults(t *testing.T) {
	tests := []struct {
		role rank.Role
		perm string
		want bool
	}{
		{rank.RoleAdmin, catalog.GuildDelete, true},
		{rank.RoleOfficer, catalog.MembersApprove, true},
		{rank.RoleOfficer, catalog.GuildDelete, false},
		{rank.RoleMember, catalog.EventsSignup, true},
		{rank.RoleMember, catalog.EventsCreate, false},
		{rank.RoleTrial, catalog.SiegeSignup, true},
		{rank.RoleTrial, catalog.ShipsCreate, false},
		{rank.RolePending, catalog.EventsSignup, false},
	}

	for _, tt := range tests {
		if got := catalog.Resolve(tt.role, tt.perm, nil); got != tt.want {
			t.Errorf("Resolve(%s, %s, nil) = %v, want %v", tt.role, tt.perm, got, tt.want)
		}
	}
}

func TestResolveOverrideWins(t *testing.T) {
	grant := catalog.Overrides{catalog.EventsCreate: true}
	revoke := catalog.Overrides{catalog.EventsSignup: false}

	if !catalog.Resolve(rank.RoleMember, catalog.EventsCreate, grant) {
		t.Error("granting override should win over default deny")
	}
	if catalog.Resolve(rank.RoleMember, catalog.EventsSignup, revoke) {
		t.Error("revoking override should win over default grant")
	}

	// Absent keys fall through to defaults.
	if !catalog.Resolve(rank.RoleMember, catalog.EventsSignup, grant) {
		t.Error("untouched permission should keep its default")
	}
}

func TestResolveUnknownPermissionFailsClosed(t *testing.T) {
	if catalog.Resolve(rank.RoleAdmin, "no_such_permission", nil) {
		t.Error("unknown permission resolved true for admin")
	}

	// Even an explicit granting override cannot conjure an unknown id.
	ov := catalog.Overrides{"no_such_permission": true}
	if catalog.Resolve(rank.RoleAdmin, "no_such_permission", ov) {
		t.Error("unknown permission resolved true through an override")
	}
}

func TestResolveUnknownRoleFailsClosed(t *testing.T) {
	if catalog.Resolve(rank.Role("warlord"), catalog.EventsSignup, nil) {
		t.Error("unknown role resolved true")
	}
}

func TestResolveAll(t *testing.T) {
	perms := []string{catalog.EventsSignup, catalog.SiegeSignup}

	if !catalog.ResolveAll(rank.RoleMember, perms, nil) {
		t.Error("member should hold both signup permissions")
	}
	if catalog.ResolveAll(rank.RolePending, perms, nil) {
		t.Error("pending should not hold signup permissions")
	}
	if catalog.ResolveAll(rank.RoleMember, []string{catalog.EventsSignup, catalog.GuildDelete}, nil) {
		t.Error("one missing permission should fail the conjunction")
	}

	// Vacuous truth on the empty list.
	if !catalog.ResolveAll(rank.RolePending, nil, nil) {
		t.Error("empty list should resolve true")
	}
}

func TestResolveAny(t *testing.T) {
	perms := []string{catalog.GuildDelete, catalog.EventsSignup}

	if !catalog.ResolveAny(rank.RoleMember, perms, nil) {
		t.Error("member holds events_signup, disjunction should pass")
	}
	if catalog.ResolveAny(rank.RolePending, perms, nil) {
		t.Error("pending holds neither, disjunction should fail")
	}

	// Empty disjunction is false, mirroring the vacuously-true conjunction.
	if catalog.ResolveAny(rank.RoleAdmin, nil, nil) {
		t.Error("empty list should resolve false")
	}
}

func TestValidateOverrides(t *testing.T) {
	if err := catalog.ValidateOverrides(rank.RoleMember, catalog.Overrides{catalog.EventsCreate: true}); err != nil {
		t.Errorf("valid overrides rejected: %v", err)
	}
	if err := catalog.ValidateOverrides(rank.RoleMember, nil); err != nil {
		t.Errorf("nil overrides rejected: %v", err)
	}

	err := catalog.ValidateOverrides(rank.RoleMember, catalog.Overrides{"bogus_id": true})
	if !errors.Is(err, catalog.ErrUnknownPermission) {
		t.Errorf("expected ErrUnknownPermission, got %v", err)
	}

	err = catalog.ValidateOverrides(rank.Role("warlord"), nil)
	if !errors.Is(err, catalog.ErrUnknownRole) {
		t.Errorf("expected ErrUnknownRole, got %v", err)
	}
}
