package rank_test

import (
	"testing"

	"github.com/xraph/muster/rank"
)

func TestRankTotalOrder(t *testing.T) {
	roles := rank.All()
	for i := 1; i < len(roles); i++ {
		if roles[i-1].Rank() <= roles[i].Rank() {
			t.Errorf("expected %s to outrank %s", roles[i-1], roles[i])
		}
	}
}

func TestCanManage(t *testing.T) {
	tests := []struct {
		actor, target rank.Role
		want          bool
	}{
		{rank.RoleAdmin, rank.RoleOfficer, true},
		{rank.RoleAdmin, rank.RolePending, true},
		{rank.RoleOfficer, rank.RoleMember, true},
		{rank.RoleOfficer, rank.RoleTrial, true},
		{rank.RoleMember, rank.RoleTrial, true},
		{rank.RoleTrial, rank.RolePending, true},

		// Never manage own rank, admins included.
		{rank.RoleAdmin, rank.RoleAdmin, false},
		{rank.RoleOfficer, rank.RoleOfficer, false},
		{rank.RolePending, rank.RolePending, false},

		// Never manage upward.
		{rank.RoleOfficer, rank.RoleAdmin, false},
		{rank.RoleMember, rank.RoleOfficer, false},
		{rank.RolePending, rank.RoleTrial, false},
	}

	for _, tt := range tests {
		if got := rank.CanManage(tt.actor, tt.target); got != tt.want {
			t.Errorf("CanManage(%s, %s) = %v, want %v", tt.actor, tt.target, got, tt.want)
		}
	}
}

func TestCanManageMatchesRank(t *testing.T) {
	for _, a := range rank.All() {
		for _, b := range rank.All() {
			want := a.Rank() > b.Rank()
			if got := rank.CanManage(a, b); got != want {
				t.Errorf("CanManage(%s, %s) = %v, want %v", a, b, got, want)
			}
		}
	}
}

func TestParse(t *testing.T) {
	for _, r := range rank.All() {
		parsed, err := rank.Parse(r.String())
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", r, err)
		}
		if parsed != r {
			t.Errorf("Parse(%q) = %q", r, parsed)
		}
	}

	if _, err := rank.Parse("warlord"); err == nil {
		t.Error("expected error for unknown role")
	}
	if _, err := rank.Parse(""); err == nil {
		t.Error("expected error for empty role")
	}
}

func TestUnknownRoleRanksBelowAll(t *testing.T) {
	unknown := rank.Role("warlord")
	if unknown.Valid() {
		t.Error("unexpected valid unknown role")
	}
	for _, r := range rank.All() {
		if !rank.CanManage(r, unknown) {
			t.Errorf("expected %s to outrank an unknown role", r)
		}
	}
}
