// Package rank defines the closed five-role guild hierarchy.
//
// The hierarchy is a total order: admin > officer > member > trial >
// pending. Every delegation decision in Muster routes through Rank and
// CanManage rather than per-role branching, so the enum stays closed
// and exhaustive.
package rank

import "fmt"

// Role is a membership level inside a guild.
type Role string

// The five guild roles, highest rank first.
const (
	RoleAdmin   Role = "admin"
	RoleOfficer Role = "officer"
	RoleMember  Role = "member"
	RoleTrial   Role = "trial"
	RolePending Role = "pending"
)

// ranks maps each role to its position in the total order.
var ranks = map[Role]int{
	RoleAdmin:   5,
	RoleOfficer: 4,
	RoleMember:  3,
	RoleTrial:   2,
	RolePending: 1,
}

// All returns the five roles in descending rank order.
func All() []Role {
	return []Role{RoleAdmin, RoleOfficer, RoleMember, RoleTrial, RolePending}
}

// Rank returns the role's position in the total order (admin=5 … pending=1).
// Unknown roles rank 0, below every valid role.
func (r Role) Rank() int {
	return ranks[r]
}

// Valid reports whether r is one of the five defined roles.
func (r Role) Valid() bool {
	_, ok := ranks[r]
	return ok
}

// String returns the role name.
func (r Role) String() string { return string(r) }

// CanManage reports whether an actor with role a may manage a target
// with role b. The comparison is strictly greater: a role never manages
// its own rank, including two admins managing each other.
func CanManage(a, b Role) bool {
	return a.Rank() > b.Rank()
}

// Parse converts a string into a Role, rejecting anything outside the enum.
func Parse(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("rank: unknown role %q", s)
	}
	return r, nil
}
