package catalog

import "github.com/xraph/muster/rank"

// defaultGrants lists the permissions each role holds by default, before
// any per-guild overrides. Admin always holds the full catalog; pending
// holds nothing. The sets are monotone: every grant a role holds is also
// held by every higher role.
var defaultGrants = map[rank.Role][]string{
	rank.RoleAdmin: IDs(),

	rank.RoleOfficer: {
		CharactersCreate,
		CharactersEditOwn,
		CharactersEditAny,
		CharactersDeleteOwn,
		CharactersDeleteAny,
		ShipsCreate,
		ShipsEditOwn,
		ShipsEditAny,
		ShipsDeleteOwn,
		ShipsDeleteAny,
		EventsCreate,
		EventsEditAny,
		EventsCancelAny,
		EventsSignup,
		SiegeCreate,
		SiegeEditAny,
		SiegeSignup,
		SiegeConfirmOwn,
		SiegeCheckinAny,
		MembersApprove,
		MembersRemove,
		MembersChangeRole,
	},

	rank.RoleMember: {
		CharactersCreate,
		CharactersEditOwn,
		CharactersDeleteOwn,
		ShipsCreate,
		ShipsEditOwn,
		ShipsDeleteOwn,
		EventsSignup,
		SiegeSignup,
		SiegeConfirmOwn,
	},

	rank.RoleTrial: {
		CharactersCreate,
		CharactersEditOwn,
		CharactersDeleteOwn,
		EventsSignup,
		SiegeSignup,
		SiegeConfirmOwn,
	},

	rank.RolePending: {},
}

// grantSets indexes defaultGrants for O(1) membership checks.
var grantSets = func() map[rank.Role]map[string]struct{} {
	out := make(map[rank.Role]map[string]struct{}, len(defaultGrants))
	for role, ids := range defaultGrants {
		set := make(map[string]struct{}, len(ids))
		for _, pid := range ids {
			set[pid] = struct{}{}
		}
		out[role] = set
	}
	return out
}()

// Grants returns the default permission ids held by a role, in catalog
// display order. Unknown roles hold nothing. The returned slice is a copy.
func Grants(role rank.Role) []string {
	set, ok := grantSets[role]
	if !ok {
		return nil
	}

	var out []string
	for _, p := range table {
		if _, held := set[p.ID]; held {
			out = append(out, p.ID)
		}
	}
	return out
}

// GrantedByDefault reports whether a role holds a permission before
// overrides are applied. Unknown roles and unknown permission ids are
// never granted.
func GrantedByDefault(role rank.Role, permissionID string) bool {
	set, ok := grantSets[role]
	if !ok {
		return false
	}
	_, held := set[permissionID]
	return held
}
