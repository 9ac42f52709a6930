// Package catalog defines the static permission catalog and the pure
// permission resolver.
//
// The catalog is process-wide constant data: a fixed table of named
// capabilities, each tagged with a category, plus the default grant set
// for every guild role. Guilds never get their own copy — per-guild
// customization is a sparse override patch resolved on top of these
// defaults (see the override package), so new catalog entries take
// effect everywhere without data migration.
package catalog

// Category groups permissions for presentation and middleware matching.
type Category string

// Permission categories.
const (
	CategoryCharacters Category = "characters"
	CategoryShips      Category = "ships"
	CategoryEvents     Category = "events"
	CategorySiege      Category = "siege"
	CategoryMembers    Category = "members"
	CategoryGuild      Category = "guild"
)

// Permission is one named capability. The Name and Description fields
// are presentation only; decisions evaluate the ID alone.
type Permission struct {
	ID          string   `json:"id"`
	Category    Category `json:"category"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
}

// Stable permission ids. These are wire- and storage-visible; never renumber.
const (
	CharactersCreate    = "characters_create"
	CharactersEditOwn   = "characters_edit_own"
	CharactersEditAny   = "characters_edit_any"
	CharactersDeleteOwn = "characters_delete_own"
	CharactersDeleteAny = "characters_delete_any"

	ShipsCreate    = "ships_create"
	ShipsEditOwn   = "ships_edit_own"
	ShipsEditAny   = "ships_edit_any"
	ShipsDeleteOwn = "ships_delete_own"
	ShipsDeleteAny = "ships_delete_any"

	EventsCreate    = "events_create"
	EventsEditAny   = "events_edit_any"
	EventsCancelAny = "events_cancel_any"
	EventsSignup    = "events_signup"

	SiegeCreate     = "siege_create"
	SiegeEditAny    = "siege_edit_any"
	SiegeSignup     = "siege_signup"
	SiegeConfirmOwn = "siege_confirm_own"
	SiegeCheckinAny = "siege_checkin_any"

	MembersApprove    = "members_approve"
	MembersRemove     = "members_remove"
	MembersChangeRole = "members_change_role"

	GuildEdit            = "guild_edit"
	GuildOverridesManage = "guild_overrides_manage"
	GuildDelete          = "guild_delete"
)

// table is the full catalog in display order.
var table = []Permission{
	{ID: CharactersCreate, Category: CategoryCharacters, Name: "Create characters", Description: "Register a new character on the guild roster."},
	{ID: CharactersEditOwn, Category: CategoryCharacters, Name: "Edit own characters"},
	{ID: CharactersEditAny, Category: CategoryCharacters, Name: "Edit any character", Description: "Edit characters owned by lower-ranked members."},
	{ID: CharactersDeleteOwn, Category: CategoryCharacters, Name: "Delete own characters"},
	{ID: CharactersDeleteAny, Category: CategoryCharacters, Name: "Delete any character", Description: "Delete characters owned by lower-ranked members."},

	{ID: ShipsCreate, Category: CategoryShips, Name: "Create ships"},
	{ID: ShipsEditOwn, Category: CategoryShips, Name: "Edit own ships"},
	{ID: ShipsEditAny, Category: CategoryShips, Name: "Edit any ship"},
	{ID: ShipsDeleteOwn, Category: CategoryShips, Name: "Delete own ships"},
	{ID: ShipsDeleteAny, Category: CategoryShips, Name: "Delete any ship"},

	{ID: EventsCreate, Category: CategoryEvents, Name: "Create events"},
	{ID: EventsEditAny, Category: CategoryEvents, Name: "Edit any event"},
	{ID: EventsCancelAny, Category: CategoryEvents, Name: "Cancel any event"},
	{ID: EventsSignup, Category: CategoryEvents, Name: "Sign up for events"},

	{ID: SiegeCreate, Category: CategorySiege, Name: "Create sieges"},
	{ID: SiegeEditAny, Category: CategorySiege, Name: "Edit any siege"},
	{ID: SiegeSignup, Category: CategorySiege, Name: "Sign up for sieges"},
	{ID: SiegeConfirmOwn, Category: CategorySiege, Name: "Confirm own siege signup"},
	{ID: SiegeCheckinAny, Category: CategorySiege, Name: "Check in siege attendees", Description: "Record physical presence of other attendees at siege start."},

	{ID: MembersApprove, Category: CategoryMembers, Name: "Approve applications"},
	{ID: MembersRemove, Category: CategoryMembers, Name: "Remove members"},
	{ID: MembersChangeRole, Category: CategoryMembers, Name: "Change member roles"},

	{ID: GuildEdit, Category: CategoryGuild, Name: "Edit guild settings"},
	{ID: GuildOverridesManage, Category: CategoryGuild, Name: "Manage permission overrides"},
	{ID: GuildDelete, Category: CategoryGuild, Name: "Delete guild"},
}

// byID indexes the catalog for O(1) resolution.
var byID = func() map[string]Permission {
	m := make(map[string]Permission, len(table))
	for _, p := range table {
		m[p.ID] = p
	}
	return m
}()

// All returns the full catalog in display order. The returned slice is
// a copy; callers may not mutate the catalog.
func All() []Permission {
	out := make([]Permission, len(table))
	copy(out, table)
	return out
}

// Get returns the permission with the given id.
func Get(permissionID string) (Permission, bool) {
	p, ok := byID[permissionID]
	return p, ok
}

// Exists reports whether the id names a cataloged permission.
func Exists(permissionID string) bool {
	_, ok := byID[permissionID]
	return ok
}

// ByCategory returns all permissions in a category, in display order.
func ByCategory(c Category) []Permission {
	var out []Permission
	for _, p := range table {
		if p.Category == c {
			out = append(out, p)
		}
	}
	return out
}

// IDs returns every permission id in display order.
func IDs() []string {
	out := make([]string, len(table))
	for i, p := range table {
		out[i] = p.ID
	}
	return out
}
