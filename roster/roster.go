// Package roster defines signup entries and the capacity vocabulary for
// event and siege instances: statuses, slots, per-slot requirements,
// combined pools, and occupancy aggregates.
package roster

import (
	"time"

	"github.com/xraph/muster/id"
)

// Slot is a named position on an instance roster ("tank", "healer",
// "cannon_crew"). Slots are free-form per instance; the requirements on
// the instance give them meaning.
type Slot string

// Status is the lifecycle state of a roster entry. Events and sieges
// use disjoint vocabularies; a withdraw removes the entry outright and
// is not a status.
type Status string

const (
	// StatusAttending marks a committed event signup.
	StatusAttending Status = "attending"

	// StatusMaybe marks a tentative event signup. Tentative entries
	// still occupy capacity so a full roster stays honest.
	StatusMaybe Status = "maybe"

	// StatusDeclined marks an explicit "can't make it" RSVP on an
	// event. Declined entries never occupy capacity.
	StatusDeclined Status = "declined"

	// StatusSignedUp marks an initial siege signup.
	StatusSignedUp Status = "signed_up"

	// StatusConfirmed marks a siege signup the member has confirmed.
	StatusConfirmed Status = "confirmed"

	// StatusCheckedIn marks physical presence at siege start.
	StatusCheckedIn Status = "checked_in"
)

// siegeOrder positions the siege statuses on their forward-only track.
var siegeOrder = map[Status]int{
	StatusSignedUp:  1,
	StatusConfirmed: 2,
	StatusCheckedIn: 3,
}

// Occupies reports whether an entry in this status consumes capacity.
// Everything except declined counts, tentative statuses included.
func (s Status) Occupies() bool {
	return s != StatusDeclined && s != ""
}

// EventStatus reports whether s belongs to the event vocabulary.
func (s Status) EventStatus() bool {
	return s == StatusAttending || s == StatusMaybe || s == StatusDeclined
}

// SiegeStatus reports whether s belongs to the siege vocabulary.
func (s Status) SiegeStatus() bool {
	return siegeOrder[s] != 0
}

// SiegeRank returns the position of a siege status on its forward-only
// track (signed_up=1, confirmed=2, checked_in=3). Declined and event
// statuses rank 0.
func (s Status) SiegeRank() int {
	return siegeOrder[s]
}

// CanAdvance reports whether a siege entry may move from one status to
// another. The track is strictly forward: confirmations and check-ins
// are never undone, only a withdraw ends participation. Statuses off
// the track never advance anywhere.
func CanAdvance(from, to Status) bool {
	return siegeOrder[from] > 0 && siegeOrder[to] > siegeOrder[from]
}

// Entry is one actor's signup on one instance. An actor holds at most
// one entry per instance; status and slot changes update it in place.
type Entry struct {
	ID          id.EntryID     `json:"id" db:"id"`
	InstanceID  id.InstanceID  `json:"instance_id" db:"instance_id"`
	GuildID     id.GuildID     `json:"guild_id" db:"guild_id"`
	ActorID     string         `json:"actor_id" db:"actor_id"`
	CharacterID id.CharacterID `json:"character_id,omitempty" db:"character_id"`
	Slot        Slot           `json:"slot,omitempty" db:"slot"`
	Status      Status         `json:"status" db:"status"`
	Note        string         `json:"note,omitempty" db:"note"`
	ConfirmedAt *time.Time     `json:"confirmed_at,omitempty" db:"confirmed_at"`
	CheckedInAt *time.Time     `json:"checked_in_at,omitempty" db:"checked_in_at"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

// ListFilter contains filters for listing roster entries.
type ListFilter struct {
	InstanceID *id.InstanceID `json:"instance_id,omitempty"`
	GuildID    *id.GuildID    `json:"guild_id,omitempty"`
	ActorID    string         `json:"actor_id,omitempty"`
	Slot       Slot           `json:"slot,omitempty"`
	Status     Status         `json:"status,omitempty"`
	Occupying  bool           `json:"occupying,omitempty"`
	Limit      int            `json:"limit,omitempty"`
	Offset     int            `json:"offset,omitempty"`
}
