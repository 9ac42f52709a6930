// Package event defines the Instance entity — a scheduled guild
// activity (regular event or siege) that members sign up for.
package event

import (
	"time"

	"github.com/xraph/muster/id"
	"github.com/xraph/muster/roster"
)

// Kind distinguishes the two activity flavors. They share the signup
// machinery but use different roster status vocabularies.
type Kind string

const (
	// KindEvent is a regular scheduled activity (raid, meetup, training).
	KindEvent Kind = "event"

	// KindSiege is a competitive siege with a confirmation and check-in flow.
	KindSiege Kind = "siege"
)

// Valid reports whether k is a defined kind.
func (k Kind) Valid() bool {
	return k == KindEvent || k == KindSiege
}

// Instance is one scheduled occurrence members sign up for. Capacity
// requirements are embedded so a single fetch suffices for admission
// decisions.
type Instance struct {
	ID           id.InstanceID       `json:"id" db:"id"`
	AppID        string              `json:"app_id" db:"app_id"`
	GuildID      id.GuildID          `json:"guild_id" db:"guild_id"`
	Kind         Kind                `json:"kind" db:"kind"`
	Title        string              `json:"title" db:"title"`
	Description  string              `json:"description,omitempty" db:"description"`
	StartsAt     time.Time           `json:"starts_at" db:"starts_at"`
	EndsAt       *time.Time          `json:"ends_at,omitempty" db:"ends_at"`
	Requirements roster.Requirements `json:"requirements" db:"-"`
	IsCanceled   bool                `json:"is_canceled,omitempty" db:"is_canceled"`
	CreatedBy    string              `json:"created_by,omitempty" db:"created_by"`
	Metadata     map[string]any      `json:"metadata,omitempty" db:"metadata"`
	CreatedAt    time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at" db:"updated_at"`
}

// ListFilter contains filters for listing instances.
type ListFilter struct {
	GuildID      *id.GuildID `json:"guild_id,omitempty"`
	Kind         Kind        `json:"kind,omitempty"`
	IsCanceled   *bool       `json:"is_canceled,omitempty"`
	StartsAfter  *time.Time  `json:"starts_after,omitempty"`
	StartsBefore *time.Time  `json:"starts_before,omitempty"`
	Search       string      `json:"search,omitempty"`
	Limit        int         `json:"limit,omitempty"`
	Offset       int         `json:"offset,omitempty"`
}
