// Package override defines per-guild, per-role permission override patches.
package override

import (
	"time"

	"github.com/xraph/muster/catalog"
	"github.com/xraph/muster/id"
	"github.com/xraph/muster/rank"
)

// Override is a sparse patch over one role's default grant set within
// one guild. Grants holds only the permissions the guild explicitly
// forced on or off; every absent key falls through to the catalog
// defaults at resolution time.
type Override struct {
	ID        id.OverrideID     `json:"id" db:"id"`
	AppID     string            `json:"app_id" db:"app_id"`
	GuildID   id.GuildID        `json:"guild_id" db:"guild_id"`
	Role      rank.Role         `json:"role" db:"role"`
	Grants    catalog.Overrides `json:"grants" db:"grants"`
	UpdatedBy string            `json:"updated_by,omitempty" db:"updated_by"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt time.Time         `json:"updated_at" db:"updated_at"`
}

// ListFilter contains filters for listing overrides.
type ListFilter struct {
	GuildID *id.GuildID `json:"guild_id,omitempty"`
	Role    rank.Role   `json:"role,omitempty"`
	Limit   int         `json:"limit,omitempty"`
	Offset  int         `json:"offset,omitempty"`
}
