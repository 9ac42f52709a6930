// Package membership defines the Membership entity (user→guild binding with a role).
package membership

import (
	"time"

	"github.com/xraph/muster/id"
	"github.com/xraph/muster/rank"
)

// Membership binds a user to a guild at a specific role. A user holds at
// most one membership per guild; role changes update the row in place.
type Membership struct {
	ID         id.MembershipID `json:"id" db:"id"`
	AppID      string          `json:"app_id" db:"app_id"`
	GuildID    id.GuildID      `json:"guild_id" db:"guild_id"`
	UserID     string          `json:"user_id" db:"user_id"`
	Role       rank.Role       `json:"role" db:"role"`
	IsCreator  bool            `json:"is_creator,omitempty" db:"is_creator"`
	InvitedBy  string          `json:"invited_by,omitempty" db:"invited_by"`
	ApprovedAt *time.Time      `json:"approved_at,omitempty" db:"approved_at"`
	Metadata   map[string]any  `json:"metadata,omitempty" db:"metadata"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
}

// Approved reports whether the membership has passed the pending stage.
func (m *Membership) Approved() bool {
	return m.ApprovedAt != nil && m.Role != rank.RolePending
}

// ListFilter contains filters for listing memberships.
type ListFilter struct {
	GuildID  *id.GuildID `json:"guild_id,omitempty"`
	UserID   string      `json:"user_id,omitempty"`
	Role     rank.Role   `json:"role,omitempty"`
	Approved *bool       `json:"approved,omitempty"`
	Limit    int         `json:"limit,omitempty"`
	Offset   int         `json:"offset,omitempty"`
}
