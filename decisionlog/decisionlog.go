// Package decisionlog defines the authorization decision audit Entry entity.
package decisionlog

import (
	"time"

	"github.com/xraph/muster/id"
)

// Entry is a single authorization decision audit record.
type Entry struct {
	ID           id.DecisionLogID `json:"id" db:"id"`
	AppID        string           `json:"app_id" db:"app_id"`
	GuildID      id.GuildID       `json:"guild_id" db:"guild_id"`
	ActorID      string           `json:"actor_id" db:"actor_id"`
	PermissionID string           `json:"permission_id" db:"permission_id"`
	TargetID     string           `json:"target_id,omitempty" db:"target_id"`
	Decision     string           `json:"decision" db:"decision"`
	Reason       string           `json:"reason,omitempty" db:"reason"`
	EvalTimeNs   int64            `json:"eval_time_ns" db:"eval_time_ns"`
	Metadata     map[string]any   `json:"metadata,omitempty" db:"metadata"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
}

// QueryFilter contains filters for querying decision logs.
type QueryFilter struct {
	GuildID      *id.GuildID `json:"guild_id,omitempty"`
	ActorID      string      `json:"actor_id,omitempty"`
	PermissionID string      `json:"permission_id,omitempty"`
	Decision     string      `json:"decision,omitempty"`
	After        *time.Time  `json:"after,omitempty"`
	Before       *time.Time  `json:"before,omitempty"`
	Limit        int         `json:"limit,omitempty"`
	Offset       int         `json:"offset,omitempty"`
}
