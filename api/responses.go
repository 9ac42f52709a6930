package api

import (
	"github.com/xraph/muster"
	"github.com/xraph/muster/roster"
)

// CheckResponse is the response for an authorization check.
type CheckResponse struct {
	Allowed    bool   `json:"allowed" description:"Whether the request is allowed"`
	Decision   string `json:"decision" description:"Decision code"`
	Reason     string `json:"reason,omitempty" description:"Human-readable reason"`
	EvalTimeNs int64  `json:"eval_time_ns" description:"Evaluation time in nanoseconds"`
}

// BatchCheckResponse contains results for multiple checks.
type BatchCheckResponse struct {
	Results []CheckResponse `json:"results" description:"Check results in order"`
}

// GrantsResponse lists the effective permission ids an actor holds.
type GrantsResponse struct {
	ActorID string   `json:"actor_id" description:"Actor identifier"`
	Grants  []string `json:"grants" description:"Effective permission ids in catalog order"`
}

// RoleInfo describes one role in the fixed hierarchy.
type RoleInfo struct {
	Role string `json:"role" description:"Role name"`
	Rank int    `json:"rank" description:"Position in the hierarchy (admin=5 … pending=1)"`
}

// RoleGrantsResponse lists the default grants of a role before overrides.
type RoleGrantsResponse struct {
	Role   string   `json:"role" description:"Role name"`
	Grants []string `json:"grants" description:"Default permission ids in catalog order"`
}

// OverrideGrantsResponse is the sparse override patch for one role in one guild.
type OverrideGrantsResponse struct {
	GuildID string          `json:"guild_id" description:"Guild identifier"`
	Role    string          `json:"role" description:"Role name"`
	Grants  map[string]bool `json:"grants" description:"Forced-on and forced-off permission ids"`
}

// SignupResponse is the response for a roster operation.
type SignupResponse struct {
	Allowed  bool                      `json:"allowed" description:"Whether the operation was admitted"`
	Decision string                    `json:"decision" description:"Decision code"`
	Reason   string                    `json:"reason,omitempty" description:"Human-readable reason"`
	Capacity *muster.CapacityViolation `json:"capacity,omitempty" description:"Admission arithmetic when capacity denied"`
	Entry    *roster.Entry             `json:"entry,omitempty" description:"The actor's entry after the operation"`
	Counts   roster.AggregateCounts    `json:"counts" description:"Instance occupancy after the operation"`
}

// CountsResponse reports instance occupancy plus slot-minimum readiness.
type CountsResponse struct {
	Counts        roster.AggregateCounts `json:"counts" description:"Occupancy totals and per-slot breakdowns"`
	MinimumsMet   bool                   `json:"minimums_met" description:"Whether every slot minimum is satisfied"`
	UnmetMinimums map[roster.Slot]int    `json:"unmet_minimums,omitempty" description:"Slots short of their minimum, with the shortfall"`
}

// ListResponse wraps a list of items with pagination metadata.
type ListResponse[T any] struct {
	Items  []T   `json:"items" description:"List of items"`
	Total  int64 `json:"total" description:"Total count"`
	Limit  int   `json:"limit" description:"Page size"`
	Offset int   `json:"offset" description:"Page offset"`
}
