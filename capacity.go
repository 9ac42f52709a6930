package muster

import (
	"fmt"

	"github.com/xraph/muster/roster"
)

// CapacityViolation describes why a roster admission was rejected. It is
// a decision value, not an error: races and full rosters are normal
// outcomes the caller renders to the user.
type CapacityViolation struct {
	// Scope is what overflowed: "instance", "pool", or "slot".
	Scope string `json:"scope"`

	// Slot is the slot or pool-member slot that was requested.
	Slot roster.Slot `json:"slot,omitempty"`

	// Limit is the configured maximum that would be exceeded.
	Limit int `json:"limit"`

	// Count is the occupancy counted against the limit, before the
	// requested admission.
	Count int `json:"count"`
}

// Reason renders the violation for logs and API responses.
func (v *CapacityViolation) Reason() string {
	switch v.Scope {
	case "instance":
		return fmt.Sprintf("instance is full (%d/%d attendees)", v.Count, v.Limit)
	case "pool":
		return fmt.Sprintf("combined pool for slot %q is full (%d/%d)", v.Slot, v.Count, v.Limit)
	default:
		return fmt.Sprintf("slot %q is full (%d/%d)", v.Slot, v.Count, v.Limit)
	}
}

// evaluateAdmission decides whether one actor may occupy a slot, given
// the instance requirements and the current roster. It is pure — the
// caller fetches state, this orders the arithmetic.
//
// The actor's own occupying entry is excluded from every count first:
// when changing status within a slot the actor must not block
// themselves, and when moving between slots only the departing slot's
// count drops. Checks run outermost-first: instance total, then the
// combined pool governing the slot, then the slot's own maximum. While
// a slot belongs to a pool its individual maximum is ignored.
//
// A non-occupying status (declined) is always admitted.
func evaluateAdmission(req roster.Requirements, entries []*roster.Entry, actorID string, slot roster.Slot, status roster.Status) *CapacityViolation {
	if !status.Occupies() {
		return nil
	}

	others := make([]*roster.Entry, 0, len(entries))
	for _, e := range entries {
		if e.ActorID == actorID {
			continue
		}
		others = append(others, e)
	}
	agg := roster.Aggregate(others)

	if req.MaxAttendees != nil && agg.Total >= *req.MaxAttendees {
		return &CapacityViolation{Scope: "instance", Limit: *req.MaxAttendees, Count: agg.Total}
	}

	if pool := req.PoolFor(slot); pool != nil {
		if n := agg.PoolCount(*pool); n >= pool.Max {
			return &CapacityViolation{Scope: "pool", Slot: slot, Limit: pool.Max, Count: n}
		}
		return nil
	}

	if max := req.SlotMax(slot); max != nil && agg.BySlot[slot] >= *max {
		return &CapacityViolation{Scope: "slot", Slot: slot, Limit: *max, Count: agg.BySlot[slot]}
	}

	return nil
}

// ValidateRequirements rejects malformed capacity shapes before they are
// persisted on an instance. Violations wrap ErrInvariantViolation — a
// bad shape is a configuration bug, not a user-facing denial.
func ValidateRequirements(r roster.Requirements) error {
	if r.MaxAttendees != nil && *r.MaxAttendees < 0 {
		return fmt.Errorf("%w: negative max_attendees %d", ErrInvariantViolation, *r.MaxAttendees)
	}

	seen := make(map[roster.Slot]struct{}, len(r.Slots))
	for _, sr := range r.Slots {
		if sr.Slot == "" {
			return fmt.Errorf("%w: slot requirement with empty slot name", ErrInvariantViolation)
		}
		if _, dup := seen[sr.Slot]; dup {
			return fmt.Errorf("%w: duplicate slot requirement %q", ErrInvariantViolation, sr.Slot)
		}
		seen[sr.Slot] = struct{}{}

		if sr.Min < 0 {
			return fmt.Errorf("%w: slot %q has negative min %d", ErrInvariantViolation, sr.Slot, sr.Min)
		}
		if sr.Max != nil && *sr.Max < 0 {
			return fmt.Errorf("%w: slot %q has negative max %d", ErrInvariantViolation, sr.Slot, *sr.Max)
		}
		if sr.Max != nil && sr.Min > *sr.Max {
			return fmt.Errorf("%w: slot %q has min %d above max %d", ErrInvariantViolation, sr.Slot, sr.Min, *sr.Max)
		}
	}

	pooled := make(map[roster.Slot]struct{})
	for _, pool := range r.Pools {
		if len(pool.Slots) < 2 {
			return fmt.Errorf("%w: combined pool needs at least two slots", ErrInvariantViolation)
		}
		if pool.Max < 0 {
			return fmt.Errorf("%w: combined pool has negative max %d", ErrInvariantViolation, pool.Max)
		}
		for _, s := range pool.Slots {
			if _, dup := pooled[s]; dup {
				return fmt.Errorf("%w: slot %q appears in two combined pools", ErrInvariantViolation, s)
			}
			pooled[s] = struct{}{}
		}
	}

	return nil
}
