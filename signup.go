package muster

import (
	"context"
	"fmt"

	"github.com/xraph/muster/catalog"
	"github.com/xraph/muster/event"
	"github.com/xraph/muster/id"
	"github.com/xraph/muster/roster"
)

// SignupRequest is the input to a roster signup or status change.
type SignupRequest struct {
	// ActorID is the member signing up. Signups are always self-service;
	// an actor never creates another member's entry.
	ActorID string `json:"actor_id"`

	// InstanceID is the event or siege being joined.
	InstanceID id.InstanceID `json:"instance_id"`

	// CharacterID optionally pins the signup to one of the actor's characters.
	CharacterID id.CharacterID `json:"character_id,omitempty"`

	// Slot is the requested roster slot. Empty means unslotted.
	Slot roster.Slot `json:"slot,omitempty"`

	// Status is the requested status. Empty defaults to attending for
	// events and signed_up for sieges.
	Status roster.Status `json:"status,omitempty"`

	Note string `json:"note,omitempty"`
}

// SignupResult is the outcome of a roster operation. Authorization and
// capacity denials are reported as decision values; the error return of
// the engine methods is reserved for invalid input and infrastructure
// failures.
type SignupResult struct {
	Allowed  bool     `json:"allowed"`
	Decision Decision `json:"decision"`
	Reason   string   `json:"reason,omitempty"`

	// Capacity carries the admission arithmetic when Decision is
	// deny_capacity.
	Capacity *CapacityViolation `json:"capacity,omitempty"`

	// Entry is the actor's entry after the operation, when one exists.
	Entry *roster.Entry `json:"entry,omitempty"`

	// Counts is the instance occupancy after the operation.
	Counts roster.AggregateCounts `json:"counts"`
}

// Signup creates or updates the actor's roster entry on an instance.
// The pipeline is fixed: permission resolution, then the ownership
// gate, then capacity admission — a caller lacking the signup
// permission is denied before occupancy is ever counted.
//
// One entry per (instance, actor) is upserted in place: re-signing with
// a new slot or status moves the existing entry instead of adding a
// second one. The actor's own occupied seat is excluded from capacity
// counts, so changing status inside a full slot never self-blocks.
func (e *Engine) Signup(ctx context.Context, req *SignupRequest) (*SignupResult, error) {
	inst, err := e.store.GetInstance(ctx, req.InstanceID)
	if err != nil {
		return nil, fmt.Errorf("muster signup: %w", err)
	}
	if inst.IsCanceled {
		return nil, fmt.Errorf("%w: %s", ErrInstanceCanceled, inst.ID)
	}

	status, err := normalizeStatus(inst.Kind, req.Status)
	if err != nil {
		return nil, err
	}

	authz, err := e.Authorize(ctx, &AuthorizeRequest{
		ActorID:       req.ActorID,
		AnyPermission: signupPermission(inst.Kind),
	})
	if err != nil {
		return nil, err
	}
	if !authz.Allowed {
		return &SignupResult{Decision: authz.Decision, Reason: authz.Reason}, nil
	}

	existing, err := e.store.GetEntryByActor(ctx, req.InstanceID, req.ActorID)
	if err != nil {
		return nil, fmt.Errorf("muster signup: %w", err)
	}

	// Siege entries only move forward; a confirmed member cannot drop
	// back to signed_up except by withdrawing outright.
	if existing != nil && inst.Kind == event.KindSiege &&
		status.SiegeRank() < existing.Status.SiegeRank() {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, existing.Status, status)
	}

	entries, err := e.listInstanceEntries(ctx, req.InstanceID)
	if err != nil {
		return nil, err
	}

	if violation := evaluateAdmission(inst.Requirements, entries, req.ActorID, req.Slot, status); violation != nil {
		return &SignupResult{
			Decision: DecisionDenyCapacity,
			Reason:   violation.Reason(),
			Capacity: violation,
			Counts:   roster.Aggregate(entries),
		}, nil
	}

	now := e.now().UTC()
	entry := &roster.Entry{
		ID:          id.NewEntryID(),
		InstanceID:  inst.ID,
		GuildID:     inst.GuildID,
		ActorID:     req.ActorID,
		CharacterID: req.CharacterID,
		Slot:        req.Slot,
		Status:      status,
		Note:        req.Note,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if existing != nil {
		entry.ID = existing.ID
		entry.CreatedAt = existing.CreatedAt
	}

	if err := e.store.UpsertEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("muster signup: %w", err)
	}
	if e.plugins != nil {
		e.plugins.EmitEntryUpserted(ctx, entry)
	}

	return &SignupResult{
		Allowed:  true,
		Decision: DecisionAllow,
		Entry:    entry,
		Counts:   roster.Aggregate(replaceEntry(entries, entry)),
	}, nil
}

// Withdraw deletes the actor's entry, freeing its seat. Withdrawing
// without an entry is a no-op that still reports current occupancy, so
// retries and double-clicks are harmless.
func (e *Engine) Withdraw(ctx context.Context, instID id.InstanceID, actorID string) (*SignupResult, error) {
	existing, err := e.store.GetEntryByActor(ctx, instID, actorID)
	if err != nil {
		return nil, fmt.Errorf("muster withdraw: %w", err)
	}

	if existing != nil {
		if err := e.store.DeleteEntry(ctx, existing.ID); err != nil {
			return nil, fmt.Errorf("muster withdraw: %w", err)
		}
		if e.plugins != nil {
			e.plugins.EmitEntryWithdrawn(ctx, existing)
		}
	}

	counts, err := e.Counts(ctx, instID)
	if err != nil {
		return nil, err
	}
	return &SignupResult{
		Allowed:  true,
		Decision: DecisionAllow,
		Counts:   counts,
	}, nil
}

// Confirm advances the actor's own siege entry from signed_up to
// confirmed and stamps the confirmation time. Confirming an already
// confirmed or checked-in entry is a no-op.
func (e *Engine) Confirm(ctx context.Context, instID id.InstanceID, actorID string) (*SignupResult, error) {
	_, entry, err := e.siegeEntry(ctx, instID, actorID)
	if err != nil {
		return nil, fmt.Errorf("muster confirm: %w", err)
	}

	authz, err := e.Authorize(ctx, &AuthorizeRequest{
		ActorID:       actorID,
		OwnPermission: catalog.SiegeConfirmOwn,
		OwnerID:       entry.ActorID,
	})
	if err != nil {
		return nil, err
	}
	if !authz.Allowed {
		return &SignupResult{Decision: authz.Decision, Reason: authz.Reason}, nil
	}

	if entry.Status.SiegeRank() >= roster.StatusConfirmed.SiegeRank() {
		return e.entryResult(ctx, instID, entry)
	}
	if !roster.CanAdvance(entry.Status, roster.StatusConfirmed) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, entry.Status, roster.StatusConfirmed)
	}

	now := e.now().UTC()
	entry.Status = roster.StatusConfirmed
	entry.ConfirmedAt = &now
	entry.UpdatedAt = now
	if err := e.store.UpsertEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("muster confirm: %w", err)
	}
	if e.plugins != nil {
		e.plugins.EmitEntryUpserted(ctx, entry)
	}
	return e.entryResult(ctx, instID, entry)
}

// CheckIn records a siege attendee's presence. It is a delegated
// action: the actor needs siege_checkin_any and, for targets other than
// themselves, a strictly higher rank than the target. Skipping the
// confirmed stage is allowed; checking in an already checked-in entry
// is a no-op.
func (e *Engine) CheckIn(ctx context.Context, instID id.InstanceID, targetActorID, actorID string) (*SignupResult, error) {
	_, entry, err := e.siegeEntry(ctx, instID, targetActorID)
	if err != nil {
		return nil, fmt.Errorf("muster checkin: %w", err)
	}

	authz, err := e.Authorize(ctx, &AuthorizeRequest{
		ActorID:       actorID,
		AnyPermission: catalog.SiegeCheckinAny,
		TargetUserID:  targetActorID,
	})
	if err != nil {
		return nil, err
	}
	if !authz.Allowed {
		return &SignupResult{Decision: authz.Decision, Reason: authz.Reason}, nil
	}

	if entry.Status == roster.StatusCheckedIn {
		return e.entryResult(ctx, instID, entry)
	}
	if !roster.CanAdvance(entry.Status, roster.StatusCheckedIn) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, entry.Status, roster.StatusCheckedIn)
	}

	now := e.now().UTC()
	entry.Status = roster.StatusCheckedIn
	entry.CheckedInAt = &now
	entry.UpdatedAt = now
	if err := e.store.UpsertEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("muster checkin: %w", err)
	}
	if e.plugins != nil {
		e.plugins.EmitEntryUpserted(ctx, entry)
	}
	return e.entryResult(ctx, instID, entry)
}

// Counts returns current occupancy for an instance.
func (e *Engine) Counts(ctx context.Context, instID id.InstanceID) (roster.AggregateCounts, error) {
	entries, err := e.listInstanceEntries(ctx, instID)
	if err != nil {
		return roster.AggregateCounts{}, err
	}
	return roster.Aggregate(entries), nil
}

// siegeEntry loads an instance and one actor's entry on it, rejecting
// non-siege instances. A withdrawn entry is simply gone.
func (e *Engine) siegeEntry(ctx context.Context, instID id.InstanceID, actorID string) (*event.Instance, *roster.Entry, error) {
	inst, err := e.store.GetInstance(ctx, instID)
	if err != nil {
		return nil, nil, err
	}
	if inst.Kind != event.KindSiege {
		return nil, nil, fmt.Errorf("%w: %s is not a siege", ErrInvalidStatus, inst.ID)
	}

	entry, err := e.store.GetEntryByActor(ctx, instID, actorID)
	if err != nil {
		return nil, nil, err
	}
	if entry == nil {
		return nil, nil, fmt.Errorf("%w: no entry for %s", ErrEntryNotFound, actorID)
	}
	return inst, entry, nil
}

func (e *Engine) listInstanceEntries(ctx context.Context, instID id.InstanceID) ([]*roster.Entry, error) {
	entries, err := e.store.ListEntries(ctx, &roster.ListFilter{InstanceID: &instID})
	if err != nil {
		return nil, fmt.Errorf("muster roster: %w", err)
	}
	return entries, nil
}

func (e *Engine) entryResult(ctx context.Context, instID id.InstanceID, entry *roster.Entry) (*SignupResult, error) {
	counts, err := e.Counts(ctx, instID)
	if err != nil {
		return nil, err
	}
	return &SignupResult{
		Allowed:  true,
		Decision: DecisionAllow,
		Entry:    entry,
		Counts:   counts,
	}, nil
}

// normalizeStatus defaults and validates the requested status against
// the instance kind's vocabulary.
func normalizeStatus(kind event.Kind, status roster.Status) (roster.Status, error) {
	if status == "" {
		if kind == event.KindSiege {
			return roster.StatusSignedUp, nil
		}
		return roster.StatusAttending, nil
	}

	switch kind {
	case event.KindSiege:
		// Confirmation and check-in are transitions, not signup states:
		// a signup never enters the track above signed_up.
		if status != roster.StatusSignedUp {
			return "", fmt.Errorf("%w: %q on a siege signup", ErrInvalidStatus, status)
		}
	default:
		if !status.EventStatus() {
			return "", fmt.Errorf("%w: %q on an event", ErrInvalidStatus, status)
		}
	}
	return status, nil
}

func signupPermission(kind event.Kind) string {
	if kind == event.KindSiege {
		return catalog.SiegeSignup
	}
	return catalog.EventsSignup
}

// replaceEntry substitutes the actor's entry in a listing so occupancy
// can be reported without a second fetch.
func replaceEntry(entries []*roster.Entry, updated *roster.Entry) []*roster.Entry {
	out := make([]*roster.Entry, 0, len(entries)+1)
	replaced := false
	for _, e := range entries {
		if e.ActorID == updated.ActorID {
			out = append(out, updated)
			replaced = true
			continue
		}
		out = append(out, e)
	}
	if !replaced {
		out = append(out, updated)
	}
	return out
}
