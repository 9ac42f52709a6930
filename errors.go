package muster

import "errors"

var (
	// ErrAccessDenied is returned when an enforced authorization decision fails.
	ErrAccessDenied = errors.New("muster: access denied")

	// ErrNoGuildScope is returned when a call carries neither a Forge
	// scope nor a standalone guild context.
	ErrNoGuildScope = errors.New("muster: guild scope required")

	// ErrMembershipNotFound is returned when a membership cannot be found.
	ErrMembershipNotFound = errors.New("muster: membership not found")

	// ErrOverrideNotFound is returned when a permission override cannot be found.
	ErrOverrideNotFound = errors.New("muster: override not found")

	// ErrInstanceNotFound is returned when an event or siege instance cannot be found.
	ErrInstanceNotFound = errors.New("muster: instance not found")

	// ErrEntryNotFound is returned when a roster entry cannot be found.
	ErrEntryNotFound = errors.New("muster: roster entry not found")

	// ErrDecisionLogNotFound is returned when a decision log entry cannot be found.
	ErrDecisionLogNotFound = errors.New("muster: decision log entry not found")

	// ErrDuplicateMembership is returned when a user already holds a
	// membership in the guild.
	ErrDuplicateMembership = errors.New("muster: user already a guild member")

	// ErrInvalidStatus is returned when a signup uses a status outside
	// the instance kind's vocabulary.
	ErrInvalidStatus = errors.New("muster: status not valid for instance kind")

	// ErrInvalidTransition is returned when a siege entry is moved
	// backward on its forward-only track.
	ErrInvalidTransition = errors.New("muster: invalid siege status transition")

	// ErrInstanceCanceled is returned when signing up for a canceled instance.
	ErrInstanceCanceled = errors.New("muster: instance is canceled")

	// ErrInvariantViolation is returned when stored or supplied data
	// contradicts a structural invariant (unknown permission ids in an
	// override patch, malformed capacity requirements). It signals a
	// bug or corrupted data, never a routine denial.
	ErrInvariantViolation = errors.New("muster: invariant violation")
)
