package api

import (
	"errors"

	"github.com/xraph/forge"

	"github.com/xraph/muster"
)

// mapError maps domain errors to Forge HTTP errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if isNotFound(err) {
		return forge.NotFound(err.Error())
	}
	if errors.Is(err, muster.ErrDuplicateMembership) || errors.Is(err, muster.ErrInvalidStatus) {
		return forge.BadRequest(err.Error())
	}
	if errors.Is(err, muster.ErrInvalidTransition) || errors.Is(err, muster.ErrInstanceCanceled) {
		return forge.BadRequest(err.Error())
	}
	if errors.Is(err, muster.ErrInvariantViolation) || errors.Is(err, muster.ErrNoGuildScope) {
		return forge.BadRequest(err.Error())
	}
	if errors.Is(err, muster.ErrAccessDenied) {
		return forge.Forbidden(err.Error())
	}
	return err
}

func isNotFound(err error) bool {
	return errors.Is(err, muster.ErrMembershipNotFound) ||
		errors.Is(err, muster.ErrOverrideNotFound) ||
		errors.Is(err, muster.ErrInstanceNotFound) ||
		errors.Is(err, muster.ErrEntryNotFound) ||
		errors.Is(err, muster.ErrDecisionLogNotFound)
}

func defaultLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	if limit > 1000 {
		return 1000
	}
	return limit
}
