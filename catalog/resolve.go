package catalog

import (
	"errors"
	"fmt"

	"github.com/xraph/muster/rank"
)

// Validation errors returned by ValidateOverrides.
var (
	// ErrUnknownPermission indicates an override patch referenced a
	// permission id that does not exist in the catalog.
	ErrUnknownPermission = errors.New("catalog: unknown permission id")

	// ErrUnknownRole indicates an override patch targeted a role outside
	// the five-role hierarchy.
	ErrUnknownRole = errors.New("catalog: unknown role")
)

// Overrides is a sparse per-role patch over the default grant sets.
// A present key forces that permission on (true) or off (false); absent
// keys fall through to the role's defaults.
type Overrides map[string]bool

// Resolve answers whether a role holds a permission, given that role's
// override patch (nil when the guild has none). Resolution is pure and
// fail-closed:
//
//  1. A permission id not in the catalog is never granted, overrides
//     included.
//  2. An override entry for the id wins, whichever way it points.
//  3. Otherwise the role's default grant set decides.
func Resolve(role rank.Role, permissionID string, overrides Overrides) bool {
	if !Exists(permissionID) {
		return false
	}

	if overrides != nil {
		if forced, ok := overrides[permissionID]; ok {
			return forced
		}
	}

	return GrantedByDefault(role, permissionID)
}

// ResolveAll reports whether the role holds every listed permission.
// An empty list is vacuously true.
func ResolveAll(role rank.Role, permissionIDs []string, overrides Overrides) bool {
	for _, pid := range permissionIDs {
		if !Resolve(role, pid, overrides) {
			return false
		}
	}
	return true
}

// ResolveAny reports whether the role holds at least one listed
// permission. An empty list is false.
func ResolveAny(role rank.Role, permissionIDs []string, overrides Overrides) bool {
	for _, pid := range permissionIDs {
		if Resolve(role, pid, overrides) {
			return true
		}
	}
	return false
}

// ValidateOverrides rejects an override patch that references unknown
// permission ids or targets a role outside the hierarchy. Storage
// layers call this before persisting so that malformed patches fail
// loudly at write time instead of silently resolving to false forever.
func ValidateOverrides(role rank.Role, overrides Overrides) error {
	if !role.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}

	for pid := range overrides {
		if !Exists(pid) {
			return fmt.Errorf("%w: %q", ErrUnknownPermission, pid)
		}
	}

	return nil
}
