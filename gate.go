package muster

import (
	"github.com/xraph/muster/catalog"
	"github.com/xraph/muster/membership"
	"github.com/xraph/muster/rank"
)

// gateDecision evaluates the ownership gate for a resolved actor. It is
// pure: membership and overrides are already loaded, the hierarchy cap
// (which needs a second lookup) is applied by the caller on top.
//
// Evaluation order:
//
//  1. The any-scoped permission grants the action on every member's
//     resources.
//  2. The own-scoped permission grants it only when the actor owns the
//     resource.
//  3. Otherwise deny — as not-owner when the own grant was held but the
//     owner did not match, as no-perms when neither grant was held.
//
// A request with no own permission (plain operations like events_create)
// collapses to step 1.
func gateDecision(role rank.Role, overrides catalog.Overrides, req *AuthorizeRequest) *AuthzResult {
	if req.AnyPermission != "" && catalog.Resolve(role, req.AnyPermission, overrides) {
		return &AuthzResult{
			Allowed:  true,
			Decision: DecisionAllow,
			Reason:   "granted " + req.AnyPermission,
		}
	}

	if req.OwnPermission != "" && catalog.Resolve(role, req.OwnPermission, overrides) {
		if req.OwnerID != "" && req.OwnerID == req.ActorID {
			return &AuthzResult{
				Allowed:  true,
				Decision: DecisionAllow,
				Reason:   "granted " + req.OwnPermission + " as owner",
			}
		}
		return &AuthzResult{
			Decision: DecisionDenyNotOwner,
			Reason:   "holds " + req.OwnPermission + " but does not own the resource",
		}
	}

	return &AuthzResult{
		Decision: DecisionDenyNoPerms,
		Reason:   "role grants neither required permission",
	}
}

// hierarchyCap applies the rank comparison to an any-scoped allow aimed
// at another member. Acting on oneself is ownership, not delegation, so
// self-targets bypass the cap. A missing target membership is reported
// as its own decision so callers can tell a stale target from a rank
// conflict.
func hierarchyCap(actor *membership.Membership, target *membership.Membership, targetUserID string) *AuthzResult {
	if target == nil {
		return &AuthzResult{
			Decision: DecisionDenyUnknownTarget,
			Reason:   "target user " + targetUserID + " is not a guild member",
		}
	}
	if !rank.CanManage(actor.Role, target.Role) {
		return &AuthzResult{
			Decision: DecisionDenyHierarchy,
			Reason:   string(actor.Role) + " cannot manage " + string(target.Role),
		}
	}
	return nil
}
