// Package rights decides whether an acting identity may touch a target
// resource. Decisions are plain values the caller has to branch on; nothing
// in this package writes a response or touches the database.
package rights

import "github.com/wimf-app/wimf/internal/model"

// Identity is the acting or target account as loaded from the store.
type Identity struct {
	ID   int64
	Role model.Role
}

// Decision is the outcome of an authorization check. Reason carries the
// user-facing French message for a denial and is empty on an allow.
type Decision struct {
	Allowed bool
	Reason  string
}

// Allow returns a positive decision.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny returns a negative decision with the given user-facing reason.
func Deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

const (
	// ReasonNotAuthorized is the catch-all denial message.
	ReasonNotAuthorized = "Tu n'es pas autorisé à réaliser cette action"
	// ReasonProfileOffLimits denies access to another account's profile.
	ReasonProfileOffLimits = "Tu n'as pas le droit de consulter ce profil"
)

// CanAccessUser applies the self-or-escalated-role rule guarding user
// profile reads, updates and deletions:
//
//   - nil actor (not found in the store) is always denied
//   - a Member may only touch their own record
//   - a Moderator may touch Members and themself, never another Moderator
//     or an Administrator
//   - an Administrator record may only be touched by that Administrator
func CanAccessUser(actor *Identity, target Identity) Decision {
	if actor == nil {
		return Deny(ReasonNotAuthorized)
	}
	if actor.ID == target.ID {
		return Allow()
	}
	switch {
	case target.Role == model.RoleAdministrator:
		return Deny(ReasonNotAuthorized)
	case actor.Role == model.RoleAdministrator:
		return Allow()
	case actor.Role == model.RoleModerator && target.Role == model.RoleMember:
		return Allow()
	default:
		return Deny(ReasonProfileOffLimits)
	}
}

// CanActOnOwned applies the ownership rule guarding per-user resources
// (banned ingredients, diet links, reviews): only the owner may act on
// them, except Administrators who bypass ownership entirely.
func CanActOnOwned(actor *Identity, ownerID int64) Decision {
	if actor == nil {
		return Deny(ReasonNotAuthorized)
	}
	if actor.Role == model.RoleAdministrator || actor.ID == ownerID {
		return Allow()
	}
	return Deny(ReasonNotAuthorized)
}

// CanModerate reports whether the actor holds at least Moderator rank.
// Used by listing endpoints reserved to the moderation team.
func CanModerate(actor *Identity) Decision {
	if actor == nil || !actor.Role.AtLeast(model.RoleModerator) {
		return Deny(ReasonNotAuthorized)
	}
	return Allow()
}
