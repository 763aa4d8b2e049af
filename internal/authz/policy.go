// Package authz holds the per-endpoint authorization rules as a pure
// policy over token claims. Decisions carry a reason so denials are
// distinguishable in logs (role mismatch vs ownership mismatch); a denial
// never changes state.
package authz

import (
	"ecommerce_api/internal/utils" // Token claims
)

// Action names a role-gated operation.
type Action string

// Actions gated by the policy
const (
	ActionCategoryManage Action = "category:manage" // Create/update/deactivate categories
	ActionProductCreate  Action = "product:create"  // Create products
	ActionProductMutate  Action = "product:mutate"  // Update/deactivate a product
	ActionUserManage     Action = "user:manage"     // Deactivate/reactivate users, switch permissions
	ActionReviewCreate   Action = "review:create"   // Submit a review
	ActionReviewDelete   Action = "review:delete"   // Deactivate a review
)

// Denial reasons
const (
	ReasonRoleMismatch      = "role mismatch"      // Caller lacks the required role
	ReasonOwnershipMismatch = "ownership mismatch" // Caller is a supplier but not the owner
)

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool   // Whether the action may proceed
	Reason  string // Denial reason, empty when allowed
}

func allow() Decision        { return Decision{Allowed: true} }
func deny(r string) Decision { return Decision{Allowed: false, Reason: r} }

// Authorize evaluates the policy for an action. ownerID is the supplier ID
// of the target product for product mutation actions, nil otherwise.
func Authorize(action Action, claims *utils.Claims, ownerID *uint) Decision {
	switch action {
	case ActionCategoryManage, ActionUserManage, ActionReviewDelete:
		// Admin-only actions
		if claims.IsAdmin {
			return allow()
		}
		return deny(ReasonRoleMismatch)
	case ActionProductCreate:
		// Admins and suppliers may create products
		if claims.IsAdmin || claims.IsSupplier {
			return allow()
		}
		return deny(ReasonRoleMismatch)
	case ActionProductMutate:
		// Admins mutate anything; suppliers only their own rows
		if claims.IsAdmin {
			return allow()
		}
		if !claims.IsSupplier {
			return deny(ReasonRoleMismatch)
		}
		if ownerID == nil || *ownerID != claims.UserID {
			return deny(ReasonOwnershipMismatch)
		}
		return allow()
	case ActionReviewCreate:
		// Only customers review products
		if claims.IsCustomer {
			return allow()
		}
		return deny(ReasonRoleMismatch)
	}
	// Unknown actions are never allowed
	return deny(ReasonRoleMismatch)
}
