package auth

import (
	"net/http"
)

// Access tiers. Every protected route declares one; the gate admits or
// rejects the already-resolved principal.
//
//	Tier 1: any authenticated principal.
//	Tier 2: admin only.
//	Tier 3: user or premium.
//	Tier 4: admin or premium.
const (
	TierAny         = 1
	TierAdmin       = 2
	TierCustomer    = 3
	TierContributor = 4
)

// CheckTier classifies the principal against the required tier. It never
// resolves a principal itself and converts every internal fault into a
// structured authorization error rather than propagating it raw.
func CheckTier(tier int, p Principal) error {
	switch tier {
	case TierAny:
		return nil
	case TierAdmin:
		if p.Role == RoleAdmin {
			return nil
		}
		return Fail(KindForbidden, "you are not authorized to perform this action")
	case TierCustomer:
		if p.Role == RoleUser || p.Role == RolePremium {
			return nil
		}
		return Fail(KindRoleRequired, "user level required")
	case TierContributor:
		if p.Role == RoleAdmin || p.Role == RolePremium {
			return nil
		}
		return Fail(KindRoleRequired, "admin or premium level required")
	default:
		return Fail(KindInternal, "unknown access tier")
	}
}

// RequireTier is the middleware form of CheckTier. It must run strictly after
// a resolution middleware; a missing principal is an authorization fault, not
// a panic.
func RequireTier(tier int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				http.Error(w, "Authorization error", http.StatusInternalServerError)
				return
			}
			if err := CheckTier(tier, p); err != nil {
				switch KindOf(err) {
				case KindForbidden:
					http.Error(w, "You are not authorized to perform this action", http.StatusForbidden)
				case KindRoleRequired:
					http.Error(w, "Required role is missing", http.StatusMethodNotAllowed)
				default:
					http.Error(w, "Authorization error", http.StatusInternalServerError)
				}
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
