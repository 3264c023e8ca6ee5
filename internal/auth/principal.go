package auth

import "github.com/SantaTabla/Shop-Backend/internal/config"

// Role values. The store enforces the default; the gate only ever compares
// against these three.
const (
	RoleUser    = "user"
	RolePremium = "premium"
	RoleAdmin   = "admin"
)

// AdminID is the fixed identifier of the configuration-derived administrator.
// It never appears in the users table.
const AdminID = "admin"

// Principal is the authenticated actor attached to a request: the reduced
// projection of a User that authorization decisions run on.
type Principal struct {
	ID    string `json:"id"`
	Cart  string `json:"cart"`
	Role  string `json:"role"`
	Email string `json:"email"`
}

// NewPrincipal builds a Principal and rejects incomplete ones: id, cart, role
// and email are all required. The fixed administrative principal is the single
// exemption — it has no cart because it has no stored record.
func NewPrincipal(id, cart, role, email string) (Principal, error) {
	if id == "" || role == "" || email == "" {
		return Principal{}, Fail(KindInternal, "principal is missing required fields")
	}
	if cart == "" && id != AdminID {
		return Principal{}, Fail(KindInternal, "principal is missing required fields")
	}
	return Principal{ID: id, Cart: cart, Role: role, Email: email}, nil
}

// PrincipalFromUser projects a stored record into a Principal.
func PrincipalFromUser(u *User) (Principal, error) {
	return NewPrincipal(u.UserID, u.CartOrEmpty(), u.Role, u.EmailOrEmpty())
}

// AdminPrincipal is the fixed administrative identity. It is not persisted,
// not deletable, and exempt from the cart invariant.
func AdminPrincipal(admin config.AdminConfig) Principal {
	return Principal{
		ID:    AdminID,
		Role:  RoleAdmin,
		Email: admin.Email,
	}
}

// IsAdmin reports whether p is the out-of-band administrator.
func (p Principal) IsAdmin() bool { return p.ID == AdminID }
