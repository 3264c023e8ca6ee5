package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the lifetime of a session token. The cookie carrying it uses
// the same duration.
const TokenTTL = 30 * time.Minute

// Claims is the fixed claim set embedded in a session token. Verification is
// stateless: any holder of the signing secret can check it without a store
// lookup.
type Claims struct {
	UserID    string     `json:"_id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email"`
	Age       int        `json:"age"`
	Role      string     `json:"role"`
	Cart      string     `json:"cart"`
	Documents []Document `json:"documents,omitempty"`
	jwt.RegisteredClaims
}

// Codec signs and verifies session tokens with a server secret. Now is
// injectable so expiry can be exercised in tests.
type Codec struct {
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

func NewCodec(secret string) *Codec {
	return &Codec{Secret: []byte(secret), TTL: TokenTTL, Now: time.Now}
}

// ClaimsFromUser projects a stored record into the token claim set.
func ClaimsFromUser(u *User) Claims {
	return Claims{
		UserID:    u.UserID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.EmailOrEmpty(),
		Age:       u.Age,
		Role:      u.Role,
		Cart:      u.CartOrEmpty(),
		Documents: u.Documents,
	}
}

// ClaimsFromPrincipal projects a principal (the fixed admin identity has no
// stored record to project from).
func ClaimsFromPrincipal(p Principal) Claims {
	return Claims{
		UserID: p.ID,
		Email:  p.Email,
		Role:   p.Role,
		Cart:   p.Cart,
	}
}

// Issue serializes the claim set, stamps the expiry and signs it.
func (c *Codec) Issue(cl Claims) (string, error) {
	now := c.Now()
	cl.IssuedAt = jwt.NewNumericDate(now)
	cl.ExpiresAt = jwt.NewNumericDate(now.Add(c.TTL))
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, cl)
	signed, err := token.SignedString(c.Secret)
	if err != nil {
		return "", Internal("failed to sign token", err)
	}
	return signed, nil
}

// Verify checks signature and expiry, failing closed: no claims are returned
// on any verification error.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return c.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.Now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, Fail(KindTokenExpired, "token expired")
		}
		return nil, Fail(KindTokenInvalidSignature, "invalid token")
	}
	if !token.Valid {
		return nil, Fail(KindTokenInvalidSignature, "invalid token")
	}
	return claims, nil
}

// Principal re-wraps verified claims into a validated Principal. This is the
// strict bearer mode; the permissive mode hands the claims through as-is.
func (cl *Claims) Principal() (Principal, error) {
	return NewPrincipal(cl.UserID, cl.Cart, cl.Role, cl.Email)
}
