package auth

import (
	"context"
	"net/http"
	"strings"
)

// AccessCookieName is the cookie that carries the session token.
const AccessCookieName = "access_token"

const claimsKey contextKey = "claims"

// SetAccessCookie attaches the signed token for TokenTTL.
func SetAccessCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(TokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearAccessCookie expires the token cookie.
func ClearAccessCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// extractToken pulls the session token from the access_token cookie or, for
// non-browser clients, an Authorization bearer header.
func extractToken(r *http.Request) string {
	if cookie, err := r.Cookie(AccessCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func tokenStatus(err error) (string, int) {
	if IsKind(err, KindTokenExpired) {
		return "Token expired", http.StatusUnauthorized
	}
	return "Invalid token", http.StatusUnauthorized
}

// TokenMiddleware resolves a token-bearing request to a validated principal
// (the strict bearer mode) and attaches it for the gate. Requests without a
// verifiable token never reach the next handler.
func TokenMiddleware(engine *StrategyEngine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				http.Error(w, "Missing token", http.StatusUnauthorized)
				return
			}
			principal, err := engine.VerifyPrincipal(token)
			if err != nil {
				msg, code := tokenStatus(err)
				http.Error(w, msg, code)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// ClaimsMiddleware is the permissive bearer mode: verified claims pass
// through untouched alongside the principal, for handlers that render the
// full claim set (profile, logout).
func ClaimsMiddleware(engine *StrategyEngine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				http.Error(w, "Missing token", http.StatusUnauthorized)
				return
			}
			claims, err := engine.VerifyClaims(token)
			if err != nil {
				msg, code := tokenStatus(err)
				http.Error(w, msg, code)
				return
			}
			ctx := context.WithValue(r.Context(), claimsKey, claims)
			if principal, err := claims.Principal(); err == nil {
				ctx = WithPrincipal(ctx, principal)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the claim set ClaimsMiddleware attached upstream.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	return claims, ok
}

// SessionMiddleware resolves a cookie-session request to a principal through
// the session cache.
func SessionMiddleware(cache *SessionCache) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie("session_id")
			if err != nil {
				http.Error(w, "Couldn't find cookie", http.StatusUnauthorized)
				return
			}
			principal, err := cache.Deserialize(cookie.Value)
			if err != nil {
				http.Error(w, "Couldn't find session", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}
