package auth

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SantaTabla/Shop-Backend/internal/config"
	"github.com/SantaTabla/Shop-Backend/internal/mail"
)

// Handlers is the HTTP surface over the auth core. Everything it needs is
// injected once at setup.
type Handlers struct {
	Engine   *StrategyEngine
	Codec    *Codec
	Sessions *SessionCache
	Reset    *ResetCoordinator
	Github   *GithubClient
	Mailer   mail.Notifier
	Cfg      config.Config
}

func (h *Handlers) issueCookies(w http.ResponseWriter, user *User) error {
	token, err := h.Codec.Issue(ClaimsFromUser(user))
	if err != nil {
		return err
	}
	SetAccessCookie(w, token)

	principal, err := PrincipalFromUser(user)
	if err != nil {
		return err
	}
	sid, err := h.Sessions.Serialize(principal)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "session_id",
		Value:    sid,
		Path:     "/",
		MaxAge:   int(SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// RegisterHandler handles POST /sessions/register.
func (h *Handlers) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var form RegisterForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}
	if form.Email == "" || form.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.Engine.Register(form)
	if err != nil {
		switch KindOf(err) {
		case KindEmailTaken:
			http.Error(w, "There is already a user with that email", http.StatusConflict)
		default:
			log.Println("register:", err)
			http.Error(w, "Failed to register user", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{
		"user_id": user.UserID,
		"email":   user.EmailOrEmpty(),
	})
}

// LoginHandler handles POST /sessions/login. On success it sets the signed
// access_token cookie and a session cookie, and stamps last connection for
// stored (non-admin) accounts.
func (h *Handlers) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	user, err := h.Engine.Login(creds.Email, creds.Password)
	if err != nil {
		switch KindOf(err) {
		case KindInvalidCredentials:
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		default:
			log.Println("login:", err)
			http.Error(w, "Login failed", http.StatusInternalServerError)
		}
		return
	}

	if user.UserID != AdminID {
		if err := h.Engine.TouchLastConnection(user.UserID); err != nil {
			log.Println("login: last connection:", err)
		}
	}

	if err := h.issueCookies(w, user); err != nil {
		log.Println("login: issue:", err)
		http.Error(w, "Login failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"user_id": user.UserID,
		"role":    user.Role,
	})
}

// CurrentHandler handles GET /sessions/current behind ClaimsMiddleware: the
// verified claim set is returned as-is.
func (h *Handlers) CurrentHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"user": claims})
}

// ProfileHandler handles GET /sessions/profile behind SessionMiddleware: the
// cookie-session alternative to the token-based current endpoint. The session
// cache re-reads the record, so a role change shows up here before the token
// is refreshed.
func (h *Handlers) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, "Authorization error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(principal)
}

// LogoutHandler handles GET /sessions/logout.
func (h *Handlers) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}

	if claims.UserID != AdminID {
		if err := h.Engine.TouchLastConnection(claims.UserID); err != nil {
			log.Println("logout: last connection:", err)
		}
	}
	if cookie, err := r.Cookie("session_id"); err == nil {
		if err := h.Sessions.Drop(cookie.Value); err != nil {
			log.Println("logout: drop session:", err)
		}
	}
	ClearAccessCookie(w)

	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Logout successful")
}

// GithubHandler handles GET /sessions/github: sends the browser to GitHub.
func (h *Handlers) GithubHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.Github.AuthorizeURL(), http.StatusFound)
}

// GithubCallbackHandler handles GET /sessions/github-callback: exchanges the
// code, resolves the profile through the federated strategy and issues the
// token. Accounts still missing an email land on the email-capture page.
func (h *Handlers) GithubCallbackHandler(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	accessToken, err := h.Github.Exchange(code)
	if err != nil {
		log.Println("github callback: exchange:", err)
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	profile, err := h.Github.FetchProfile(accessToken)
	if err != nil {
		log.Println("github callback: profile:", err)
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	user, err := h.Engine.FederatedLogin(profile.ID, profile.Email, profile.Name)
	if err != nil {
		log.Println("github callback: strategy:", err)
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	token, err := h.Codec.Issue(ClaimsFromUser(user))
	if err != nil {
		log.Println("github callback: issue:", err)
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	SetAccessCookie(w, token)

	if user.Email == nil {
		http.Redirect(w, r, "/login-github", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/api/products", http.StatusFound)
}

// LoginGithubHandler handles POST /sessions/login-github behind
// ClaimsMiddleware: a federated account without an email submits one, gets a
// cart if needed, and receives a refreshed token.
func (h *Handlers) LoginGithubHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email == "" {
		http.Error(w, "Email is required", http.StatusBadRequest)
		return
	}
	if claims.Email != "" {
		http.Error(w, "Account already has an email", http.StatusBadRequest)
		return
	}

	user, err := h.Engine.BackfillEmail(claims.UserID, body.Email)
	if err != nil {
		switch KindOf(err) {
		case KindEmailTaken:
			http.Error(w, "That email can't be used", http.StatusConflict)
		default:
			log.Println("login-github:", err)
			http.Redirect(w, r, "/login", http.StatusFound)
		}
		return
	}

	token, err := h.Codec.Issue(ClaimsFromUser(user))
	if err != nil {
		log.Println("login-github: issue:", err)
		http.Error(w, "Login failed", http.StatusInternalServerError)
		return
	}
	SetAccessCookie(w, token)
	http.Redirect(w, r, "/api/products", http.StatusFound)
}

// ChangePasswordHandler handles POST /sessions/changePassword: issues a reset
// token and mails the link. An unknown email redirects back to the request
// page (the found/not-found paths are observably different; kept as-is).
func (h *Handlers) ChangePasswordHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email == "" {
		http.Error(w, "Email is required", http.StatusBadRequest)
		return
	}

	user, token, err := h.Reset.Issue(body.Email)
	if err != nil {
		if err == ErrNotFound {
			http.Redirect(w, r, "/changePassword", http.StatusSeeOther)
			return
		}
		log.Println("change password:", err)
		http.Error(w, "Failed to issue reset", http.StatusInternalServerError)
		return
	}

	link := fmt.Sprintf("%s/resetPassword/%s/%s", h.Cfg.WebURL, user.UserID, token)
	text := fmt.Sprintf("Hello from the santa tabla shop!\n"+
		"Do you want to change your password?\n"+
		"Click the following link and follow the instructions:\n%s\n"+
		"If you didn't request a new password, please ignore this message.", link)
	if err := h.Mailer.Deliver(user.EmailOrEmpty(), "Reset your password", text); err != nil {
		log.Println("change password: mail:", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "waiting"})
}

// ResetPasswordHandler handles GET /resetPassword/{uid}/{token}: the link
// target. A valid token unlocks the credential-update step; anything else
// goes back to the request page.
func (h *Handlers) ResetPasswordHandler(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	token := chi.URLParam(r, "token")

	status, err := h.Reset.Validate(uid, token)
	if err != nil {
		log.Println("reset password:", err)
	}
	if status != ResetValid {
		http.Redirect(w, r, "/changePassword", http.StatusSeeOther)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status": string(ResetValid),
		"uid":    uid,
		"token":  token,
	})
}

// TrueChangePasswordHandler handles POST /sessions/trueChangePassword: the
// actual credential update.
func (h *Handlers) TrueChangePasswordHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UID      string `json:"uid"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.UID == "" || body.Password == "" {
		http.Error(w, "User id and password are required", http.StatusBadRequest)
		return
	}

	err := h.Reset.Redeem(body.UID, body.Password)
	switch {
	case err == nil:
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	case err == ErrNotFound:
		http.Redirect(w, r, "/changePassword", http.StatusSeeOther)
	case IsKind(err, KindResetSamePassword):
		http.Error(w, "You can't use the same password", http.StatusUnauthorized)
	default:
		log.Println("true change password:", err)
		http.Error(w, "Failed to update password", http.StatusInternalServerError)
	}
}
