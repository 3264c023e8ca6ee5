package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/SantaTabla/Shop-Backend/internal/config"
)

// StrategyEngine evaluates the named authentication strategies against the
// credential store. It is constructed once with its collaborators injected
// and passed to handlers; there is no ambient registry.
type StrategyEngine struct {
	Store  UserStore
	Carts  CartProvisioner
	Hasher Hasher
	Codec  *Codec
	Admin  config.AdminConfig
}

func NewStrategyEngine(store UserStore, carts CartProvisioner, codec *Codec, admin config.AdminConfig) *StrategyEngine {
	return &StrategyEngine{Store: store, Carts: carts, Codec: codec, Admin: admin}
}

// RegisterForm is the local-registration payload.
type RegisterForm struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Age       int    `json:"age"`
	Password  string `json:"password"`
}

var nameCaser = cases.Title(language.Und)

// Register creates a local account. An existing record with the same email
// fails with EMAIL_TAKEN — including the case where a concurrent registration
// wins the store's uniqueness race between our lookup and our insert.
func (e *StrategyEngine) Register(form RegisterForm) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(form.Email))

	_, err := e.Store.FindByEmail(email)
	if err == nil {
		return nil, Fail(KindEmailTaken, "there is already a user with that email")
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, Internal("register lookup failed", err)
	}

	hashed, err := e.Hasher.Hash(form.Password)
	if err != nil {
		return nil, Internal("failed to hash password", err)
	}

	cartID, err := e.Carts.CreateCart(email)
	if err != nil {
		return nil, Internal("failed to provision cart", err)
	}

	user := &User{
		UserID:         uuid.New().String(),
		FirstName:      nameCaser.String(strings.TrimSpace(form.FirstName)),
		LastName:       nameCaser.String(strings.TrimSpace(form.LastName)),
		Email:          &email,
		Age:            form.Age,
		HashedPassword: hashed,
		Role:           RoleUser,
		Provider:       "local",
		CartID:         &cartID,
	}
	if err := e.Store.Create(user); err != nil {
		if errors.Is(err, ErrConflict) {
			// Cart before account, so losing the uniqueness race strands the
			// cart just provisioned above. Nothing ever references it.
			return nil, Fail(KindEmailTaken, "there is already a user with that email")
		}
		return nil, Internal("failed to create user", err)
	}
	return user, nil
}

// Login authenticates email+password. The configured admin credentials are
// checked before any store lookup — deliberately, so a stored record sharing
// the admin email can never shadow the out-of-band administrator. The admin
// compare is a direct string match; no hash is involved.
func (e *StrategyEngine) Login(email, password string) (*User, error) {
	if email == e.Admin.Email && password == e.Admin.Password {
		adminEmail := e.Admin.Email
		return &User{
			UserID:    AdminID,
			FirstName: "Admin",
			LastName:  "Coder",
			Email:     &adminEmail,
			Role:      RoleAdmin,
		}, nil
	}

	user, err := e.Store.FindByEmail(email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, Fail(KindInvalidCredentials, "email or password invalid")
		}
		return nil, Internal("login lookup failed", err)
	}
	if !e.Hasher.Verify(password, user.HashedPassword) {
		return nil, Fail(KindInvalidCredentials, "email or password invalid")
	}
	return user, nil
}

// FederatedLogin resolves a GitHub profile to a record. Three branches:
// no profile email → match by github id or create an email-less record;
// profile email matches an existing record → return it unchanged (the github
// id is NOT linked to it; a later login with the same github id would miss it
// by id and take the duplicate-record path — preserved, known gap);
// otherwise → provision a cart and create a linked record.
func (e *StrategyEngine) FederatedLogin(githubID, profileEmail, name string) (*User, error) {
	if profileEmail == "" {
		user, err := e.Store.FindByGithubID(githubID)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, Internal("federated lookup failed", err)
		}
		user = &User{
			UserID:    uuid.New().String(),
			FirstName: name,
			Role:      RoleUser,
			Provider:  "Github",
			GithubID:  &githubID,
		}
		if err := e.Store.Create(user); err != nil {
			return nil, Internal("failed to create federated user", err)
		}
		return user, nil
	}

	user, err := e.Store.FindByEmail(profileEmail)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, Internal("federated lookup failed", err)
	}

	cartID, err := e.Carts.CreateCart(profileEmail)
	if err != nil {
		return nil, Internal("failed to provision cart", err)
	}
	email := profileEmail
	user = &User{
		UserID:    uuid.New().String(),
		FirstName: name,
		Email:     &email,
		Role:      RoleUser,
		Provider:  "Github",
		GithubID:  &githubID,
		CartID:    &cartID,
	}
	if err := e.Store.Create(user); err != nil {
		return nil, Internal("failed to create federated user", err)
	}
	return user, nil
}

// VerifyClaims is the permissive bearer mode: verified claims pass through
// as-is. Fails closed on any codec failure.
func (e *StrategyEngine) VerifyClaims(token string) (*Claims, error) {
	return e.Codec.Verify(token)
}

// VerifyPrincipal is the strict bearer mode: verified claims are re-wrapped
// into a validated Principal.
func (e *StrategyEngine) VerifyPrincipal(token string) (Principal, error) {
	claims, err := e.Codec.Verify(token)
	if err != nil {
		return Principal{}, err
	}
	return claims.Principal()
}

// BackfillEmail completes email capture for a federated account: the email
// must not belong to another record, and a cart is provisioned if the account
// never got one.
func (e *StrategyEngine) BackfillEmail(userID, email string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := e.Store.FindByEmail(email)
	if err == nil && existing.UserID != userID {
		return nil, Fail(KindEmailTaken, "that email can't be used")
	}
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, Internal("email lookup failed", err)
	}

	user, err := e.Store.FindByID(userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, Fail(KindInvalidCredentials, "user not found")
		}
		return nil, Internal("user lookup failed", err)
	}

	user.Email = &email
	if user.CartID == nil {
		cartID, err := e.Carts.CreateCart(email)
		if err != nil {
			return nil, Internal("failed to provision cart", err)
		}
		user.CartID = &cartID
	}
	if err := e.Store.Save(user); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, Fail(KindEmailTaken, "that email can't be used")
		}
		return nil, Internal("failed to save user", err)
	}
	return user, nil
}

// TouchLastConnection stamps the record's last activity. The admin principal
// has no record to stamp.
func (e *StrategyEngine) TouchLastConnection(userID string) error {
	if userID == AdminID {
		return nil
	}
	user, err := e.Store.FindByID(userID)
	if err != nil {
		return err
	}
	now := time.Now()
	user.LastConnection = &now
	return e.Store.Save(user)
}
