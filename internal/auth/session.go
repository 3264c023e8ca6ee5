package auth

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SantaTabla/Shop-Backend/internal/config"
)

// SessionTTL is the lifetime of a cookie session.
const SessionTTL = 6 * time.Hour

// SessionStore persists session rows. Put upserts by user id, so a user holds
// at most one live session.
type SessionStore interface {
	Put(s *Session) error
	Get(sessionID string) (*Session, error)
	Delete(sessionID string) error
}

// GormSessionStore is the Postgres-backed SessionStore.
type GormSessionStore struct {
	DB *gorm.DB
}

func (s *GormSessionStore) Put(session *Session) error {
	var existing Session
	err := s.DB.First(&existing, "user_id = ?", session.UserID).Error
	switch {
	case err == nil:
		return s.DB.Model(&existing).Updates(Session{
			SessionID: session.SessionID,
			ExpiresAt: session.ExpiresAt,
		}).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		return s.DB.Create(session).Error
	default:
		return err
	}
}

func (s *GormSessionStore) Get(sessionID string) (*Session, error) {
	var session Session
	if err := s.DB.First(&session, "session_id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (s *GormSessionStore) Delete(sessionID string) error {
	return s.DB.Where("session_id = ?", sessionID).Delete(&Session{}).Error
}

// SessionCache maps opaque session identifiers to principals for
// cookie-session requests. Serialization keeps the footprint minimal: only
// the user id is stored, the full record is re-fetched on every deserialize.
type SessionCache struct {
	Sessions SessionStore
	Store    UserStore
	Admin    config.AdminConfig
}

// Serialize stores the principal's id under a fresh session id, replacing any
// existing session for the same user.
func (c *SessionCache) Serialize(p Principal) (string, error) {
	sid := uuid.New().String()
	err := c.Sessions.Put(&Session{
		SessionID: sid,
		UserID:    p.ID,
		ExpiresAt: time.Now().Add(SessionTTL),
	})
	if err != nil {
		return "", Internal("failed to persist session", err)
	}
	return sid, nil
}

// Deserialize resolves a session id back to a principal. The administrative
// identity is rebuilt from configuration without a store lookup; any other id
// must resolve to a stored record or the session fails.
func (c *SessionCache) Deserialize(sessionID string) (Principal, error) {
	session, err := c.Sessions.Get(sessionID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Principal{}, Fail(KindInvalidCredentials, "session not found")
		}
		return Principal{}, Internal("session lookup failed", err)
	}
	if session.ExpiresAt.Before(time.Now()) {
		return Principal{}, Fail(KindInvalidCredentials, "session expired")
	}

	if session.UserID == AdminID {
		return AdminPrincipal(c.Admin), nil
	}

	user, err := c.Store.FindByID(session.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Principal{}, Fail(KindInvalidCredentials, "session user no longer exists")
		}
		return Principal{}, Internal("session user lookup failed", err)
	}
	return PrincipalFromUser(user)
}

// Drop deletes a session on logout. Unknown ids are not an error.
func (c *SessionCache) Drop(sessionID string) error {
	return c.Sessions.Delete(sessionID)
}
