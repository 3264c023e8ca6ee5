package auth

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrNotFound is returned by store lookups (users, sessions) that match no
// record.
var ErrNotFound = errors.New("record not found")

// ErrConflict is returned when a write violates the email or github-id
// uniqueness constraint. The store is the sole arbiter of uniqueness;
// concurrent registrations race on it and the loser sees this error.
var ErrConflict = errors.New("unique constraint violated")

// UserStore is the credential-store contract the core consumes. The
// surrounding system owns the records; the core only reads and writes
// through these operations.
type UserStore interface {
	FindByEmail(email string) (*User, error)
	FindByID(id string) (*User, error)
	FindByGithubID(githubID string) (*User, error)
	Create(u *User) error
	Save(u *User) error
	Delete(id string) error
}

// CartProvisioner creates a cart during registration and federated
// first-login. The cart subsystem owns the implementation.
type CartProvisioner interface {
	CreateCart(email string) (string, error)
}

// GormUserStore is the production UserStore over the shop_auth schema.
type GormUserStore struct {
	DB *gorm.DB
}

func (s *GormUserStore) FindByEmail(email string) (*User, error) {
	var u User
	err := s.DB.Preload("Documents").First(&u, "email = ?", email).Error
	return translated(&u, err)
}

func (s *GormUserStore) FindByID(id string) (*User, error) {
	var u User
	err := s.DB.Preload("Documents").First(&u, "user_id = ?", id).Error
	return translated(&u, err)
}

func (s *GormUserStore) FindByGithubID(githubID string) (*User, error) {
	var u User
	err := s.DB.Preload("Documents").First(&u, "github_id = ?", githubID).Error
	return translated(&u, err)
}

func (s *GormUserStore) Create(u *User) error {
	if err := s.DB.Create(u).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (s *GormUserStore) Save(u *User) error {
	if err := s.DB.Save(u).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (s *GormUserStore) Delete(id string) error {
	if err := s.DB.Where("user_id = ?", id).Delete(&Document{}).Error; err != nil {
		return err
	}
	return s.DB.Where("user_id = ?", id).Delete(&User{}).Error
}

func translated(u *User, err error) (*User, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// isUniqueViolation detects Postgres unique_violation (23505) under the pgx
// driver gorm runs on.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
