package auth

import "time"

// User is the stored identity + authorization record. Email and GithubID are
// pointers with unique indexes: Postgres treats NULLs as distinct, which gives
// the sparse-unique behavior federated accounts need while they have no email
// yet. A record must carry at least one of the two.
type User struct {
	UserID         string     `gorm:"primaryKey" json:"user_id"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Email          *string    `gorm:"uniqueIndex" json:"email"`
	Age            int        `json:"age"`
	Password       string     `json:"password" gorm:"-"`
	HashedPassword string     `json:"-"`
	Role           string     `gorm:"default:'user'" json:"role"`
	CartID         *string    `json:"cart"`
	Provider       string     `gorm:"default:'local'" json:"provider"`
	GithubID       *string    `gorm:"uniqueIndex" json:"github_id"`
	ResetToken     *string    `json:"-"`
	ResetIssuedAt  *time.Time `json:"-"`
	LastConnection *time.Time `json:"last_connection"`
	Documents      []Document `gorm:"foreignKey:UserID" json:"documents"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Document is a file a user attached to their account. Upload types id,
// creditCard and houseLocation gate the premium upgrade.
type Document struct {
	ID         string `gorm:"primaryKey" json:"id"`
	UserID     string `gorm:"not null;index" json:"-"`
	Name       string `json:"name"`
	Reference  string `json:"reference"`
	UploadType string `json:"upload_type"`
}

// Session backs cookie-session requests. Only the user id is stored; the full
// principal is rebuilt from the users table on every deserialize.
type Session struct {
	SessionID string    `gorm:"primaryKey" json:"-"`
	UserID    string    `gorm:"not null;unique" json:"-"`
	ExpiresAt time.Time `gorm:"not null"`
}

func (User) TableName() string     { return "shop_auth.users" }
func (Document) TableName() string { return "shop_auth.documents" }
func (Session) TableName() string  { return "shop_auth.sessions" }

// EmailOrEmpty returns the user's email, or "" for federated accounts that
// have not completed email capture.
func (u *User) EmailOrEmpty() string {
	if u.Email == nil {
		return ""
	}
	return *u.Email
}

// CartOrEmpty returns the user's cart id, or "" before the first assignment.
func (u *User) CartOrEmpty() string {
	if u.CartID == nil {
		return ""
	}
	return *u.CartID
}
