package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"  json:"id"`
	Username     string    `gorm:"uniqueIndex;not null"  json:"username"`
	PasswordHash string    `gorm:"not null"              json:"-"`
	DisplayName  string    `gorm:"not null"              json:"displayName"`
	Roles        []Role    `gorm:"many2many:user_roles"  json:"roles"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// PrimaryRole is the single role name stamped into access tokens. Roles are
// preloaded ordered by id, so the first assigned role wins.
func (u *User) PrimaryRole() string {
	if len(u.Roles) == 0 {
		return ""
	}
	return u.Roles[0].Name
}

type Role struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	Name string `gorm:"uniqueIndex;not null"     json:"name"`
}

// RefreshToken is one link of a rotation chain. Token holds the sha256 hex of
// the opaque secret given to the client; the plaintext is never stored. Rows
// are flipped to Valid=false on rotation or revocation, never deleted, so the
// full chain stays queryable for fraud detection.
type RefreshToken struct {
	Token     string    `gorm:"primaryKey"                          json:"-"`
	UserID    uuid.UUID `gorm:"type:uuid;index:idx_refresh_family"  json:"user_id"`
	JTI       string    `gorm:"index:idx_refresh_family;not null"   json:"jti"`
	ExpiresAt int64     `gorm:"not null"                            json:"expires_at"`
	Valid     bool      `gorm:"not null;default:true"               json:"valid"`
}
