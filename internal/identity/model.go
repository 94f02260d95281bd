package identity

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the public projection of a user shown next to their comments
type Profile struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"fullName"`
	Username string    `json:"username"`
	Avatar   string    `json:"avatar"`
}

// User is the slice of the identity service's users table this service reads.
// The table is owned by the identity service; the model is migrated here only
// for local development.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username  string    `gorm:"uniqueIndex;not null"`
	FullName  string    `gorm:"column:full_name"`
	Avatar    string
	Email     string `gorm:"uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for users
func (User) TableName() string {
	return "users"
}

// Profile projects the public fields
func (u *User) Profile() Profile {
	return Profile{
		ID:       u.ID,
		FullName: u.FullName,
		Username: u.Username,
		Avatar:   u.Avatar,
	}
}
