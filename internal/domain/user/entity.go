package user

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// User represents the users table
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"uniqueIndex"`
	Email        sql.NullString
	PasswordHash string
	DisplayName  string
	Bio          string
	AvatarURL    string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the public projection exposed in conversation listings.
type Profile struct {
	ID        uuid.UUID `json:"_id"`
	Username  string    `json:"username"`
	AvatarURL string    `json:"profilePic"`
}

func (User) TableName() string {
	return "users"
}

// PublicProfile strips everything a stranger should not see.
func (u User) PublicProfile() Profile {
	return Profile{
		ID:        u.ID,
		Username:  u.Username,
		AvatarURL: u.AvatarURL,
	}
}
