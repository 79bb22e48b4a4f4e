package dbschema

import (
	"strings"
	"time"

	"github.com/janhq/arena-server/internal/domain/user"
)

// User is a persisted account. UsernameKey is the lower-cased username used
// for case-insensitive uniqueness.
type User struct {
	ID           string    `gorm:"type:varchar(64);primaryKey"`
	Username     string    `gorm:"type:varchar(50);not null"`
	UsernameKey  string    `gorm:"type:varchar(50);not null;uniqueIndex:ux_users_username_key"`
	Email        string    `gorm:"type:varchar(320)"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (User) TableName() string {
	return "users"
}

// UsernameKey normalizes a username for lookups.
func UsernameKey(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func NewSchemaUser(u *user.User) *User {
	return &User{
		ID:           u.ID,
		Username:     u.Username,
		UsernameKey:  UsernameKey(u.Username),
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
}

func (u *User) EtoD() *user.User {
	return &user.User{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt.UTC(),
	}
}
