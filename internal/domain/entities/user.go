package entities

import (
	"strings"
	"time"
)

// User represents a bot user. Created lazily on first contact from the
// Telegram profile and treated as immutable afterwards.
type User struct {
	ID        int64 // Telegram user ID
	ChatID    int64
	FirstName string
	LastName  string
	Username  string
	CreatedAt time.Time
}

func NewUser(id, chatID int64, firstName, lastName, username string) *User {
	return &User{
		ID:        id,
		ChatID:    chatID,
		FirstName: firstName,
		LastName:  lastName,
		Username:  username,
	}
}

// FullName joins the first and last name, dropping whichever is empty.
func (u *User) FullName() string {
	parts := make([]string, 0, 2)
	for _, p := range []string{u.FirstName, u.LastName} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
