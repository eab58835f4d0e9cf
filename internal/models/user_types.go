package models

import (
	"strings"
	"time"
)

// User is the persisted account record.
type User struct {
	ID           string    `json:"id" db:"id" bson:"_id"`
	Email        string    `json:"email" db:"email" bson:"email"`
	Name         string    `json:"name" db:"name" bson:"name"`
	PasswordHash string    `json:"-" db:"password_hash" bson:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at" bson:"created_at"`
}

// PublicProfile is the part of a User that is safe to send to clients.
type PublicProfile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u *User) PublicProfile() PublicProfile {
	return PublicProfile{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}

// Identity is the minimal user view attached to authenticated requests.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Name: u.Name, Email: u.Email}
}

// NormalizeEmail trims and lower-cases an address. Emails are unique on this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
