// Package models defines server-side data models persisted in the database.
package models

import "time"

// Account is a registered user. PasswordHash is a bcrypt hash used only for
// authentication; file encryption keys are derived from the raw password at
// login time and never stored.
type Account struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash []byte
	Role         string
	CreatedAt    time.Time
}

// RoleUser is the default role assigned at registration.
const RoleUser = "user"
