// Package domain contains core concepts of the chat system.
// This file defines User identity and the application-wide ban flag.
package domain

import (
	"slices"
	"time"
)

// Roles carried by a User. Privilege is an explicit capability on the
// account, never inferred from a user name.
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
)

// User is an account known to the directory. Users are never physically
// deleted; banning flips a reversible flag and leaves all data untouched.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Roles        []string  `json:"roles"`
	Banned       bool      `json:"banned"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}
