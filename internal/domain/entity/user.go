// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core entity in the system, representing a unique member account.
// The Points field is a denormalized running balance; it is only ever mutated
// together with a PointTransaction ledger row inside the same database transaction.
type User struct {
	ID           uuid.UUID      // The Global Unique Identifier (GUID) for the user.
	Email        string         // The user's primary contact email, used as the login identifier.
	Name         string         // The user's display name.
	Phone        string         // Optional contact phone number.
	AvatarURL    string         // Public URL of the user's avatar in the avatars bucket.
	Roles        []string       // Role names ("user", "admin") carried into JWT claims.
	Points       int            // Denormalized point balance; source of truth is the ledger.
	ExtendedData map[string]any // Free-form JSON blob: admin flags, social links, optional profile fields.
	CreatedAt    time.Time      // Timestamp of when this user account was created.
	UpdatedAt    time.Time      // Timestamp of the last modification to this user's data.
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	for _, role := range u.Roles {
		if role == "admin" {
			return true
		}
	}

	return false
}
