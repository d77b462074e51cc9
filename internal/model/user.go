package model

import (
	"strings"
	"time"
)

// Role enum constants
const (
	RoleUser   = "user"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

// User is the current-account record as returned by the backend. Exactly one
// copy is authoritative at a time; the cached copy in the local store is
// demoted as soon as a fresher server copy lands.
type User struct {
	ID        int64     `json:"id"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Image     string    `json:"image,omitempty"` // URL or data-URI
	Role      string    `json:"role"`            // user, seller, admin
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullName joins the name parts, tolerating either being empty.
func (u User) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
}

// UserPatch carries partial profile fields for an optimistic merge after a
// profile update has already succeeded upstream. Nil pointers mean "unchanged".
type UserPatch struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Image     *string `json:"image,omitempty"`
}

// Apply merges the patch into a copy of the user and returns it.
func (p UserPatch) Apply(u User) User {
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Image != nil {
		u.Image = *p.Image
	}
	return u
}
