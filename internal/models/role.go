package models

import "github.com/google/uuid"

// Role is the caller identity kind. Authorization checks switch on it
// exhaustively instead of comparing raw strings.
type Role string

const (
	RoleFan     Role = "FAN"
	RoleFlorist Role = "FLORIST"
	RoleAdmin   Role = "ADMIN"
	RoleGuest   Role = "GUEST"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleFan, RoleFlorist, RoleAdmin, RoleGuest:
		return true
	}
	return false
}

// Actor identifies the authenticated caller of an operation. Guests
// carry uuid.Nil and a name/email pair captured at pledge time.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

func (a Actor) IsAdmin() bool   { return a.Role == RoleAdmin }
func (a Actor) IsFlorist() bool { return a.Role == RoleFlorist }
func (a Actor) IsFan() bool     { return a.Role == RoleFan }
func (a Actor) IsGuest() bool   { return a.Role == RoleGuest }
