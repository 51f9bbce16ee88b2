package domain

import "time"

// AttendantRole enumerates internal operator roles.
type AttendantRole string

const (
	RoleAttendant AttendantRole = "ATTENDANT"
	RoleManager   AttendantRole = "MANAGER"
	RoleDirector  AttendantRole = "DIRECTOR"
)

// Attendant models a portal operator. ActiveInQueue controls membership in
// the support-domain rotation and is flipped by an operator toggle.
type Attendant struct {
	ID            string
	Name          string
	Email         string
	PasswordHash  string
	Role          AttendantRole
	ActiveInQueue bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ReasonAssignment maps a ticket reason to the attendants that handle it.
// A non-empty set takes precedence over the round-robin rotation.
type ReasonAssignment struct {
	Reason       string
	AttendantIDs []string
}
