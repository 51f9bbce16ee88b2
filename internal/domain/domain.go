package domain

import "errors"

// Domain tags which ticket shape and status set applies.
type Domain string

const (
	DomainSupport     Domain = "SUPPORT"
	DomainCollections Domain = "COLLECTIONS_SUPPORT"
	DomainPostAward   Domain = "POST_AWARD"
)

// Valid reports whether the domain tag is one of the three portal domains.
func (d Domain) Valid() bool {
	switch d {
	case DomainSupport, DomainCollections, DomainPostAward:
		return true
	}
	return false
}

// SubjectType identifies the kind of authenticated principal.
type SubjectType string

const (
	SubjectTypeUser      SubjectType = "END_USER"
	SubjectTypeAttendant SubjectType = "ATTENDANT"
)

// DisplayStatus is a status value computed for presentation. It is derived
// from the stored status plus the SLA clock and is never written back to a
// ticket.
type DisplayStatus string

// DisplayOutOfSLA overlays a freshly-opened stored status once the elapsed
// business hours exceed the SLA threshold.
const DisplayOutOfSLA DisplayStatus = "OUT_OF_SLA"

// ErrInvalidStatus is returned when a status value does not belong to the
// ticket's domain. Membership is the only rule: operators may move a ticket
// to any value of its own domain, including backwards.
var ErrInvalidStatus = errors.New("status value not recognized for domain")
