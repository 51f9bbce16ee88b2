package dto

import (
	"time"

	"github.com/spec-kit/support-portal/internal/domain"
)

// AttendantCreateRequest payload for registering an attendant.
type AttendantCreateRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"required,oneof=ATTENDANT MANAGER DIRECTOR"`
}

// ToggleQueueRequest payload for queue membership.
type ToggleQueueRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// ReasonAssignmentRequest payload; an empty attendant list removes the
// override for the reason.
type ReasonAssignmentRequest struct {
	Reason       string   `json:"reason" validate:"required,max=120"`
	AttendantIDs []string `json:"attendant_ids"`
}

// AttendantResponse is the wire form of an attendant.
type AttendantResponse struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	Email         string               `json:"email"`
	Role          domain.AttendantRole `json:"role"`
	ActiveInQueue bool                 `json:"active_in_queue"`
	CreatedAt     time.Time            `json:"created_at"`
}

// ReasonAssignmentResponse is one row of the reason-assignment table.
type ReasonAssignmentResponse struct {
	Reason       string   `json:"reason"`
	AttendantIDs []string `json:"attendant_ids"`
}

// NewAttendantResponse maps an attendant for the wire.
func NewAttendantResponse(a domain.Attendant) AttendantResponse {
	return AttendantResponse{
		ID:            a.ID,
		Name:          a.Name,
		Email:         a.Email,
		Role:          a.Role,
		ActiveInQueue: a.ActiveInQueue,
		CreatedAt:     a.CreatedAt,
	}
}
