package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-portal/internal/api/dto"
	"github.com/spec-kit/support-portal/internal/domain"
	"github.com/spec-kit/support-portal/internal/service"
)

// AttendantsHandler exposes attendant auth and queue administration.
type AttendantsHandler struct {
	auth       *service.AuthService
	attendants *service.AttendantService
}

// NewAttendantsHandler constructs handler.
func NewAttendantsHandler(authService *service.AuthService, attendantService *service.AttendantService) *AttendantsHandler {
	return &AttendantsHandler{auth: authService, attendants: attendantService}
}

// Login handles POST /auth/attendants/login.
func (h *AttendantsHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	attendant, token, exp, err := h.auth.LoginAttendant(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"attendant": dto.NewAttendantResponse(*attendant),
			"auth":      dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Create handles POST /api/attendants (manager and up).
func (h *AttendantsHandler) Create(c *fiber.Ctx) error {
	var req dto.AttendantCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	attendant, err := h.attendants.CreateAttendant(c.Context(), req.Name, req.Email, req.Password, domain.AttendantRole(req.Role))
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.NewAttendantResponse(*attendant),
	})
}

// List handles GET /api/attendants.
func (h *AttendantsHandler) List(c *fiber.Ctx) error {
	attendants, err := h.attendants.ListAttendants(c.Context())
	if err != nil {
		return err
	}
	out := make([]dto.AttendantResponse, 0, len(attendants))
	for _, a := range attendants {
		out = append(out, dto.NewAttendantResponse(a))
	}
	return c.JSON(fiber.Map{"data": out})
}

// ToggleQueue handles PATCH /api/attendants/:id/queue.
func (h *AttendantsHandler) ToggleQueue(c *fiber.Ctx) error {
	var req dto.ToggleQueueRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	if err := h.attendants.ToggleQueue(c.Context(), c.Params("id"), *req.Active); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"id": c.Params("id"), "active_in_queue": *req.Active}})
}

// ListReasonAssignments handles GET /api/attendants/reason-assignments.
func (h *AttendantsHandler) ListReasonAssignments(c *fiber.Ctx) error {
	assignments, err := h.attendants.ListReasonAssignments(c.Context())
	if err != nil {
		return err
	}
	out := make([]dto.ReasonAssignmentResponse, 0, len(assignments))
	for _, ra := range assignments {
		out = append(out, dto.ReasonAssignmentResponse{Reason: ra.Reason, AttendantIDs: ra.AttendantIDs})
	}
	return c.JSON(fiber.Map{"data": out})
}

// SetReasonAssignment handles PUT /api/attendants/reason-assignments.
func (h *AttendantsHandler) SetReasonAssignment(c *fiber.Ctx) error {
	var req dto.ReasonAssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	if err := h.attendants.SetReasonAssignment(c.Context(), req.Reason, req.AttendantIDs); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"reason": req.Reason, "attendant_ids": req.AttendantIDs}})
}
