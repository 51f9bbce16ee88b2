package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-portal/internal/api/dto"
	"github.com/spec-kit/support-portal/internal/auth"
	"github.com/spec-kit/support-portal/internal/domain"
	"github.com/spec-kit/support-portal/internal/events"
	"github.com/spec-kit/support-portal/internal/service"
	"github.com/spec-kit/support-portal/internal/sla"
)

// AttendantTicketsHandler exposes the internal queue endpoints used by
// attendants.
type AttendantTicketsHandler struct {
	tickets *service.TicketService
	clock   *sla.Clock
}

// NewAttendantTicketsHandler constructs handler.
func NewAttendantTicketsHandler(ticketService *service.TicketService, clock *sla.Clock) *AttendantTicketsHandler {
	return &AttendantTicketsHandler{tickets: ticketService, clock: clock}
}

func requireAttendantActor(c *fiber.Ctx) (events.Actor, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Attendant == nil {
		return events.Actor{}, fiber.NewError(http.StatusForbidden, "attendant required")
	}
	return service.AttendantActor(principal.Attendant.ID), nil
}

// List handles GET /api/queue/:domain.
func (h *AttendantTicketsHandler) List(c *fiber.Ctx) error {
	dom, err := ParseDomain(c.Params("domain"))
	if err != nil {
		return err
	}

	now := time.Now()
	var data any
	switch dom {
	case domain.DomainSupport:
		tickets, err := h.tickets.ListSupportTickets(c.Context())
		if err != nil {
			return err
		}
		out := make([]dto.SupportTicketResponse, 0, len(tickets))
		for _, t := range tickets {
			out = append(out, dto.NewSupportTicketResponse(t, h.clock))
		}
		data = out
	case domain.DomainCollections:
		tickets, err := h.tickets.ListCollectionsTickets(c.Context())
		if err != nil {
			return err
		}
		out := make([]dto.CollectionsTicketResponse, 0, len(tickets))
		for _, t := range tickets {
			out = append(out, dto.NewCollectionsTicketResponse(t, h.clock, now))
		}
		data = out
	case domain.DomainPostAward:
		tickets, err := h.tickets.ListPostAwardTickets(c.Context())
		if err != nil {
			return err
		}
		out := make([]dto.PostAwardTicketResponse, 0, len(tickets))
		for _, t := range tickets {
			out = append(out, dto.NewPostAwardTicketResponse(t, h.clock, now))
		}
		data = out
	}

	return c.JSON(fiber.Map{"data": data})
}

// ChangeStatus handles PATCH /api/queue/:domain/:id/status.
func (h *AttendantTicketsHandler) ChangeStatus(c *fiber.Ctx) error {
	actor, err := requireAttendantActor(c)
	if err != nil {
		return err
	}
	dom, err := ParseDomain(c.Params("domain"))
	if err != nil {
		return err
	}

	var req dto.ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	var data any
	switch dom {
	case domain.DomainSupport:
		ticket, err := h.tickets.ChangeSupportStatus(c.Context(), actor, c.Params("id"), domain.SupportStatus(req.Status))
		if err != nil {
			return err
		}
		data = dto.NewSupportTicketResponse(*ticket, h.clock)
	case domain.DomainCollections:
		ticket, err := h.tickets.ChangeCollectionsStatus(c.Context(), actor, c.Params("id"), domain.CollectionsStatus(req.Status))
		if err != nil {
			return err
		}
		data = dto.NewCollectionsTicketResponse(*ticket, h.clock, time.Now())
	case domain.DomainPostAward:
		ticket, err := h.tickets.ChangePostAwardStatus(c.Context(), actor, c.Params("id"), domain.PostAwardStatus(req.Status))
		if err != nil {
			return err
		}
		data = dto.NewPostAwardTicketResponse(*ticket, h.clock, time.Now())
	}

	return c.JSON(fiber.Map{"data": data})
}

// Reassign handles PATCH /api/queue/:domain/:id/assignee.
func (h *AttendantTicketsHandler) Reassign(c *fiber.Ctx) error {
	actor, err := requireAttendantActor(c)
	if err != nil {
		return err
	}
	dom, err := ParseDomain(c.Params("domain"))
	if err != nil {
		return err
	}

	var req dto.ReassignRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.tickets.Reassign(c.Context(), actor, dom, c.Params("id"), req.AssigneeID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"id": c.Params("id"), "assignee_id": req.AssigneeID}})
}

// SetReturn handles PATCH /api/queue/collections/:id/return.
func (h *AttendantTicketsHandler) SetReturn(c *fiber.Ctx) error {
	actor, err := requireAttendantActor(c)
	if err != nil {
		return err
	}

	var req dto.SetReturnRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	ticket, err := h.tickets.SetCollectionsReturn(c.Context(), actor, c.Params("id"), domain.ReturnOutcome(req.Outcome), req.Note)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCollectionsTicketResponse(*ticket, h.clock, time.Now())})
}

// History handles GET /api/queue/:domain/:id/history.
func (h *AttendantTicketsHandler) History(c *fiber.Ctx) error {
	dom, err := ParseDomain(c.Params("domain"))
	if err != nil {
		return err
	}

	entries, err := h.tickets.TicketHistory(c.Context(), dom, c.Params("id"))
	if err != nil {
		return err
	}
	out := make([]dto.HistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.NewHistoryEntryResponse(e))
	}
	return c.JSON(fiber.Map{"data": out})
}
