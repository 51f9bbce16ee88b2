package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-portal/internal/api/dto"
	"github.com/spec-kit/support-portal/internal/auth"
	"github.com/spec-kit/support-portal/internal/domain"
	"github.com/spec-kit/support-portal/internal/service"
	"github.com/spec-kit/support-portal/internal/sla"
	apperrors "github.com/spec-kit/support-portal/pkg/util/errorutil"
)

// TicketsHandler exposes the end-user ticket endpoints. The domain rides
// in the path: /api/tickets/:domain/...
type TicketsHandler struct {
	tickets *service.TicketService
	clock   *sla.Clock
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, clock *sla.Clock) *TicketsHandler {
	return &TicketsHandler{tickets: ticketService, clock: clock}
}

// ParseDomain maps the path segment onto a ticket domain.
func ParseDomain(segment string) (domain.Domain, error) {
	switch segment {
	case "support":
		return domain.DomainSupport, nil
	case "collections":
		return domain.DomainCollections, nil
	case "post-award":
		return domain.DomainPostAward, nil
	default:
		return "", apperrors.NewValidationError("unknown ticket domain", map[string]any{"domain": segment})
	}
}

func requireUser(c *fiber.Ctx) (*domain.User, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return nil, fiber.NewError(http.StatusForbidden, "end-user required")
	}
	return principal.User, nil
}

// Create handles POST /api/tickets/:domain.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	dom, err := ParseDomain(c.Params("domain"))
	if err != nil {
		return err
	}

	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	input := service.TicketCreateInput{
		Reason:      req.Reason,
		Subject:     req.Subject,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
	}
	var data any
	switch dom {
	case domain.DomainSupport:
		ticket, err := h.tickets.CreateSupportTicket(c.Context(), user, input)
		if err != nil {
			return err
		}
		data = dto.NewSupportTicketResponse(*ticket, h.clock)
	case domain.DomainCollections:
		ticket, err := h.tickets.CreateCollectionsTicket(c.Context(), user, input)
		if err != nil {
			return err
		}
		data = dto.NewCollectionsTicketResponse(*ticket, h.clock, time.Now())
	case domain.DomainPostAward:
		ticket, err := h.tickets.CreatePostAwardTicket(c.Context(), user, input)
		if err != nil {
			return err
		}
		data = dto.NewPostAwardTicketResponse(*ticket, h.clock, time.Now())
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": data})
}

// ListMine handles GET /api/tickets/:domain.
func (h *TicketsHandler) ListMine(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	dom, err := ParseDomain(c.Params("domain"))
	if err != nil {
		return err
	}

	now := time.Now()
	var data any
	switch dom {
	case domain.DomainSupport:
		tickets, err := h.tickets.ListUserSupportTickets(c.Context(), user.ID)
		if err != nil {
			return err
		}
		out := make([]dto.SupportTicketResponse, 0, len(tickets))
		for _, t := range tickets {
			out = append(out, dto.NewSupportTicketResponse(t, h.clock))
		}
		data = out
	case domain.DomainCollections:
		tickets, err := h.tickets.ListUserCollectionsTickets(c.Context(), user.ID)
		if err != nil {
			return err
		}
		out := make([]dto.CollectionsTicketResponse, 0, len(tickets))
		for _, t := range tickets {
			out = append(out, dto.NewCollectionsTicketResponse(t, h.clock, now))
		}
		data = out
	case domain.DomainPostAward:
		tickets, err := h.tickets.ListUserPostAwardTickets(c.Context(), user.ID)
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

// GetMine handles GET /api/tickets/:domain/:id.
func (h *TicketsHandler) GetMine(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	dom, err := ParseDomain(c.Params("domain"))
	if err != nil {
		return err
	}

	var data any
	switch dom {
	case domain.DomainSupport:
		ticket, err := h.tickets.GetSupportTicketForUser(c.Context(), user.ID, c.Params("id"))
		if err != nil {
			return err
		}
		data = dto.NewSupportTicketResponse(*ticket, h.clock)
	case domain.DomainCollections:
		ticket, err := h.tickets.GetCollectionsTicketForUser(c.Context(), user.ID, c.Params("id"))
		if err != nil {
			return err
		}
		data = dto.NewCollectionsTicketResponse(*ticket, h.clock, time.Now())
	case domain.DomainPostAward:
		ticket, err := h.tickets.GetPostAwardTicketForUser(c.Context(), user.ID, c.Params("id"))
		if err != nil {
			return err
		}
		data = dto.NewPostAwardTicketResponse(*ticket, h.clock, time.Now())
	}

	return c.JSON(fiber.Map{"data": data})
}
