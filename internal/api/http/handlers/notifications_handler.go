package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-portal/internal/auth"
	"github.com/spec-kit/support-portal/internal/service"
)

// NotificationsHandler exposes the cross-domain notification feed.
type NotificationsHandler struct {
	notifications *service.NotificationService
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(notificationService *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{notifications: notificationService}
}

// Feed handles GET /api/notifications. Attendants and end-users share the
// endpoint; each sees the items addressed to them. The badge count is the
// item count.
func (h *NotificationsHandler) Feed(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}
	principalID := ""
	switch {
	case principal.User != nil:
		principalID = principal.User.ID
	case principal.Attendant != nil:
		principalID = principal.Attendant.ID
	default:
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	feed, err := h.notifications.Feed(c.Context(), principalID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"items":    feed.Items,
			"count":    len(feed.Items),
			"degraded": feed.Degraded,
		},
	})
}

// Dismiss handles POST /api/notifications/:domain/:id/dismiss. Only
// creators can dismiss, and only completed notifications; anything else
// is acknowledged without effect.
func (h *NotificationsHandler) Dismiss(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return fiber.NewError(http.StatusForbidden, "end-user required")
	}
	dom, err := ParseDomain(c.Params("domain"))
	if err != nil {
		return err
	}

	if err := h.notifications.Dismiss(c.Context(), principal.User.ID, dom, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
