package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tutorwave/lms-support/internal/api/dto"
	"github.com/tutorwave/lms-support/internal/auth"
	"github.com/tutorwave/lms-support/internal/repository"
	apperrors "github.com/tutorwave/lms-support/pkg/util"
)

// NotificationsHandler serves the in-app notification feed.
type NotificationsHandler struct {
	notifications repository.NotificationRepository
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(notifications repository.NotificationRepository) *NotificationsHandler {
	return &NotificationsHandler{notifications: notifications}
}

// ListNotifications GET /notifications.
func (h *NotificationsHandler) ListNotifications(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}

	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 10)

	items, total, err := h.notifications.ListByRecipient(c.UserContext(), principal.User.ID, limit, (page-1)*limit)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewNotificationListResponse(items, total, page, limit)})
}
