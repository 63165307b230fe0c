package handler

import (
	"swiftmart-be/internal/pkg/logger"
	"swiftmart-be/internal/pkg/serverutils"
	"swiftmart-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// NotificationHandler exposes the inbox surface consumed by the mobile
// apps. Real-time push delivery is handled by downstream consumers of
// the event bus, not here.
type NotificationHandler struct {
	service service.INotificationService
	logger  logger.ILogger
}

func NewNotificationHandler(service service.INotificationService, log logger.ILogger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		logger:  log,
	}
}

func (h *NotificationHandler) RegisterRoutes(r fiber.Router) {
	g := r.Group("/notifications")
	g.Use(serverutils.JwtMiddleware)
	g.Get("", h.GetNotifications)
	g.Get("/unread-count", h.GetUnreadCount)
	g.Patch("/read-all", h.MarkAllAsRead)
	g.Patch("/:id/read", h.MarkAsRead)
}

// GetNotifications returns the user's notifications, newest first.
func (h *NotificationHandler) GetNotifications(c *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(c)
	if err != nil {
		return err
	}

	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	res, err := h.service.GetNotifications(c.Context(), userId, limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(serverutils.SuccessResponse("Success list notifications", res))
}

func (h *NotificationHandler) GetUnreadCount(c *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(c)
	if err != nil {
		return err
	}

	res, err := h.service.GetUnreadCount(c.Context(), userId)
	if err != nil {
		return err
	}

	return c.JSON(serverutils.SuccessResponse("Success count notifications", res))
}

func (h *NotificationHandler) MarkAsRead(c *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(c)
	if err != nil {
		return err
	}

	notificationId, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return serverutils.NewBadRequest("invalid notification id")
	}

	if err := h.service.MarkAsRead(c.Context(), userId, notificationId); err != nil {
		return err
	}

	return c.JSON(serverutils.SuccessResponse[any]("Notification marked as read", nil))
}

func (h *NotificationHandler) MarkAllAsRead(c *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(c)
	if err != nil {
		return err
	}

	if err := h.service.MarkAllAsRead(c.Context(), userId); err != nil {
		return err
	}

	return c.JSON(serverutils.SuccessResponse[any]("All notifications marked as read", nil))
}
