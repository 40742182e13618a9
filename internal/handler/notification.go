package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/farhandp/coworking-book/internal/repository"
)

// NotificationHandler serves the per-user notification feed.
type NotificationHandler struct {
	Notifications *repository.NotificationRepo
}

func NewNotificationHandler(notifs *repository.NotificationRepo) *NotificationHandler {
	if notifs == nil {
		panic("nil repository passed to NewNotificationHandler")
	}
	return &NotificationHandler{Notifications: notifs}
}

// ListForUser handles GET /notifikasi/user/:user_id, newest first.
func (h *NotificationHandler) ListForUser(c echo.Context) error {
	id, ok := pathID(c, "user_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	items, err := h.Notifications.ListForUser(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err, "list notifications failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// MarkRead handles POST /notifikasi/:notification_id/read. Marking an
// already-read notification succeeds quietly.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	id, ok := pathID(c, "notification_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid notification id"})
	}
	if err := h.Notifications.MarkRead(c.Request().Context(), id); err != nil {
		return repoError(c, err, "mark read failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "marked as read"})
}

// UnreadCount handles GET /notifikasi/unread/:user_id.
func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	id, ok := pathID(c, "user_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	count, err := h.Notifications.UnreadCount(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err, "unread count failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"unread": count})
}
