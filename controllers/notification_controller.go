package controllers

import (
	"errors"
	"net/http"

	"wanderhub/middlewares"
	"wanderhub/services"
	"wanderhub/store"

	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	notifications *services.NotificationService
}

func NewNotificationController(notifications *services.NotificationService) *NotificationController {
	return &NotificationController{notifications: notifications}
}

// Inbox returns the caller's most recent notifications.
func (nc *NotificationController) Inbox(c *gin.Context) {
	items, err := nc.notifications.Inbox(c.Request.Context(), middlewares.CurrentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": items})
}

func (nc *NotificationController) UnreadCount(c *gin.Context) {
	count, err := nc.notifications.UnreadCount(c.Request.Context(), middlewares.CurrentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}

func (nc *NotificationController) MarkRead(c *gin.Context) {
	err := nc.notifications.MarkRead(c.Request.Context(), c.Param("id"), middlewares.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

func (nc *NotificationController) MarkAllRead(c *gin.Context) {
	if err := nc.notifications.MarkAllRead(c.Request.Context(), middlewares.CurrentUserID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}
