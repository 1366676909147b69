package api

import (
	"net/http"

	"github.com/Domenick1991/airbooking-desk/internal/notify"
	"github.com/gin-gonic/gin"
)

type NotificationStore interface {
	Snapshot() []notify.Notification
	Dismiss(id string)
}

type NotificationHandler struct {
	store NotificationStore
}

func NewNotificationHandler(store NotificationStore) *NotificationHandler {
	return &NotificationHandler{store: store}
}

func (h *NotificationHandler) Register(router *gin.RouterGroup) {
	router.GET("/notifications", h.list)
	router.DELETE("/notifications/:id", h.dismiss)
}

func (h *NotificationHandler) list(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"notifications": h.store.Snapshot()})
}

// dismiss is idempotent; unknown ids are accepted.
func (h *NotificationHandler) dismiss(c *gin.Context) {
	h.store.Dismiss(c.Param("id"))
	c.Status(http.StatusNoContent)
}
