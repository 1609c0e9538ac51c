package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/collabforge/collabforge-backend/internal/featured/service"
	"github.com/collabforge/collabforge-backend/internal/identity"
	"github.com/collabforge/collabforge-backend/internal/payments"
)

type Handler struct {
	svc *service.FeaturedService
}

// Register mounts the featured endpoints under a user's resource path.
func Register(rg *gin.RouterGroup, svc *service.FeaturedService) {
	h := &Handler{svc: svc}

	rg.POST("/:user_id/featured", h.promote)
	rg.GET("/:user_id/featured", h.status)
}

type promoteReq struct {
	DurationHours int `json:"duration_hours"`
}

func (h *Handler) promote(c *gin.Context) {
	userID := c.Param("user_id")
	if identity.Subject(c) != userID {
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "can only promote own profile"})
		return
	}

	var req promoteReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
			return
		}
	}
	if req.DurationHours < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "duration_hours must not be negative"})
		return
	}

	promo, err := h.svc.Promote(c.Request.Context(), userID, req.DurationHours)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": err.Error()})
		case errors.Is(err, payments.ErrPaymentFailed):
			c.JSON(http.StatusPaymentRequired, gin.H{"ok": false, "error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "promotion": promo})
}

func (h *Handler) status(c *gin.Context) {
	until, active, err := h.svc.ActiveUntil(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	resp := gin.H{"ok": true, "featured": active}
	if active {
		resp["featured_until"] = until.Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, resp)
}
