package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/collabforge/collabforge-backend/internal/collaboration/domain"
	"github.com/collabforge/collabforge-backend/internal/collaboration/service"
	"github.com/collabforge/collabforge-backend/internal/identity"
	"github.com/collabforge/collabforge-backend/internal/payments"
)

type Handler struct {
	wf *service.Workflow
}

func Register(rg *gin.RouterGroup, wf *service.Workflow) {
	h := &Handler{wf: wf}

	rg.POST("", h.send)
	rg.GET("", h.list)
	rg.GET("/:request_id", h.get)
	rg.PUT("/:request_id", h.respond)
}

func (h *Handler) send(c *gin.Context) {
	var req service.SendRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	r, err := h.wf.SendRequest(c.Request.Context(), identity.Subject(c), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "request": r})
}

func (h *Handler) list(c *gin.Context) {
	role := domain.Role(c.Query("role"))
	status := domain.Status(c.Query("status"))

	requests, err := h.wf.ListForUser(c.Request.Context(), identity.Subject(c), role, status)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "requests": requests})
}

func (h *Handler) get(c *gin.Context) {
	r, err := h.wf.Get(c.Request.Context(), identity.Subject(c), c.Param("request_id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "request": r})
}

type respondReq struct {
	Decision string `json:"decision"`
}

func (h *Handler) respond(c *gin.Context) {
	var req respondReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	var accept bool
	switch req.Decision {
	case "accept":
		accept = true
	case "decline":
		accept = false
	default:
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "decision must be accept or decline"})
		return
	}

	r, err := h.wf.Respond(c.Request.Context(), identity.Subject(c), c.Param("request_id"), accept)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "request": r})
}

func respondErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "request not found"})
	case errors.Is(err, domain.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": "request has already been responded to"})
	case errors.Is(err, payments.ErrPaymentFailed):
		c.JSON(http.StatusPaymentRequired, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
	}
}
