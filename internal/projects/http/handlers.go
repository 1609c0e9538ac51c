package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/collabforge/collabforge-backend/internal/identity"
	"github.com/collabforge/collabforge-backend/internal/projects/domain"
	"github.com/collabforge/collabforge-backend/internal/projects/service"
)

type Handler struct {
	svc *service.ProjectService
}

func Register(rg *gin.RouterGroup, svc *service.ProjectService) {
	h := &Handler{svc: svc}

	rg.POST("", h.create)
	rg.GET("", h.search)
	rg.GET("/:project_id", h.get)
	rg.PATCH("/:project_id", h.update)
	rg.DELETE("/:project_id", h.delete)
}

func (h *Handler) create(c *gin.Context) {
	var req service.CreateProjectInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p, err := h.svc.Create(c.Request.Context(), identity.Subject(c), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": p})
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("project_id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) search(c *gin.Context) {
	if owner := strings.TrimSpace(c.Query("owner")); owner != "" {
		items, err := h.svc.ListByOwner(c.Request.Context(), owner)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
		return
	}

	f := domain.Filter{
		Query:  c.Query("q"),
		Status: domain.Status(strings.TrimSpace(c.Query("status"))),
	}
	if raw := strings.TrimSpace(c.Query("skills")); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				f.Skills = append(f.Skills, s)
			}
		}
	}

	items, err := h.svc.Search(c.Request.Context(), f)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
}

type updateReq struct {
	Name           *string  `json:"name"`
	Description    *string  `json:"description"`
	RequiredSkills []string `json:"required_skills"`
	Status         *string  `json:"status"`
	Budget         *string  `json:"budget"`
	Deadline       *string  `json:"deadline"`
}

func (h *Handler) update(c *gin.Context) {
	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	upd := domain.Update{
		Name:           req.Name,
		Description:    req.Description,
		RequiredSkills: req.RequiredSkills,
		Budget:         req.Budget,
		Deadline:       req.Deadline,
	}
	if req.Status != nil {
		st := domain.Status(*req.Status)
		upd.Status = &st
	}

	p, err := h.svc.Update(c.Request.Context(), identity.Subject(c), c.Param("project_id"), upd)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), identity.Subject(c), c.Param("project_id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func respondErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
	case errors.Is(err, domain.ErrOwnerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "owner not found"})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
	}
}
