package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/collabforge/collabforge-backend/internal/identity"
	"github.com/collabforge/collabforge-backend/internal/users/domain"
	"github.com/collabforge/collabforge-backend/internal/users/service"
)

type Handler struct {
	svc *service.UserService
}

func Register(rg *gin.RouterGroup, svc *service.UserService) {
	h := &Handler{svc: svc}

	rg.POST("", h.create)
	rg.GET("", h.search)
	rg.GET("/:user_id", h.get)
	rg.PATCH("/:user_id", h.update)
	rg.DELETE("/:user_id", h.delete)
}

type createReq struct {
	DisplayName   string   `json:"display_name"`
	Bio           string   `json:"bio"`
	AvatarURL     string   `json:"avatar_url"`
	Skills        []string `json:"skills"`
	PortfolioURLs []string `json:"portfolio_urls"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	u, err := h.svc.Create(c.Request.Context(), service.CreateUserInput{
		UserID:        identity.Subject(c),
		DisplayName:   req.DisplayName,
		Bio:           req.Bio,
		AvatarURL:     req.AvatarURL,
		Skills:        req.Skills,
		PortfolioURLs: req.PortfolioURLs,
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "user": u})
}

func (h *Handler) get(c *gin.Context) {
	u, err := h.svc.Get(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": u})
}

func (h *Handler) search(c *gin.Context) {
	query := c.Query("q")
	var skills []string
	if raw := strings.TrimSpace(c.Query("skills")); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				skills = append(skills, s)
			}
		}
	}

	users, err := h.svc.Search(c.Request.Context(), query, skills)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "users": users})
}

type updateReq struct {
	DisplayName   *string  `json:"display_name"`
	Bio           *string  `json:"bio"`
	AvatarURL     *string  `json:"avatar_url"`
	Skills        []string `json:"skills"`
	PortfolioURLs []string `json:"portfolio_urls"`
}

func (h *Handler) update(c *gin.Context) {
	userID := c.Param("user_id")
	if identity.Subject(c) != userID {
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "can only edit own profile"})
		return
	}

	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	u, err := h.svc.Update(c.Request.Context(), userID, domain.Update{
		DisplayName:   req.DisplayName,
		Bio:           req.Bio,
		AvatarURL:     req.AvatarURL,
		Skills:        req.Skills,
		PortfolioURLs: req.PortfolioURLs,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": u})
}

func (h *Handler) delete(c *gin.Context) {
	userID := c.Param("user_id")
	if identity.Subject(c) != userID {
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "can only delete own profile"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userID); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func respondErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "user not found"})
	case errors.Is(err, domain.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": "user already exists"})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
	}
}
