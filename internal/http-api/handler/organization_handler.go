package handler

import (
	"context"
	"net/http"
	"time"

	"libraryhub/internal/http-api/dto"
	"libraryhub/internal/http-api/middleware"
	"libraryhub/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type OrganizationHandler struct {
	svc         service.OrganizationService
	permissions service.PermissionService
}

func NewOrganizationHandler(svc service.OrganizationService, permissions service.PermissionService) *OrganizationHandler {
	return &OrganizationHandler{svc: svc, permissions: permissions}
}

func (h *OrganizationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", middleware.RequirePermission(h.permissions, service.ResourceOrganization, service.ActionManage), h.ListUsers)
	rg.PUT("/:user_id/role", middleware.RequirePermission(h.permissions, service.ResourceOrganization, service.ActionManage), h.UpdateRole)
	rg.DELETE("/:user_id", middleware.RequirePermission(h.permissions, service.ResourceOrganization, service.ActionManage), h.RemoveUser)
}

func (h *OrganizationHandler) ListUsers(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	users, err := h.svc.ListUsers(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": users, "total": len(users)})
}

func (h *OrganizationHandler) UpdateRole(c *gin.Context) {
	var req dto.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, err := h.svc.UpdateRole(ctx, c.Param("user_id"), req.Role)
	if err != nil {
		switch err {
		case service.ErrUserNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case service.ErrInvalidRole:
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *OrganizationHandler) RemoveUser(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.RemoveUser(ctx, c.Param("user_id")); err != nil {
		if err == service.ErrUserNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
