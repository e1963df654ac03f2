package handler

import (
	"context"
	"net/http"
	"time"

	"libraryhub/internal/http-api/dto"
	"libraryhub/internal/http-api/middleware"
	"libraryhub/internal/http-api/models"
	"libraryhub/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type FineHandler struct {
	svc         service.FineService
	permissions service.PermissionService
}

func NewFineHandler(svc service.FineService, permissions service.PermissionService) *FineHandler {
	return &FineHandler{svc: svc, permissions: permissions}
}

func (h *FineHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", middleware.RequirePermission(h.permissions, service.ResourceCirculation, service.ActionManage), h.List)
	rg.POST("/", middleware.RequirePermission(h.permissions, service.ResourceCirculation, service.ActionManage), h.Create)
	rg.POST("/:fine_id/pay", middleware.RequirePermission(h.permissions, service.ResourceCirculation, service.ActionManage), h.Pay)
	rg.POST("/:fine_id/waive", middleware.RequirePermission(h.permissions, service.ResourceCirculation, service.ActionManage), h.Waive)
}

func (h *FineHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	fines, err := h.svc.List(ctx, c.Query("unresolved") == "true")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	items := make([]dto.FineResponse, 0, len(fines))
	for _, fine := range fines {
		items = append(items, dto.FromFineToResponse(fine))
	}

	c.JSON(http.StatusOK, dto.FineListResponse{Items: items, Total: len(items)})
}

// Create records a manual fine against a member.
func (h *FineHandler) Create(c *gin.Context) {
	var req dto.CreateFineDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	fine := models.Fine{
		MemberID:    req.MemberID,
		BookID:      req.BookID,
		DaysOverdue: req.DaysOverdue,
		FineAmount:  req.FineAmount,
	}
	if err := h.svc.Create(ctx, &fine); err != nil {
		if err == service.ErrMemberNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, dto.FromFineToResponse(fine))
}

func (h *FineHandler) Pay(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Pay(ctx, c.Param("fine_id")); err != nil {
		switch err {
		case service.ErrFineNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "fine not found"})
		case service.ErrFineResolved:
			c.JSON(http.StatusConflict, gin.H{"error": "fine already paid or waived"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "fine paid"})
}

func (h *FineHandler) Waive(c *gin.Context) {
	var req dto.WaiveFineDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Waive(ctx, c.Param("fine_id"), req.Reason); err != nil {
		switch err {
		case service.ErrFineNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "fine not found"})
		case service.ErrFineResolved:
			c.JSON(http.StatusConflict, gin.H{"error": "fine already paid or waived"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "fine waived"})
}
