package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"libraryhub/internal/http-api/middleware"
	"libraryhub/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	svc         service.ReportService
	permissions service.PermissionService
}

func NewReportHandler(svc service.ReportService, permissions service.PermissionService) *ReportHandler {
	return &ReportHandler{svc: svc, permissions: permissions}
}

func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/overdue", middleware.RequirePermission(h.permissions, service.ResourceReports, service.ActionView), h.Overdue)
	rg.GET("/popular", middleware.RequirePermission(h.permissions, service.ResourceReports, service.ActionView), h.Popular)
	rg.GET("/summary", middleware.RequirePermission(h.permissions, service.ResourceReports, service.ActionView), h.Summary)
}

func (h *ReportHandler) Overdue(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	report, err := h.svc.OverdueReport(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) Popular(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	limit := 10
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 50 {
			limit = parsed
		}
	}

	report, err := h.svc.PopularBooks(ctx, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) Summary(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	report, err := h.svc.Summary(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}
