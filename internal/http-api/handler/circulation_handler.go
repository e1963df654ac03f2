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

type CirculationHandler struct {
	svc         service.CirculationService
	permissions service.PermissionService
}

func NewCirculationHandler(svc service.CirculationService, permissions service.PermissionService) *CirculationHandler {
	return &CirculationHandler{svc: svc, permissions: permissions}
}

func (h *CirculationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/borrow", middleware.RequirePermission(h.permissions, service.ResourceBooks, service.ActionBorrow), h.Borrow)
	rg.POST("/return", middleware.RequirePermission(h.permissions, service.ResourceBooks, service.ActionReturn), h.Return)
	rg.POST("/renew", middleware.RequirePermission(h.permissions, service.ResourceCirculation, service.ActionManage), h.Renew)
	rg.GET("/loans", middleware.RequirePermission(h.permissions, service.ResourceCirculation, service.ActionManage), h.OpenLoans)
}

func (h *CirculationHandler) Borrow(c *gin.Context) {
	var req dto.BorrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	issuedBy := c.GetString("username")
	result := h.svc.Borrow(ctx, req.BookID, req.MemberID, issuedBy)
	c.JSON(statusFor(result), result)
}

func (h *CirculationHandler) Return(c *gin.Context) {
	var req dto.ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	result := h.svc.Return(ctx, req.BookID, req.MemberID)
	c.JSON(statusFor(result), result)
}

func (h *CirculationHandler) Renew(c *gin.Context) {
	var req dto.RenewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	result := h.svc.Renew(ctx, req.BookID, req.MemberID)
	c.JSON(statusFor(result), result)
}

// OpenLoans lists all open loans; pass overdue=true to restrict to loans
// past their due date.
func (h *CirculationHandler) OpenLoans(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var loans []models.Loan
	var err error
	if c.Query("overdue") == "true" {
		loans, err = h.svc.ListOverdueLoans(ctx)
	} else {
		loans, err = h.svc.ListOpenLoans(ctx)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	items := make([]dto.LoanResponse, 0, len(loans))
	for _, loan := range loans {
		items = append(items, dto.FromLoanToResponse(loan))
	}

	c.JSON(http.StatusOK, dto.LoanListResponse{Items: items, Total: len(items)})
}

// statusFor maps a circulation result to the HTTP status the UI expects.
func statusFor(result *dto.CirculationResult) int {
	if result.Success {
		return http.StatusOK
	}
	switch result.Code {
	case dto.CodeNotFound:
		return http.StatusNotFound
	case dto.CodeInvalidState:
		return http.StatusConflict
	case dto.CodePolicyViolation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
