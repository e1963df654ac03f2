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

type MemberHandler struct {
	svc         service.MemberService
	fineSvc     service.FineService
	permissions service.PermissionService
}

func NewMemberHandler(svc service.MemberService, fineSvc service.FineService, permissions service.PermissionService) *MemberHandler {
	return &MemberHandler{svc: svc, fineSvc: fineSvc, permissions: permissions}
}

func (h *MemberHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", middleware.RequirePermission(h.permissions, service.ResourceMembers, service.ActionView), h.List)
	rg.GET("/:member_id", middleware.RequirePermission(h.permissions, service.ResourceMembers, service.ActionView), h.Get)
	rg.GET("/:member_id/loans", middleware.RequirePermission(h.permissions, service.ResourceMembers, service.ActionView), h.LoanHistory)
	rg.GET("/:member_id/fines", middleware.RequirePermission(h.permissions, service.ResourceMembers, service.ActionView), h.Fines)

	rg.POST("/", middleware.RequirePermission(h.permissions, service.ResourceMembers, service.ActionCreate), h.Create)
	rg.PUT("/:member_id", middleware.RequirePermission(h.permissions, service.ResourceMembers, service.ActionUpdate), h.Update)
	rg.DELETE("/:member_id", middleware.RequirePermission(h.permissions, service.ResourceMembers, service.ActionDelete), h.Delete)
}

func (h *MemberHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	page, pageSize := parsePagination(c)

	members, total, err := h.svc.List(ctx, c.Query("search"), page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	items := make([]dto.MemberResponse, 0, len(members))
	for _, member := range members {
		items = append(items, dto.FromMemberToResponse(member))
	}

	c.JSON(http.StatusOK, dto.MemberListResponse{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// Get returns the member with their currently borrowed books derived from
// open loans.
func (h *MemberHandler) Get(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	memberID := c.Param("member_id")

	member, err := h.svc.GetByID(ctx, memberID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
		return
	}

	loans, err := h.svc.BorrowedBooks(ctx, memberID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	borrowed := make([]dto.LoanResponse, 0, len(loans))
	for _, loan := range loans {
		borrowed = append(borrowed, dto.FromLoanToResponse(loan))
	}

	c.JSON(http.StatusOK, dto.MemberDetailResponse{
		MemberResponse: dto.FromMemberToResponse(*member),
		BorrowedBooks:  borrowed,
	})
}

func (h *MemberHandler) LoanHistory(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	loans, err := h.svc.LoanHistory(ctx, c.Param("member_id"))
	if err != nil {
		if err == service.ErrMemberNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	items := make([]dto.LoanResponse, 0, len(loans))
	for _, loan := range loans {
		items = append(items, dto.FromLoanToResponse(loan))
	}

	c.JSON(http.StatusOK, dto.LoanListResponse{Items: items, Total: len(items)})
}

func (h *MemberHandler) Fines(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	fines, err := h.fineSvc.ListByMember(ctx, c.Param("member_id"))
	if err != nil {
		if err == service.ErrMemberNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	items := make([]dto.FineResponse, 0, len(fines))
	for _, fine := range fines {
		items = append(items, dto.FromFineToResponse(fine))
	}

	c.JSON(http.StatusOK, dto.FineListResponse{Items: items, Total: len(items)})
}

func (h *MemberHandler) Create(c *gin.Context) {
	var req dto.CreateMemberDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	member := req.ToModel()
	if err := h.svc.Create(ctx, &member); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, dto.FromMemberToResponse(member))
}

func (h *MemberHandler) Update(c *gin.Context) {
	var req dto.UpdateMemberDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	member, err := h.svc.Update(ctx, c.Param("member_id"), func(m *models.Member) {
		req.ApplyTo(m)
	})
	if err != nil {
		if err == service.ErrMemberNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.FromMemberToResponse(*member))
}

func (h *MemberHandler) Delete(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Delete(ctx, c.Param("member_id")); err != nil {
		switch err {
		case service.ErrMemberNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
		case service.ErrMemberHasLoans:
			c.JSON(http.StatusConflict, gin.H{"error": "member has open loans and cannot be deleted"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
