package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"libraryhub/internal/http-api/dto"
	"libraryhub/internal/http-api/middleware"
	"libraryhub/internal/http-api/models"
	"libraryhub/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type BookHandler struct {
	svc         service.BookService
	permissions service.PermissionService
}

func NewBookHandler(svc service.BookService, permissions service.PermissionService) *BookHandler {
	return &BookHandler{svc: svc, permissions: permissions}
}

func (h *BookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	// Catalog reads are open to any authenticated user (public-read override)
	rg.GET("/", middleware.RequirePermission(h.permissions, service.ResourceBooks, service.ActionView), h.List)
	rg.GET("/:book_id", middleware.RequirePermission(h.permissions, service.ResourceBooks, service.ActionView), h.Get)

	rg.POST("/", middleware.RequirePermission(h.permissions, service.ResourceBooks, service.ActionCreate), h.Create)
	rg.PUT("/:book_id", middleware.RequirePermission(h.permissions, service.ResourceBooks, service.ActionUpdate), h.Update)
	rg.DELETE("/:book_id", middleware.RequirePermission(h.permissions, service.ResourceBooks, service.ActionDelete), h.Delete)
}

func (h *BookHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	page, pageSize := parsePagination(c)

	books, total, err := h.svc.List(ctx, c.Query("category"), c.Query("search"), page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	items := make([]dto.BookResponse, 0, len(books))
	for _, book := range books {
		items = append(items, dto.FromBookToResponse(book))
	}

	c.JSON(http.StatusOK, dto.BookListResponse{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

func (h *BookHandler) Get(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	book, err := h.svc.GetByID(ctx, c.Param("book_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
		return
	}

	c.JSON(http.StatusOK, dto.FromBookToResponse(*book))
}

func (h *BookHandler) Create(c *gin.Context) {
	var req dto.CreateBookDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	book := req.ToModel()
	if err := h.svc.Create(ctx, &book); err != nil {
		if err == service.ErrInvalidCategory {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, dto.FromBookToResponse(book))
}

func (h *BookHandler) Update(c *gin.Context) {
	var req dto.UpdateBookDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	book, err := h.svc.Update(ctx, c.Param("book_id"), func(b *models.Book) {
		req.ApplyTo(b)
	})
	if err != nil {
		switch err {
		case service.ErrBookNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
		case service.ErrInvalidCategory:
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, dto.FromBookToResponse(*book))
}

func (h *BookHandler) Delete(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Delete(ctx, c.Param("book_id")); err != nil {
		switch err {
		case service.ErrBookNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
		case service.ErrBookBorrowed:
			c.JSON(http.StatusConflict, gin.H{"error": "book is currently borrowed and cannot be deleted"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// parsePagination reads page/page_size query params with sane bounds.
func parsePagination(c *gin.Context) (int, int) {
	page := 1
	pageSize := 20

	if p := c.Query("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}

	if ps := c.Query("page_size"); ps != "" {
		if parsed, err := strconv.Atoi(ps); err == nil && parsed > 0 && parsed <= 100 {
			pageSize = parsed
		}
	}

	return page, pageSize
}
