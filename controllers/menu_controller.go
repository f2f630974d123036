package controllers

import (
	"context"
	"net/http"

	"github.com/PabloUrbano2000/little-lemon-api/entity"
	"github.com/PabloUrbano2000/little-lemon-api/pkg/resp"
	"github.com/PabloUrbano2000/little-lemon-api/services"

	"github.com/gin-gonic/gin"
)

type Catalog interface {
	List(ctx context.Context, q services.MenuQuery) ([]entity.MenuItem, error)
	Get(ctx context.Context, id uint) (*entity.MenuItem, error)
	Create(ctx context.Context, in services.MenuItemIn) (*entity.MenuItem, error)
	Update(ctx context.Context, id uint, in services.MenuItemIn, partial bool) (*entity.MenuItem, error)
	Delete(ctx context.Context, id uint) error
	ListCategories(ctx context.Context) ([]entity.Category, error)
	CreateCategory(ctx context.Context, in services.CategoryIn) (*entity.Category, error)
}

type MenuController struct{ Svc Catalog }

func NewMenuController(s Catalog) *MenuController { return &MenuController{Svc: s} }

// GET /menu-items?category=&search=&featured=&ordering=&page=&perpage=
func (h *MenuController) List(c *gin.Context) {
	var q services.MenuQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		resp.BadRequest(c, "invalid query")
		return
	}
	items, err := h.Svc.List(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	resp.OK(c, items)
}

// GET /menu-items/:id
func (h *MenuController) Detail(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	item, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	resp.OK(c, item)
}

// POST /menu-items
func (h *MenuController) Create(c *gin.Context) {
	var in services.MenuItemIn
	if !bindJSON(c, &in) {
		return
	}
	item, err := h.Svc.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	resp.Created(c, item)
}

// PUT, PATCH /menu-items/:id
func (h *MenuController) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in services.MenuItemIn
	if !bindJSON(c, &in) {
		return
	}
	partial := c.Request.Method == http.MethodPatch
	item, err := h.Svc.Update(c.Request.Context(), id, in, partial)
	if err != nil {
		respondError(c, err)
		return
	}
	resp.OK(c, item)
}

// DELETE /menu-items/:id
func (h *MenuController) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	resp.NoContent(c)
}

// GET /categories
func (h *MenuController) Categories(c *gin.Context) {
	cats, err := h.Svc.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	resp.OK(c, cats)
}

// POST /categories
func (h *MenuController) CreateCategory(c *gin.Context) {
	var in services.CategoryIn
	if !bindJSON(c, &in) {
		return
	}
	cat, err := h.Svc.CreateCategory(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	resp.Created(c, cat)
}
