package controllers

import (
	"context"

	"github.com/PabloUrbano2000/little-lemon-api/entity"
	"github.com/PabloUrbano2000/little-lemon-api/middlewares"
	"github.com/PabloUrbano2000/little-lemon-api/pkg/resp"
	"github.com/PabloUrbano2000/little-lemon-api/services"

	"github.com/gin-gonic/gin"
)

type CartStore interface {
	List(ctx context.Context, c services.Caller) (*services.CartView, error)
	AddOrReplace(ctx context.Context, c services.Caller, in services.AddToCartIn) (*entity.CartLine, error)
	Clear(ctx context.Context, c services.Caller) error
}

type CartController struct{ Svc CartStore }

func NewCartController(s CartStore) *CartController { return &CartController{Svc: s} }

// GET /cart/menu-items
func (h *CartController) List(c *gin.Context) {
	cart, err := h.Svc.List(c.Request.Context(), middlewares.CallerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	resp.OK(c, cart)
}

// POST /cart/menu-items
func (h *CartController) Add(c *gin.Context) {
	var req services.AddToCartIn
	if !bindJSON(c, &req) {
		return
	}
	line, err := h.Svc.AddOrReplace(c.Request.Context(), middlewares.CallerFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	resp.Created(c, line)
}

// DELETE /cart/menu-items
func (h *CartController) Clear(c *gin.Context) {
	if err := h.Svc.Clear(c.Request.Context(), middlewares.CallerFrom(c)); err != nil {
		respondError(c, err)
		return
	}
	resp.NoContent(c)
}
