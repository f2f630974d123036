package controllers

import (
	"context"
	"encoding/json"

	"github.com/PabloUrbano2000/little-lemon-api/entity"
	"github.com/PabloUrbano2000/little-lemon-api/middlewares"
	"github.com/PabloUrbano2000/little-lemon-api/pkg/resp"
	"github.com/PabloUrbano2000/little-lemon-api/services"

	"github.com/gin-gonic/gin"
)

type OrderEngine interface {
	Checkout(ctx context.Context, c services.Caller) (*entity.Order, error)
	Get(ctx context.Context, c services.Caller, orderID uint) (*entity.Order, error)
	Update(ctx context.Context, c services.Caller, orderID uint, body map[string]json.RawMessage) (*entity.Order, error)
	Delete(ctx context.Context, c services.Caller, orderID uint) error
}

type OrderLister interface {
	ListOrders(ctx context.Context, c services.Caller, q services.PageQuery) ([]entity.Order, error)
}

type OrderController struct {
	Engine OrderEngine
	Lister OrderLister
}

func NewOrderController(engine OrderEngine, lister OrderLister) *OrderController {
	return &OrderController{Engine: engine, Lister: lister}
}

// GET /orders?page=&perpage=&ordering=
func (h *OrderController) List(c *gin.Context) {
	var q services.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		resp.BadRequest(c, "invalid query")
		return
	}
	orders, err := h.Lister.ListOrders(c.Request.Context(), middlewares.CallerFrom(c), q)
	if err != nil {
		respondError(c, err)
		return
	}
	resp.OK(c, orders)
}

// POST /orders
func (h *OrderController) Create(c *gin.Context) {
	order, err := h.Engine.Checkout(c.Request.Context(), middlewares.CallerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	resp.Created(c, order)
}

// GET /orders/:id
func (h *OrderController) Detail(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := h.Engine.Get(c.Request.Context(), middlewares.CallerFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	resp.OK(c, order)
}

// PUT, PATCH /orders/:id
func (h *OrderController) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body map[string]json.RawMessage
	if !bindJSON(c, &body) {
		return
	}
	order, err := h.Engine.Update(c.Request.Context(), middlewares.CallerFrom(c), id, body)
	if err != nil {
		respondError(c, err)
		return
	}
	resp.OK(c, order)
}

// DELETE /orders/:id
func (h *OrderController) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Engine.Delete(c.Request.Context(), middlewares.CallerFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	resp.NoContent(c)
}
