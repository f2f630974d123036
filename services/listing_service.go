package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/PabloUrbano2000/little-lemon-api/entity"
	"github.com/PabloUrbano2000/little-lemon-api/pkg/paginate"
	"github.com/PabloUrbano2000/little-lemon-api/repository"

	"gorm.io/gorm"
)

// Fields /orders may be ordered by, mapped to columns.
var orderSortFields = map[string]string{
	"id":            "id",
	"user":          "user_id",
	"delivery_crew": "delivery_crew_id",
	"status":        "status",
	"total":         "total",
	"date":          "date",
}

// PageQuery carries the raw page, perpage and ordering query values.
type PageQuery struct {
	Page     string `form:"page"`
	PerPage  string `form:"perpage"`
	Ordering string `form:"ordering"`
}

type ListingService struct {
	DB   *gorm.DB
	Repo *repository.OrderRepository
}

func NewListingService(db *gorm.DB, repo *repository.OrderRepository) *ListingService {
	return &ListingService{DB: db, Repo: repo}
}

// ListOrders returns the caller's page of orders: everything for managers,
// assigned orders for delivery crew, own orders for everyone else.
func (s *ListingService) ListOrders(ctx context.Context, c Caller, q PageQuery) ([]entity.Order, error) {
	if err := Decide(c, ActionList, nil, nil); err != nil {
		return nil, err
	}
	p, err := parsePage(q, orderSortFields)
	if err != nil {
		return nil, err
	}
	return s.Repo.ListOrders(s.DB.WithContext(ctx), scopeFor(c), p)
}

func scopeFor(c Caller) repository.OrderScope {
	id := c.ID
	switch {
	case c.IsManager:
		return repository.OrderScope{}
	case c.IsDelivery:
		return repository.OrderScope{DeliveryCrewID: &id}
	default:
		return repository.OrderScope{UserID: &id}
	}
}

func parsePage(q PageQuery, allowed map[string]string) (paginate.Params, error) {
	p, err := paginate.Parse(q.Page, q.PerPage, q.Ordering, allowed)
	if errors.Is(err, paginate.ErrInvalid) {
		return p, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return p, err
}
