package services

import (
	"context"
	"fmt"
	"time"

	"github.com/PabloUrbano2000/little-lemon-api/entity"
	"github.com/PabloUrbano2000/little-lemon-api/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const maxQuantity = 32767

// maxAmount is the largest value a numeric(10,2) line price or order total holds.
var maxAmount = decimal.RequireFromString("99999999.99")

type CartService struct {
	DB       *gorm.DB
	Repo     *repository.CartRepository
	MenuRepo *repository.MenuRepository
}

func NewCartService(db *gorm.DB, repo *repository.CartRepository, menuRepo *repository.MenuRepository) *CartService {
	return &CartService{DB: db, Repo: repo, MenuRepo: menuRepo}
}

type AddToCartIn struct {
	MenuItemID uint `json:"menuitem_id"`
	Quantity   int  `json:"quantity"`
}

type CartView struct {
	Lines    []entity.CartLine `json:"lines"`
	Subtotal decimal.Decimal   `json:"subtotal"`
}

func (s *CartService) List(ctx context.Context, c Caller) (*CartView, error) {
	if !c.Authenticated {
		return nil, ErrUnauthorized
	}
	lines, err := s.Repo.ListForUser(s.DB.WithContext(ctx), c.ID)
	if err != nil {
		return nil, err
	}
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Price)
	}
	return &CartView{Lines: lines, Subtotal: subtotal}, nil
}

// AddOrReplace writes the caller's line for the item at the current catalog
// price. A line already in the cart for that item is overwritten.
func (s *CartService) AddOrReplace(ctx context.Context, c Caller, in AddToCartIn) (*entity.CartLine, error) {
	if !c.Authenticated {
		return nil, ErrUnauthorized
	}
	if in.MenuItemID == 0 {
		return nil, fmt.Errorf("%w: menuitem_id is required", ErrInvalidInput)
	}
	if in.Quantity < 1 || in.Quantity > maxQuantity {
		return nil, fmt.Errorf("%w: quantity must be between 1 and %d", ErrInvalidInput, maxQuantity)
	}

	db := s.DB.WithContext(ctx)
	unit, err := s.MenuRepo.GetPrice(db, in.MenuItemID)
	if err != nil {
		return nil, notFound(err)
	}

	price := unit.Mul(decimal.NewFromInt(int64(in.Quantity)))
	if price.GreaterThan(maxAmount) {
		return nil, fmt.Errorf("%w: line price %s exceeds %s", ErrInvalidInput, price, maxAmount)
	}

	now := time.Now()
	line := entity.CartLine{
		UserID:     c.ID,
		MenuItemID: in.MenuItemID,
		Quantity:   in.Quantity,
		UnitPrice:  unit,
		Price:      price,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Repo.Upsert(db, &line); err != nil {
		return nil, err
	}
	return s.Repo.FindLine(db, c.ID, in.MenuItemID)
}

func (s *CartService) Clear(ctx context.Context, c Caller) error {
	if !c.Authenticated {
		return ErrUnauthorized
	}
	return s.Repo.ClearForUser(s.DB.WithContext(ctx), c.ID)
}
