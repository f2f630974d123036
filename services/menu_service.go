package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/PabloUrbano2000/little-lemon-api/entity"
	"github.com/PabloUrbano2000/little-lemon-api/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var menuSortFields = map[string]string{
	"id":       "id",
	"title":    "title",
	"price":    "price",
	"featured": "featured",
	"category": "category_id",
}

var maxMenuPrice = decimal.RequireFromString("9999.99")

type MenuService struct {
	DB   *gorm.DB
	Repo *repository.MenuRepository
}

func NewMenuService(db *gorm.DB, repo *repository.MenuRepository) *MenuService {
	return &MenuService{DB: db, Repo: repo}
}

type MenuQuery struct {
	PageQuery
	Category string `form:"category"`
	Search   string `form:"search"`
	Featured string `form:"featured"`
}

// MenuItemIn is the request body for menu item writes. Nil fields are left
// alone on PATCH and required on POST/PUT (except featured).
type MenuItemIn struct {
	Title      *string          `json:"title"`
	Price      *decimal.Decimal `json:"price"`
	Featured   *bool            `json:"featured"`
	CategoryID *uint            `json:"category_id"`
}

type CategoryIn struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

func (s *MenuService) List(ctx context.Context, q MenuQuery) ([]entity.MenuItem, error) {
	p, err := parsePage(q.PageQuery, menuSortFields)
	if err != nil {
		return nil, err
	}
	f := repository.MenuFilter{
		CategorySlug: strings.TrimSpace(q.Category),
		Search:       strings.TrimSpace(q.Search),
	}
	if q.Featured != "" {
		v, err := strconv.ParseBool(q.Featured)
		if err != nil {
			return nil, fmt.Errorf("%w: featured must be a boolean", ErrInvalidInput)
		}
		f.Featured = &v
	}
	return s.Repo.List(s.DB.WithContext(ctx), f, p)
}

func (s *MenuService) Get(ctx context.Context, id uint) (*entity.MenuItem, error) {
	m, err := s.Repo.FindByID(s.DB.WithContext(ctx), id)
	if err != nil {
		return nil, notFound(err)
	}
	return m, nil
}

func (s *MenuService) Create(ctx context.Context, in MenuItemIn) (*entity.MenuItem, error) {
	db := s.DB.WithContext(ctx)
	if err := s.validate(db, in, false); err != nil {
		return nil, err
	}
	m := entity.MenuItem{
		Title:      strings.TrimSpace(*in.Title),
		Price:      *in.Price,
		CategoryID: *in.CategoryID,
	}
	if in.Featured != nil {
		m.Featured = *in.Featured
	}
	if err := s.Repo.Create(db, &m); err != nil {
		return nil, err
	}
	return s.Get(ctx, m.ID)
}

// Update writes the given fields. partial is true for PATCH.
func (s *MenuService) Update(ctx context.Context, id uint, in MenuItemIn, partial bool) (*entity.MenuItem, error) {
	db := s.DB.WithContext(ctx)
	if _, err := s.Repo.FindByID(db, id); err != nil {
		return nil, notFound(err)
	}
	if err := s.validate(db, in, partial); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if in.Title != nil {
		fields["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Price != nil {
		fields["price"] = *in.Price
	}
	if in.Featured != nil {
		fields["featured"] = *in.Featured
	}
	if in.CategoryID != nil {
		fields["category_id"] = *in.CategoryID
	}
	if len(fields) > 0 {
		if _, err := s.Repo.Update(db, id, fields); err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, id)
}

func (s *MenuService) Delete(ctx context.Context, id uint) error {
	n, err := s.Repo.Delete(s.DB.WithContext(ctx), id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MenuService) validate(db *gorm.DB, in MenuItemIn, partial bool) error {
	if !partial {
		switch {
		case in.Title == nil:
			return fmt.Errorf("%w: title is required", ErrInvalidInput)
		case in.Price == nil:
			return fmt.Errorf("%w: price is required", ErrInvalidInput)
		case in.CategoryID == nil:
			return fmt.Errorf("%w: category_id is required", ErrInvalidInput)
		}
	}
	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		if t == "" || len(t) > 255 {
			return fmt.Errorf("%w: title must be 1-255 characters", ErrInvalidInput)
		}
	}
	if in.Price != nil {
		if !in.Price.IsPositive() || in.Price.GreaterThan(maxMenuPrice) {
			return fmt.Errorf("%w: price must be greater than 0 and at most %s", ErrInvalidInput, maxMenuPrice)
		}
		if !in.Price.Equal(in.Price.Round(2)) {
			return fmt.Errorf("%w: price has more than 2 decimal places", ErrInvalidInput)
		}
	}
	if in.CategoryID != nil {
		ok, err := s.Repo.CategoryExists(db, *in.CategoryID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: category %d does not exist", ErrInvalidInput, *in.CategoryID)
		}
	}
	return nil
}

// ----- Categories -----

func (s *MenuService) ListCategories(ctx context.Context) ([]entity.Category, error) {
	return s.Repo.ListCategories(s.DB.WithContext(ctx))
}

func (s *MenuService) CreateCategory(ctx context.Context, in CategoryIn) (*entity.Category, error) {
	slug := strings.TrimSpace(in.Slug)
	title := strings.TrimSpace(in.Title)
	if slug == "" || title == "" {
		return nil, fmt.Errorf("%w: slug and title are required", ErrInvalidInput)
	}

	db := s.DB.WithContext(ctx)
	n, err := s.Repo.CountCategoriesBySlug(db, slug)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, fmt.Errorf("%w: category %q already exists", ErrInvalidInput, slug)
	}

	c := entity.Category{Slug: slug, Title: title}
	if err := s.Repo.CreateCategory(db, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
