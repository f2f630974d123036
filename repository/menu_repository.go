package repository

import (
	"github.com/PabloUrbano2000/little-lemon-api/entity"
	"github.com/PabloUrbano2000/little-lemon-api/pkg/paginate"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MenuRepository is the catalog store: categories and menu items.
type MenuRepository struct {
	DB *gorm.DB
}

func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{DB: db}
}

type MenuFilter struct {
	CategorySlug string
	Search       string
	Featured     *bool
}

func (r *MenuRepository) List(db *gorm.DB, f MenuFilter, p paginate.Params) ([]entity.MenuItem, error) {
	q := db.Model(&entity.MenuItem{}).Preload("Category")
	if f.CategorySlug != "" {
		q = q.Where("category_id IN (?)",
			db.Model(&entity.Category{}).Select("id").Where("slug = ?", f.CategorySlug))
	}
	if f.Search != "" {
		q = q.Where("title LIKE ?", f.Search+"%")
	}
	if f.Featured != nil {
		q = q.Where("featured = ?", *f.Featured)
	}

	items := []entity.MenuItem{}
	err := q.Scopes(p.Scope).Find(&items).Error
	return items, err
}

func (r *MenuRepository) FindByID(db *gorm.DB, id uint) (*entity.MenuItem, error) {
	var m entity.MenuItem
	if err := db.Preload("Category").First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// GetPrice reads the current catalog price of one item.
func (r *MenuRepository) GetPrice(db *gorm.DB, id uint) (decimal.Decimal, error) {
	var m entity.MenuItem
	if err := db.Select("id", "price").First(&m, id).Error; err != nil {
		return decimal.Zero, err
	}
	return m.Price, nil
}

func (r *MenuRepository) Create(db *gorm.DB, m *entity.MenuItem) error {
	return db.Create(m).Error
}

// Update writes the given columns and reports how many rows matched.
func (r *MenuRepository) Update(db *gorm.DB, id uint, fields map[string]any) (int64, error) {
	res := db.Model(&entity.MenuItem{}).Where("id = ?", id).Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *MenuRepository) Delete(db *gorm.DB, id uint) (int64, error) {
	res := db.Delete(&entity.MenuItem{}, id)
	return res.RowsAffected, res.Error
}

// ---------------- Categories ----------------

func (r *MenuRepository) ListCategories(db *gorm.DB) ([]entity.Category, error) {
	out := []entity.Category{}
	err := db.Order("id").Find(&out).Error
	return out, err
}

func (r *MenuRepository) CategoryExists(db *gorm.DB, id uint) (bool, error) {
	var n int64
	err := db.Model(&entity.Category{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

func (r *MenuRepository) CountCategoriesBySlug(db *gorm.DB, slug string) (int64, error) {
	var n int64
	err := db.Model(&entity.Category{}).Where("slug = ?", slug).Count(&n).Error
	return n, err
}

func (r *MenuRepository) CreateCategory(db *gorm.DB, c *entity.Category) error {
	return db.Create(c).Error
}
