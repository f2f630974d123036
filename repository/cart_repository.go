package repository

import (
	"github.com/PabloUrbano2000/little-lemon-api/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepository struct{ DB *gorm.DB }

func NewCartRepository(db *gorm.DB) *CartRepository { return &CartRepository{DB: db} }

func (r *CartRepository) ListForUser(db *gorm.DB, userID uint) ([]entity.CartLine, error) {
	lines := []entity.CartLine{}
	err := db.Preload("MenuItem").
		Where("user_id = ?", userID).
		Order("id").
		Find(&lines).Error
	return lines, err
}

// Upsert writes the line keyed by (user_id, menuitem_id) in one statement.
// An existing line is replaced, not merged.
func (r *CartRepository) Upsert(db *gorm.DB, line *entity.CartLine) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "menuitem_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "unit_price", "price", "updated_at"}),
	}).Create(line).Error
}

func (r *CartRepository) FindLine(db *gorm.DB, userID, menuItemID uint) (*entity.CartLine, error) {
	var line entity.CartLine
	err := db.Preload("MenuItem").
		Where("user_id = ? AND menuitem_id = ?", userID, menuItemID).
		First(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// LinesForCheckout reads the user's lines with a row lock. Must run inside tx.
func (r *CartRepository) LinesForCheckout(tx *gorm.DB, userID uint) ([]entity.CartLine, error) {
	var lines []entity.CartLine
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		Order("id").
		Find(&lines).Error
	return lines, err
}

// DeleteLines removes exactly the given lines of the user and returns the
// number of rows deleted.
func (r *CartRepository) DeleteLines(tx *gorm.DB, userID uint, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := tx.Where("user_id = ? AND id IN ?", userID, ids).Delete(&entity.CartLine{})
	return res.RowsAffected, res.Error
}

func (r *CartRepository) ClearForUser(db *gorm.DB, userID uint) error {
	return db.Where("user_id = ?", userID).Delete(&entity.CartLine{}).Error
}
