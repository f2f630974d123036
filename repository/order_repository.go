package repository

import (
	"github.com/PabloUrbano2000/little-lemon-api/entity"
	"github.com/PabloUrbano2000/little-lemon-api/pkg/paginate"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

// ---------------- Checkout ----------------

func (r *OrderRepository) CreateOrder(tx *gorm.DB, o *entity.Order) error {
	return tx.Omit("OrderItems").Create(o).Error
}

func (r *OrderRepository) CreateOrderItem(tx *gorm.DB, oi *entity.OrderItem) error {
	return tx.Omit("MenuItem").Create(oi).Error
}

func (r *OrderRepository) UpdateTotal(tx *gorm.DB, orderID uint, total decimal.Decimal) error {
	return tx.Model(&entity.Order{}).Where("id = ?", orderID).Update("total", total).Error
}

// ---------------- Reads ----------------

func (r *OrderRepository) GetOrder(db *gorm.DB, orderID uint) (*entity.Order, error) {
	var o entity.Order
	err := db.Preload("OrderItems", func(q *gorm.DB) *gorm.DB { return q.Order("id") }).
		Preload("OrderItems.MenuItem").
		First(&o, orderID).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// OrderScope narrows a listing. Nil fields do not filter.
type OrderScope struct {
	UserID         *uint
	DeliveryCrewID *uint
}

func (r *OrderRepository) ListOrders(db *gorm.DB, scope OrderScope, p paginate.Params) ([]entity.Order, error) {
	q := db.Model(&entity.Order{}).
		Preload("OrderItems", func(q *gorm.DB) *gorm.DB { return q.Order("id") })
	if scope.UserID != nil {
		q = q.Where("user_id = ?", *scope.UserID)
	}
	if scope.DeliveryCrewID != nil {
		q = q.Where("delivery_crew_id = ?", *scope.DeliveryCrewID)
	}

	orders := []entity.Order{}
	err := q.Scopes(p.Scope).Find(&orders).Error
	return orders, err
}

// ---------------- Mutations ----------------

// UpdateFields writes the given columns. Map keys are column names, so a nil
// delivery_crew_id is written as NULL. A non-nil assignedTo restricts the
// write to an order still assigned to that user.
func (r *OrderRepository) UpdateFields(tx *gorm.DB, orderID uint, fields map[string]any, assignedTo *uint) (int64, error) {
	if len(fields) == 0 {
		return 0, nil
	}
	q := tx.Model(&entity.Order{}).Where("id = ?", orderID)
	if assignedTo != nil {
		q = q.Where("delivery_crew_id = ?", *assignedTo)
	}
	res := q.Updates(fields)
	return res.RowsAffected, res.Error
}

// IsAssigned reports whether the order is currently assigned to userID.
func (r *OrderRepository) IsAssigned(tx *gorm.DB, orderID, userID uint) (bool, error) {
	var n int64
	err := tx.Model(&entity.Order{}).
		Where("id = ? AND delivery_crew_id = ?", orderID, userID).
		Count(&n).Error
	return n > 0, err
}

// DeleteOrder removes the order and its items. Items are deleted explicitly
// because sqlite only cascades with foreign_keys enabled.
func (r *OrderRepository) DeleteOrder(tx *gorm.DB, orderID uint) (int64, error) {
	if err := tx.Where("order_id = ?", orderID).Delete(&entity.OrderItem{}).Error; err != nil {
		return 0, err
	}
	res := tx.Delete(&entity.Order{}, orderID)
	return res.RowsAffected, res.Error
}
