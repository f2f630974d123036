package entity

import (
	"github.com/shopspring/decimal"
)

// OrderItem is a frozen copy of a cart line taken at checkout.
type OrderItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"uniqueIndex:idx_order_menuitem;not null" json:"order"`

	MenuItemID uint      `gorm:"column:menuitem_id;uniqueIndex:idx_order_menuitem;not null" json:"menuitem_id"`
	MenuItem   *MenuItem `gorm:"foreignKey:MenuItemID" json:"menuitem,omitempty"`

	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(6,2);not null" json:"unit_price"`
	Price     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
}
