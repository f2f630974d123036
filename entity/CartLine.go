package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one (user, menu item) pair waiting for checkout. UnitPrice is
// copied from the catalog when the line is written and never re-read.
type CartLine struct {
	ID     uint  `gorm:"primaryKey" json:"id"`
	UserID uint  `gorm:"uniqueIndex:idx_cart_user_menuitem;not null" json:"user"`
	User   *User `json:"-"`

	MenuItemID uint      `gorm:"column:menuitem_id;uniqueIndex:idx_cart_user_menuitem;not null" json:"menuitem_id"`
	MenuItem   *MenuItem `gorm:"foreignKey:MenuItemID" json:"menuitem,omitempty"`

	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(6,2);not null" json:"unit_price"`
	Price     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (CartLine) TableName() string { return "carts" }
