package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID     uint  `gorm:"primaryKey" json:"id"`
	UserID uint  `gorm:"index;not null" json:"user"`
	User   *User `json:"-"`

	DeliveryCrewID *uint `gorm:"index" json:"delivery_crew"`
	DeliveryCrew   *User `gorm:"foreignKey:DeliveryCrewID" json:"-"`

	// false = in progress, true = delivered
	Status bool            `gorm:"index;not null" json:"status"`
	Total  decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total"`
	Date   time.Time       `gorm:"index;not null" json:"date"`

	OrderItems []OrderItem `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"orderitems,omitempty"`
}
