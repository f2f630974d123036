package entity

import (
	"github.com/shopspring/decimal"
)

type MenuItem struct {
	ID       uint            `gorm:"primaryKey" json:"id"`
	Title    string          `gorm:"size:255;index;not null" json:"title"`
	Price    decimal.Decimal `gorm:"type:numeric(6,2);not null" json:"price"`
	Featured bool            `gorm:"index" json:"featured"`

	CategoryID uint      `gorm:"index;not null" json:"category_id"`
	Category   *Category `json:"category,omitempty"` // preloaded on reads
}
