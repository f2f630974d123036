package entity

type Category struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Slug  string `gorm:"uniqueIndex;size:255;not null" json:"slug"`
	Title string `gorm:"size:255;index;not null" json:"title"`

	MenuItems []MenuItem `json:"-"`
}
