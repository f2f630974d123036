package entity

const (
	GroupManager      = "Manager"
	GroupDeliveryCrew = "Delivery crew"
)

type Group struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:150;not null" json:"name"`
}

// "groups" is reserved in MySQL 8.
func (Group) TableName() string { return "auth_group" }
