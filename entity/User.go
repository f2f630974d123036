package entity

import (
	"time"
)

type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Username  string `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email     string `gorm:"size:254" json:"email"`
	FirstName string `gorm:"size:150" json:"first_name"`
	LastName  string `gorm:"size:150" json:"last_name"`
	Password  string `json:"-"`

	Groups []Group `gorm:"many2many:user_groups;" json:"-"`

	CreatedAt time.Time `json:"date_joined"`
}

func (u *User) InGroup(name string) bool {
	for _, g := range u.Groups {
		if g.Name == name {
			return true
		}
	}
	return false
}

func (u *User) GroupNames() []string {
	names := make([]string, 0, len(u.Groups))
	for _, g := range u.Groups {
		names = append(names, g.Name)
	}
	return names
}
