package repository

import (
	"github.com/PabloUrbano2000/little-lemon-api/entity"

	"gorm.io/gorm"
)

// UserRepository talks to users, groups and their join table.
type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) FindByUsername(db *gorm.DB, username string) (*entity.User, error) {
	var user entity.User
	if err := db.Preload("Groups").Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) CountByUsername(db *gorm.DB, username string) (int64, error) {
	var count int64
	if err := db.Model(&entity.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindByID loads the user with its groups.
func (r *UserRepository) FindByID(db *gorm.DB, id uint) (*entity.User, error) {
	var user entity.User
	if err := db.Preload("Groups").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Create(db *gorm.DB, user *entity.User) error {
	return db.Create(user).Error
}

// ---------------- Groups ----------------

func (r *UserRepository) GroupByName(db *gorm.DB, name string) (*entity.Group, error) {
	var g entity.Group
	if err := db.Where("name = ?", name).First(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *UserRepository) ListGroupMembers(db *gorm.DB, group *entity.Group) ([]entity.User, error) {
	users := []entity.User{}
	err := db.Joins("JOIN user_groups ON user_groups.user_id = users.id").
		Where("user_groups.group_id = ?", group.ID).
		Order("users.id").
		Find(&users).Error
	return users, err
}

func (r *UserRepository) IsMember(db *gorm.DB, userID uint, groupName string) (bool, error) {
	var n int64
	err := db.Table("user_groups").
		Joins("JOIN auth_group ON auth_group.id = user_groups.group_id").
		Where("user_groups.user_id = ? AND auth_group.name = ?", userID, groupName).
		Count(&n).Error
	return n > 0, err
}

func (r *UserRepository) AddToGroup(db *gorm.DB, user *entity.User, group *entity.Group) error {
	return db.Model(user).Association("Groups").Append(group)
}

func (r *UserRepository) RemoveFromGroup(db *gorm.DB, user *entity.User, group *entity.Group) error {
	return db.Model(user).Association("Groups").Delete(group)
}
