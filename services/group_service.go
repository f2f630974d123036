package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/PabloUrbano2000/little-lemon-api/entity"
	"github.com/PabloUrbano2000/little-lemon-api/repository"

	"gorm.io/gorm"
)

// GroupSlugs maps URL segments to group names.
var GroupSlugs = map[string]string{
	"manager":       entity.GroupManager,
	"delivery-crew": entity.GroupDeliveryCrew,
}

// GroupService manages membership of the Manager and Delivery crew groups.
// Callers are expected to be managers already.
type GroupService struct {
	DB   *gorm.DB
	Repo *repository.UserRepository
}

func NewGroupService(db *gorm.DB, repo *repository.UserRepository) *GroupService {
	return &GroupService{DB: db, Repo: repo}
}

type AddMemberIn struct {
	Username string `json:"username"`
}

func (s *GroupService) Members(ctx context.Context, groupName string) ([]entity.User, error) {
	db := s.DB.WithContext(ctx)
	g, err := s.Repo.GroupByName(db, groupName)
	if err != nil {
		return nil, notFound(err)
	}
	return s.Repo.ListGroupMembers(db, g)
}

// Add puts an existing user into the group. Adding a member twice is a no-op.
func (s *GroupService) Add(ctx context.Context, groupName string, in AddMemberIn) (*entity.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}

	db := s.DB.WithContext(ctx)
	g, err := s.Repo.GroupByName(db, groupName)
	if err != nil {
		return nil, notFound(err)
	}
	u, err := s.Repo.FindByUsername(db, username)
	if err != nil {
		return nil, notFound(err)
	}
	if !u.InGroup(groupName) {
		if err := s.Repo.AddToGroup(db, u, g); err != nil {
			return nil, err
		}
	}
	return u, nil
}

// Remove takes userID out of the group. A manager cannot remove themselves
// from Manager; a user outside the group is ErrNotFound.
func (s *GroupService) Remove(ctx context.Context, c Caller, groupName string, userID uint) error {
	db := s.DB.WithContext(ctx)
	g, err := s.Repo.GroupByName(db, groupName)
	if err != nil {
		return notFound(err)
	}
	u, err := s.Repo.FindByID(db, userID)
	if err != nil {
		return notFound(err)
	}
	if !u.InGroup(groupName) {
		return ErrNotFound
	}
	if groupName == entity.GroupManager && u.ID == c.ID {
		return fmt.Errorf("%w: you cannot remove yourself from %s", ErrInvalidInput, entity.GroupManager)
	}
	return s.Repo.RemoveFromGroup(db, u, g)
}
