package controllers

import (
	"context"

	"github.com/PabloUrbano2000/little-lemon-api/entity"
	"github.com/PabloUrbano2000/little-lemon-api/middlewares"
	"github.com/PabloUrbano2000/little-lemon-api/pkg/resp"
	"github.com/PabloUrbano2000/little-lemon-api/services"

	"github.com/gin-gonic/gin"
)

type Membership interface {
	Members(ctx context.Context, groupName string) ([]entity.User, error)
	Add(ctx context.Context, groupName string, in services.AddMemberIn) (*entity.User, error)
	Remove(ctx context.Context, c services.Caller, groupName string, userID uint) error
}

// GroupController serves /groups/:group/users for the manager and
// delivery-crew groups.
type GroupController struct{ Svc Membership }

func NewGroupController(s Membership) *GroupController { return &GroupController{Svc: s} }

func groupName(c *gin.Context) (string, bool) {
	name, ok := services.GroupSlugs[c.Param("group")]
	if !ok {
		resp.NotFound(c, services.ErrNotFound.Error())
	}
	return name, ok
}

// GET /groups/:group/users
func (h *GroupController) List(c *gin.Context) {
	name, ok := groupName(c)
	if !ok {
		return
	}
	users, err := h.Svc.Members(c.Request.Context(), name)
	if err != nil {
		respondError(c, err)
		return
	}
	resp.OK(c, users)
}

// POST /groups/:group/users {"username": "..."}
func (h *GroupController) Add(c *gin.Context) {
	name, ok := groupName(c)
	if !ok {
		return
	}
	var in services.AddMemberIn
	if !bindJSON(c, &in) {
		return
	}
	user, err := h.Svc.Add(c.Request.Context(), name, in)
	if err != nil {
		respondError(c, err)
		return
	}
	resp.Created(c, user)
}

// DELETE /groups/:group/users/:id
func (h *GroupController) Remove(c *gin.Context) {
	name, ok := groupName(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.Remove(c.Request.Context(), middlewares.CallerFrom(c), name, id); err != nil {
		respondError(c, err)
		return
	}
	resp.NoContent(c)
}
