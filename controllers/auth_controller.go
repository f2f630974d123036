package controllers

import (
	"context"

	"github.com/PabloUrbano2000/little-lemon-api/entity"
	"github.com/PabloUrbano2000/little-lemon-api/middlewares"
	"github.com/PabloUrbano2000/little-lemon-api/pkg/resp"
	"github.com/PabloUrbano2000/little-lemon-api/services"

	"github.com/gin-gonic/gin"
)

type Accounts interface {
	Register(ctx context.Context, in services.RegisterIn) (*entity.User, error)
	Login(ctx context.Context, in services.LoginIn) (string, error)
	Me(ctx context.Context, c services.Caller) (*services.Me, error)
}

type AuthController struct{ Svc Accounts }

func NewAuthController(s Accounts) *AuthController { return &AuthController{Svc: s} }

// POST /auth/users
func (h *AuthController) Register(c *gin.Context) {
	var in services.RegisterIn
	if !bindJSON(c, &in) {
		return
	}
	user, err := h.Svc.Register(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	resp.Created(c, user)
}

// POST /auth/token/login
func (h *AuthController) Login(c *gin.Context) {
	var in services.LoginIn
	if !bindJSON(c, &in) {
		return
	}
	token, err := h.Svc.Login(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	resp.OK(c, gin.H{"auth_token": token})
}

// GET /auth/users/me
func (h *AuthController) Me(c *gin.Context) {
	me, err := h.Svc.Me(c.Request.Context(), middlewares.CallerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	resp.OK(c, me)
}
