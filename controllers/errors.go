package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/PabloUrbano2000/little-lemon-api/middlewares"
	"github.com/PabloUrbano2000/little-lemon-api/pkg/resp"
	"github.com/PabloUrbano2000/little-lemon-api/services"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto status codes. Anything unknown is a
// 500 and its cause is only logged.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthorized),
		errors.Is(err, services.ErrInvalidCredentials):
		resp.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrForbidden):
		resp.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrNotFound):
		resp.NotFound(c, err.Error())
	case errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrInvalidInput):
		resp.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrConflict):
		resp.Conflict(c, err.Error())
	default:
		middlewares.LoggerFrom(c).Error("request failed", "path", c.FullPath(), "err", err)
		resp.ServerError(c)
	}
}

// pathID reads a positive numeric path parameter. Non-numeric ids are 404,
// matching routes that would not have matched.
func pathID(c *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		resp.Fail(c, http.StatusNotFound, services.ErrNotFound.Error())
		return 0, false
	}
	return uint(n), true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		resp.BadRequest(c, "invalid request body")
		return false
	}
	return true
}
