package resp

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": data})
}
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"ok": true, "data": data})
}
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func Fail(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{"ok": false, "error": msg})
}
func Abort(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, gin.H{"ok": false, "error": msg})
}

func BadRequest(c *gin.Context, msg string)   { Fail(c, http.StatusBadRequest, msg) }
func Unauthorized(c *gin.Context, msg string) { Fail(c, http.StatusUnauthorized, msg) }
func Forbidden(c *gin.Context, msg string)    { Fail(c, http.StatusForbidden, msg) }
func NotFound(c *gin.Context, msg string)     { Fail(c, http.StatusNotFound, msg) }
func Conflict(c *gin.Context, msg string)     { Fail(c, http.StatusConflict, msg) }

// ServerError hides the cause from the client; callers log it.
func ServerError(c *gin.Context) {
	Fail(c, http.StatusInternalServerError, "internal server error")
}
