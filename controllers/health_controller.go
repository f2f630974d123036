package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/PabloUrbano2000/little-lemon-api/middlewares"
	"github.com/PabloUrbano2000/little-lemon-api/pkg/resp"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthController struct{ DB *gorm.DB }

func NewHealthController(db *gorm.DB) *HealthController { return &HealthController{DB: db} }

// GET /health
func (h *HealthController) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	sqlDB, err := h.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		middlewares.LoggerFrom(c).Error("health check failed", "err", err)
		resp.Fail(c, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	resp.OK(c, gin.H{"status": "ok"})
}
