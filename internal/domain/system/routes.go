package system

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	r.GET("/config", h.GetConfig)
	r.POST("/sync", h.Sync)
}
