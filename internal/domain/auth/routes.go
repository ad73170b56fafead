package auth

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	login := r.Group("/login")
	{
		login.POST("/employee", h.Login)
		login.POST("/send-otp", h.SendOTP)
		login.POST("/verify-otp", h.VerifyOTP)
	}
}
