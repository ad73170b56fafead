package patient

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	patients := r.Group("/patients")
	{
		patients.POST("", h.Create)
		patients.GET("/search", h.Search)
		patients.GET("/:id", h.Get)
	}

	r.GET("/files/:id", h.Download)
}
