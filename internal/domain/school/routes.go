package school

import "github.com/gin-gonic/gin"

// RegisterRoutes registers school routes under the /api group.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	schools := r.Group("/schools")
	{
		schools.POST("/add", limitBody, h.Create)
		schools.GET("", h.List)
		if h.events != nil {
			schools.GET("/events", h.events.Handle)
		}
		schools.GET("/:id", h.Get)
		schools.PUT("/:id", limitBody, h.Update)
		schools.DELETE("/:id", h.Delete)
	}
}
