package http

import "github.com/gin-gonic/gin"

// Register attaches analysis routes under an already resolved and
// authorized project group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/analyses", h.list)
	rg.GET("/analyses/:analysisId", h.get)
	rg.POST("/analyses", h.create)
}
