package http

import "github.com/gin-gonic/gin"

func (h *Handler) Register(rg *gin.RouterGroup, write ...gin.HandlerFunc) {
	rg.GET("", h.list)
	rg.GET("/:id", h.get)
	rg.POST("", append(append([]gin.HandlerFunc{}, write...), h.create)...)
	rg.PUT("/:id", append(append([]gin.HandlerFunc{}, write...), h.update)...)
	rg.DELETE("/:id", append(append([]gin.HandlerFunc{}, write...), h.delete)...)
}
