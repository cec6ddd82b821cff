package http

import "github.com/gin-gonic/gin"

// Register attaches report routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/csv", h.csv)
	rg.GET("/xlsx", h.xlsx)
	rg.GET("/data", h.data)
}
