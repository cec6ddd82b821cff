package http

import "github.com/gin-gonic/gin"

// Register attaches species routes to the given router group. write is
// applied to every mutating route only.
func (h *Handler) Register(rg *gin.RouterGroup, write ...gin.HandlerFunc) {
	rg.GET("", h.list)
	rg.GET("/statistics", h.statistics)
	rg.GET("/:id", h.get)

	rg.POST("", chain(write, h.create)...)
	rg.PUT("/:id", chain(write, h.update)...)
	rg.POST("/:id", chain(write, h.methodOverride)...)
	rg.DELETE("/:id", chain(write, h.delete)...)
	rg.POST("/:id/comments", chain(write, h.addComment)...)
}

func chain(mw []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(mw)+1)
	out = append(out, mw...)
	return append(out, h)
}
