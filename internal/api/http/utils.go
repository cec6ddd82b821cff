package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/terraverde/terraverde-api/internal/api/http/response"
	"github.com/terraverde/terraverde-api/internal/species/domain"
	"github.com/terraverde/terraverde-api/internal/species/query"
)

// RegisterUtilRoutes exposes the fixed vocabularies clients build forms from.
func RegisterUtilRoutes(rg *gin.RouterGroup) {
	rg.GET("/ecosystems", func(c *gin.Context) {
		response.OK(c, http.StatusOK, domain.Ecosystems, "ecosystems retrieved")
	})
	rg.GET("/regions", func(c *gin.Context) {
		response.OK(c, http.StatusOK, query.RegionNames(), "regions retrieved")
	})
	rg.GET("/conservation-statuses", func(c *gin.Context) {
		response.OK(c, http.StatusOK, domain.ConservationStatuses, "conservation statuses retrieved")
	})
}
