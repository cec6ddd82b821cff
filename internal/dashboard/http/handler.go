package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/terraverde/terraverde-api/internal/api/http/response"
	"github.com/terraverde/terraverde-api/internal/dashboard/service"
)

type Handler struct {
	dashboardService *service.DashboardService
}

func New(dashboardService *service.DashboardService) *Handler {
	return &Handler{dashboardService: dashboardService}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.summary)
}

func (h *Handler) summary(c *gin.Context) {
	sum, err := h.dashboardService.Summary(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, sum, "dashboard retrieved")
}
