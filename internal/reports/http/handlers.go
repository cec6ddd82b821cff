package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/terraverde/terraverde-api/internal/api/http/response"
	"github.com/terraverde/terraverde-api/internal/auth"
	"github.com/terraverde/terraverde-api/internal/reports/domain"
	"github.com/terraverde/terraverde-api/internal/species/query"
	specieshttp "github.com/terraverde/terraverde-api/internal/species/http"
)

func (h *Handler) csv(c *gin.Context)  { h.download(c, domain.FormatCSV) }
func (h *Handler) xlsx(c *gin.Context) { h.download(c, domain.FormatXLSX) }

func (h *Handler) download(c *gin.Context, format string) {
	f, err := query.FromValues(c.Request.URL.Query())
	if err != nil {
		response.Fail(c, err)
		return
	}

	file, err := h.reportService.Export(c.Request.Context(), format, auth.UserFirebaseUID(c), f)
	if err != nil {
		response.Fail(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+file.Name+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Body)
}

func (h *Handler) data(c *gin.Context) {
	f, err := query.FromValues(c.Request.URL.Query())
	if err != nil {
		response.Fail(c, err)
		return
	}

	d, err := h.reportService.Data(c.Request.Context(), auth.UserFirebaseUID(c), f)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, dataResponse{
		SpeciesCount:   d.SpeciesCount,
		Species:        specieshttp.ToDTOs(d.Species),
		Statistics:     d.Statistics,
		FiltersApplied: d.FiltersApplied,
		GeneratedAt:    d.GeneratedAt.Format(time.RFC3339),
	}, "report generated")
}
