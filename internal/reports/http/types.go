package http

import (
	"github.com/terraverde/terraverde-api/internal/reports/service"
	"github.com/terraverde/terraverde-api/internal/species/query"
	specieshttp "github.com/terraverde/terraverde-api/internal/species/http"
)

type Handler struct {
	reportService *service.ReportService
}

func New(reportService *service.ReportService) *Handler {
	return &Handler{reportService: reportService}
}

type dataResponse struct {
	SpeciesCount   int                      `json:"species_count"`
	Species        []specieshttp.SpeciesDTO `json:"species"`
	Statistics     query.Statistics         `json:"statistics"`
	FiltersApplied map[string]string        `json:"filters_applied"`
	GeneratedAt    string                   `json:"generated_at"`
}
