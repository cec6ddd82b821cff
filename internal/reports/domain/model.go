package domain

import "time"

const (
	FormatCSV                = "csv"
	FormatXLSX               = "xlsx"
	FormatData               = "data"
	FormatStatisticsSnapshot = "statistics_snapshot"
)

// Run is one generated report, as recorded in the archive.
type Run struct {
	ID           string            `json:"id"`
	Format       string            `json:"format"`
	Filters      map[string]string `json:"filters"`
	SpeciesCount int               `json:"species_count"`
	RequestedBy  string            `json:"requested_by"`
	CreatedAt    time.Time         `json:"created_at"`
}

type Stats struct {
	Total    int            `json:"total"`
	ByFormat map[string]int `json:"by_format"`
	Today    int            `json:"today"`
}
