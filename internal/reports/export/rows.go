// Package export renders species lists as downloadable spreadsheets.
package export

import (
	"time"

	"github.com/terraverde/terraverde-api/internal/species/domain"
	"github.com/terraverde/terraverde-api/internal/species/query"
)

// Header is the fixed first row of every export.
var Header = []string{
	"ID",
	"Scientific Name",
	"Common Name",
	"Family",
	"Conservation Status",
	"Ecosystem",
	"Habitat",
	"Region",
	"Latitude",
	"Longitude",
	"Registered By",
	"Registered At",
	"Observation Date",
	"Images",
	"Comments",
	"Active",
	"Description",
}

func dateCell(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04:05")
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// record returns the cells of one species in Header order. Numbers stay
// numeric so spreadsheets can sort them.
func record(s domain.Species) []any {
	return []any{
		s.ID,
		s.ScientificName,
		s.CommonName,
		s.Family,
		s.ConservationStatus,
		s.Ecosystem,
		s.Habitat,
		query.Classify(s.Coordinates.Latitude, s.Coordinates.Longitude),
		s.Coordinates.Latitude,
		s.Coordinates.Longitude,
		s.RegisteredBy,
		dateCell(s.RegisteredAt),
		dateCell(s.ObservedAt),
		len(s.Images),
		s.CommentCount,
		yesNo(s.Active),
		s.Description,
	}
}
