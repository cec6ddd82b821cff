package http

import (
	"time"

	"go.uber.org/zap"

	"github.com/terraverde/terraverde-api/internal/platform/logger"
	"github.com/terraverde/terraverde-api/internal/species/domain"
	"github.com/terraverde/terraverde-api/internal/species/query"
	"github.com/terraverde/terraverde-api/internal/species/service"
)

// Handler bundles the dependencies for species HTTP endpoints.
type Handler struct {
	svc *service.SpeciesService
	log *zap.Logger
}

func New(svc *service.SpeciesService, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: logger.OrNop(log)}
}

type CoordinatesDTO struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type ImageDTO struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	MimeType  string `json:"mime_type"`
	CreatedAt string `json:"created_at"`
}

type CommentDTO struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Author string `json:"author"`
	Date   string `json:"date"`
}

type SpeciesDTO struct {
	ID                 string         `json:"id"`
	ScientificName     string         `json:"scientific_name"`
	CommonName         string         `json:"common_name"`
	Family             string         `json:"family"`
	ConservationStatus string         `json:"conservation_status"`
	Ecosystem          string         `json:"ecosystem"`
	Habitat            string         `json:"habitat"`
	Description        string         `json:"description"`
	Coordinates        CoordinatesDTO `json:"coordinates"`
	Region             string         `json:"region"`
	RegisteredBy       string         `json:"registered_by"`
	Active             bool           `json:"active"`
	RegisteredAt       string         `json:"registered_at"`
	UpdatedAt          string         `json:"updated_at"`
	ObservationDate    string         `json:"observation_date"`
	Images             []ImageDTO     `json:"images"`
	Comments           []CommentDTO   `json:"comments"`
	CommentCount       int            `json:"comment_count"`
}

// stamp renders t as RFC 3339 in UTC; the zero time becomes "".
func stamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func ToDTO(s domain.Species) SpeciesDTO {
	out := SpeciesDTO{
		ID:                 s.ID,
		ScientificName:     s.ScientificName,
		CommonName:         s.CommonName,
		Family:             s.Family,
		ConservationStatus: s.ConservationStatus,
		Ecosystem:          s.Ecosystem,
		Habitat:            s.Habitat,
		Description:        s.Description,
		Coordinates:        CoordinatesDTO{Latitude: s.Coordinates.Latitude, Longitude: s.Coordinates.Longitude},
		Region:             query.Classify(s.Coordinates.Latitude, s.Coordinates.Longitude),
		RegisteredBy:       s.RegisteredBy,
		Active:             s.Active,
		RegisteredAt:       stamp(s.RegisteredAt),
		UpdatedAt:          stamp(s.UpdatedAt),
		ObservationDate:    stamp(s.ObservedAt),
		Images:             make([]ImageDTO, 0, len(s.Images)),
		Comments:           make([]CommentDTO, 0, len(s.Comments)),
		CommentCount:       s.CommentCount,
	}
	for _, img := range s.Images {
		out.Images = append(out.Images, ImageDTO{
			ID:        img.ID,
			URL:       img.URL,
			Name:      img.Name,
			Size:      img.Size,
			MimeType:  img.MimeType,
			CreatedAt: stamp(img.CreatedAt),
		})
	}
	for _, cm := range s.Comments {
		out.Comments = append(out.Comments, CommentDTO{
			ID:     cm.ID,
			Text:   cm.Text,
			Author: cm.Author,
			Date:   stamp(cm.Date),
		})
	}
	return out
}

func ToDTOs(list []domain.Species) []SpeciesDTO {
	out := make([]SpeciesDTO, 0, len(list))
	for _, s := range list {
		out = append(out, ToDTO(s))
	}
	return out
}
