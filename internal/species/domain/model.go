package domain

import (
	"io"
	"time"
)

const (
	StatusExtinct              = "Extinct"
	StatusCriticallyEndangered = "Critically Endangered"
	StatusEndangered           = "Endangered"
	StatusVulnerable           = "Vulnerable"
	StatusNearThreatened       = "Near Threatened"
	StatusLeastConcern         = "Least Concern"
	StatusNotEvaluated         = "Not Evaluated"
	StatusDataDeficient        = "Data Deficient"
	DefaultRegisteredBy        = "system"
	DefaultCommentAuthor       = "Anonymous"
)

// ConservationStatuses is the suggested vocabulary. Stored values are free text.
var ConservationStatuses = []string{
	StatusExtinct,
	StatusCriticallyEndangered,
	StatusEndangered,
	StatusVulnerable,
	StatusNearThreatened,
	StatusLeastConcern,
	StatusNotEvaluated,
	StatusDataDeficient,
}

// Ecosystem is one entry of the suggested ecosystem vocabulary. Stored
// ecosystems are free text.
type Ecosystem struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

var Ecosystems = []Ecosystem{
	{Value: "forest", Label: "Bosque", Icon: "🌲"},
	{Value: "lake", Label: "Lago", Icon: "🏞️"},
	{Value: "beach", Label: "Playa", Icon: "🏖️"},
	{Value: "mountain", Label: "Montaña", Icon: "⛰️"},
	{Value: "river", Label: "Río", Icon: "🏞️"},
}

type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Unknown reports the (0,0) placeholder used for records without a location.
func (c Coordinates) Unknown() bool {
	return c.Latitude == 0 && c.Longitude == 0
}

type Image struct {
	ID        string
	URL       string
	Name      string
	Size      int64
	MimeType  string
	CreatedAt time.Time
}

type Comment struct {
	ID     string
	Text   string
	Author string
	Date   time.Time
}

type Species struct {
	ID                 string
	ScientificName     string
	CommonName         string
	Family             string
	ConservationStatus string
	Ecosystem          string
	Habitat            string
	Description        string
	Coordinates        Coordinates
	RegisteredBy       string
	Active             bool
	RegisteredAt       time.Time
	UpdatedAt          time.Time
	ObservedAt         time.Time
	Images             []Image
	Comments           []Comment
	CommentCount       int
}

// ReferenceDate is the date used for date filters and monthly buckets.
func (s Species) ReferenceDate() time.Time {
	if !s.ObservedAt.IsZero() {
		return s.ObservedAt
	}
	return s.RegisteredAt
}

// SpeciesPatch carries caller supplied fields. Nil means "not supplied".
type SpeciesPatch struct {
	ScientificName     *string
	CommonName         *string
	Family             *string
	ConservationStatus *string
	Ecosystem          *string
	Habitat            *string
	Description        *string
	Latitude           *float64
	Longitude          *float64
	ObservedAt         *time.Time
	RegisteredBy       *string
	Active             *bool
}

// Upload is one image file received from a client.
type Upload struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// ImageChanges describes how an update reconciles the stored image list.
// A nil Keep keeps every stored image that is not listed in Delete.
type ImageChanges struct {
	Keep    []string
	Delete  []string
	Uploads []Upload
}

type CommentInput struct {
	Text   string
	Author string
	Date   *time.Time
}

// Warning records a best-effort step that failed without failing the request.
type Warning struct {
	Op     string
	Target string
	Err    error
}
