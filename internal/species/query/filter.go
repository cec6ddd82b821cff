// Package query filters species collections and computes their statistics
// with a linear scan over the records returned by the document store.
package query

import (
	"net/url"
	"strings"
	"time"

	"github.com/terraverde/terraverde-api/internal/apperror"
	"github.com/terraverde/terraverde-api/internal/species/domain"
)

// Filter holds the optional list criteria. Empty fields do not filter.
type Filter struct {
	Ecosystem      string
	Status         string
	Family         string
	Region         string
	ScientificName string
	CommonName     string
	// DateFrom is inclusive, DateTo exclusive.
	DateFrom *time.Time
	DateTo   *time.Time
}

func (f Filter) Empty() bool {
	return f == Filter{}
}

// Map returns the applied criteria keyed by their query parameter names.
func (f Filter) Map() map[string]string {
	out := map[string]string{}
	add := func(k, v string) {
		if v != "" {
			out[k] = v
		}
	}
	add("ecosystem", f.Ecosystem)
	add("status", f.Status)
	add("family", f.Family)
	add("region", f.Region)
	add("scientific_name", f.ScientificName)
	add("common_name", f.CommonName)
	if f.DateFrom != nil {
		out["date_from"] = f.DateFrom.Format(time.RFC3339)
	}
	if f.DateTo != nil {
		out["date_to"] = f.DateTo.Format(time.RFC3339)
	}
	return out
}

// FromValues reads a Filter from query parameters. Spanish aliases used by
// older clients are accepted.
func FromValues(v url.Values) (Filter, error) {
	get := func(keys ...string) string {
		for _, k := range keys {
			if s := strings.TrimSpace(v.Get(k)); s != "" {
				return s
			}
		}
		return ""
	}

	f := Filter{
		Ecosystem:      get("ecosystem", "ecosistema"),
		Status:         get("status", "conservation_status", "estado"),
		Family:         get("family", "familia"),
		Region:         get("region"),
		ScientificName: get("scientific_name", "nombre_cientifico"),
		CommonName:     get("common_name", "nombre_vulgar"),
	}

	var ok bool
	if f.DateFrom, ok = ParseDateBound(get("date_from", "fecha_desde"), false); !ok {
		return Filter{}, apperror.Validation("date_from is not a valid date")
	}
	if f.DateTo, ok = ParseDateBound(get("date_to", "fecha_hasta"), true); !ok {
		return Filter{}, apperror.Validation("date_to is not a valid date")
	}
	return f, nil
}

// Apply returns the matching records in their original order.
func Apply(all []domain.Species, f Filter) []domain.Species {
	out := make([]domain.Species, 0, len(all))
	for _, s := range all {
		if Matches(s, f) {
			out = append(out, s)
		}
	}
	return out
}

func Matches(s domain.Species, f Filter) bool {
	if f.Ecosystem != "" && s.Ecosystem != f.Ecosystem {
		return false
	}
	if f.Status != "" && s.ConservationStatus != f.Status {
		return false
	}
	if f.Family != "" && s.Family != f.Family {
		return false
	}
	if f.Region != "" && foldAccents(Classify(s.Coordinates.Latitude, s.Coordinates.Longitude)) != foldAccents(f.Region) {
		return false
	}
	if f.ScientificName != "" && !strings.Contains(fold(s.ScientificName), fold(f.ScientificName)) {
		return false
	}
	if f.CommonName != "" && !strings.Contains(fold(s.CommonName), fold(f.CommonName)) {
		return false
	}
	if f.DateFrom != nil || f.DateTo != nil {
		d := s.ReferenceDate()
		if d.IsZero() {
			return false
		}
		if f.DateFrom != nil && d.Before(*f.DateFrom) {
			return false
		}
		if f.DateTo != nil && !d.Before(*f.DateTo) {
			return false
		}
	}
	return true
}

// ParseDateBound parses a date_from/date_to query value. A bare date used as
// an upper bound covers the whole day.
func ParseDateBound(v string, upper bool) (*time.Time, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, true
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		if upper {
			t = t.AddDate(0, 0, 1)
		}
		return &t, true
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		t = t.UTC()
		if upper {
			t = t.Add(time.Nanosecond)
		}
		return &t, true
	}
	return nil, false
}
