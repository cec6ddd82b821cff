package normalize

import (
	"strings"

	"github.com/terraverde/terraverde-api/internal/apperror"
	"github.com/terraverde/terraverde-api/internal/species/domain"
)

// PatchFromMap reads caller supplied species fields from a decoded JSON body
// or flattened form values. It accepts the same key variants as FromStorage.
// Only type and range problems are reported here; required fields are
// checked by ValidateCreate and ValidateUpdate.
func PatchFromMap(raw map[string]any) (domain.SpeciesPatch, error) {
	var p domain.SpeciesPatch
	if raw == nil {
		return p, nil
	}

	p.ScientificName = optionalString(raw, keysScientificName)
	p.CommonName = optionalString(raw, keysCommonName)
	p.Family = optionalString(raw, keysFamily)
	p.ConservationStatus = optionalString(raw, keysStatus)
	p.Ecosystem = optionalString(raw, keysEcosystem)
	p.Habitat = optionalString(raw, keysHabitat)
	p.Description = optionalString(raw, keysDescription)
	p.RegisteredBy = optionalString(raw, keysRegisteredBy)

	var err error
	if p.Latitude, err = optionalCoordinate(raw, keysLatitude, "latitude", 90); err != nil {
		return p, err
	}
	if p.Longitude, err = optionalCoordinate(raw, keysLongitude, "longitude", 180); err != nil {
		return p, err
	}

	if v, ok := Lookup(raw, keysObservedAt...); ok && !blank(v) {
		t, ok := ParseTime(v)
		if !ok {
			return p, apperror.Validation("observation_date is not a valid date")
		}
		p.ObservedAt = &t
	}

	if v, ok := Lookup(raw, keysActive...); ok && !blank(v) {
		b, ok := toBool(v)
		if !ok {
			return p, apperror.Validation("active must be a boolean")
		}
		p.Active = &b
	}

	return p, nil
}

func blank(v any) bool {
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

func optionalString(raw map[string]any, keys []string) *string {
	v, ok := Lookup(raw, keys...)
	if !ok {
		return nil
	}
	s := toString(v)
	return &s
}

func optionalCoordinate(raw map[string]any, keys []string, field string, limit float64) (*float64, error) {
	v, ok := Lookup(raw, keys...)
	if !ok || blank(v) {
		return nil, nil
	}
	f, ok := toFloat(v)
	if !ok {
		return nil, apperror.Validation("%s must be a number", field)
	}
	if f < -limit || f > limit {
		return nil, apperror.Validation("%s must be between %g and %g", field, -limit, limit)
	}
	return &f, nil
}

// ValidateCreate checks the fields a new species must carry.
func ValidateCreate(p domain.SpeciesPatch) error {
	var missing []string
	if empty(p.ScientificName) {
		missing = append(missing, "scientific_name")
	}
	if empty(p.CommonName) {
		missing = append(missing, "common_name")
	}
	if empty(p.Family) {
		missing = append(missing, "family")
	}
	if len(missing) > 0 {
		return apperror.Validation("missing required fields: %s", strings.Join(missing, ", "))
	}
	if (p.Latitude == nil) != (p.Longitude == nil) {
		return apperror.Validation("latitude and longitude must be supplied together")
	}
	return nil
}

// ValidateUpdate rejects attempts to blank a required field.
func ValidateUpdate(p domain.SpeciesPatch) error {
	var blanked []string
	if p.ScientificName != nil && *p.ScientificName == "" {
		blanked = append(blanked, "scientific_name")
	}
	if p.CommonName != nil && *p.CommonName == "" {
		blanked = append(blanked, "common_name")
	}
	if p.Family != nil && *p.Family == "" {
		blanked = append(blanked, "family")
	}
	if len(blanked) > 0 {
		return apperror.Validation("required fields cannot be empty: %s", strings.Join(blanked, ", "))
	}
	return nil
}

func empty(s *string) bool {
	return s == nil || *s == ""
}
