package domain

import "time"

// Apply merges the supplied fields of p into s. RegisteredBy is never
// changed by a patch; ownership is fixed at creation.
func (s *Species) Apply(p SpeciesPatch) {
	setString(&s.ScientificName, p.ScientificName)
	setString(&s.CommonName, p.CommonName)
	setString(&s.Family, p.Family)
	setString(&s.ConservationStatus, p.ConservationStatus)
	setString(&s.Ecosystem, p.Ecosystem)
	setString(&s.Habitat, p.Habitat)
	setString(&s.Description, p.Description)

	if p.Latitude != nil {
		s.Coordinates.Latitude = *p.Latitude
	}
	if p.Longitude != nil {
		s.Coordinates.Longitude = *p.Longitude
	}
	if p.ObservedAt != nil {
		s.ObservedAt = *p.ObservedAt
	}
	if p.Active != nil {
		s.Active = *p.Active
	}
	if s.ConservationStatus == "" {
		s.ConservationStatus = StatusNotEvaluated
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// NewSpecies builds a record from a create patch.
func NewSpecies(p SpeciesPatch, registeredBy string, now time.Time) Species {
	s := Species{
		RegisteredBy: registeredBy,
		Active:       true,
		RegisteredAt: now,
		UpdatedAt:    now,
		Images:       []Image{},
		Comments:     []Comment{},
	}
	s.Apply(p)
	return s
}
