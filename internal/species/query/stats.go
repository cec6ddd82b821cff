package query

import (
	"sort"
	"time"

	"github.com/terraverde/terraverde-api/internal/species/domain"
)

const (
	recentLimit = 10
	unspecified = "Unspecified"
)

type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type Recent struct {
	ID             string    `json:"id"`
	ScientificName string    `json:"scientific_name"`
	CommonName     string    `json:"common_name"`
	Family         string    `json:"family"`
	RegisteredAt   time.Time `json:"registered_at"`
}

type Statistics struct {
	Total           int      `json:"total"`
	Active          int      `json:"active"`
	RegisteredToday int      `json:"registered_today"`
	ByFamily        []Count  `json:"by_family"`
	ByRegion        []Count  `json:"by_region"`
	ByStatus        []Count  `json:"by_status"`
	ByEcosystem     []Count  `json:"by_ecosystem"`
	ByMonth         []Count  `json:"by_month"`
	RecentAdditions []Recent `json:"recent_additions"`
}

// counter tallies labels and remembers first-seen order for tie breaks.
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: map[string]int{}}
}

func (c *counter) add(label string) {
	if label == "" {
		label = unspecified
	}
	if _, ok := c.counts[label]; !ok {
		c.order = append(c.order, label)
	}
	c.counts[label]++
}

func (c *counter) list() []Count {
	out := make([]Count, 0, len(c.order))
	for _, label := range c.order {
		out = append(out, Count{Label: label, Count: c.counts[label]})
	}
	return out
}

// byCountDesc sorts descending by count; ties keep first-seen order.
func (c *counter) byCountDesc() []Count {
	out := c.list()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

func (c *counter) byLabelAsc() []Count {
	out := c.list()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// Compute aggregates a collection. An empty collection yields zero counts
// and empty lists. Records without a usable date are left out of the monthly
// buckets.
func Compute(all []domain.Species, now time.Time) Statistics {
	families := newCounter()
	regions := newCounter()
	statuses := newCounter()
	ecosystems := newCounter()
	months := newCounter()

	today := now.UTC().Format("2006-01-02")
	st := Statistics{Total: len(all)}

	for _, s := range all {
		if s.Active {
			st.Active++
		}
		if !s.RegisteredAt.IsZero() && s.RegisteredAt.UTC().Format("2006-01-02") == today {
			st.RegisteredToday++
		}
		families.add(s.Family)
		regions.add(Classify(s.Coordinates.Latitude, s.Coordinates.Longitude))
		statuses.add(s.ConservationStatus)
		ecosystems.add(s.Ecosystem)
		if d := s.ReferenceDate(); !d.IsZero() {
			months.add(d.UTC().Format("2006-01"))
		}
	}

	st.ByFamily = families.byCountDesc()
	st.ByRegion = regions.byCountDesc()
	st.ByStatus = statuses.byCountDesc()
	st.ByEcosystem = ecosystems.byCountDesc()
	st.ByMonth = months.byLabelAsc()
	st.RecentAdditions = RecentAdditions(all, recentLimit)
	return st
}

// RecentAdditions returns up to limit records, newest registration first.
// Records registered at the same instant keep their storage order.
func RecentAdditions(all []domain.Species, limit int) []Recent {
	sorted := make([]domain.Species, len(all))
	copy(sorted, all)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RegisteredAt.After(sorted[j].RegisteredAt)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	out := make([]Recent, 0, len(sorted))
	for _, s := range sorted {
		out = append(out, Recent{
			ID:             s.ID,
			ScientificName: s.ScientificName,
			CommonName:     s.CommonName,
			Family:         s.Family,
			RegisteredAt:   s.RegisteredAt,
		})
	}
	return out
}
