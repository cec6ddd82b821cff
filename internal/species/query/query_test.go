package query

import (
	"math"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terraverde/terraverde-api/internal/apperror"
	"github.com/terraverde/terraverde-api/internal/species/domain"
)

func species(id, family string, lat, lng float64) domain.Species {
	return domain.Species{
		ID:                 id,
		ScientificName:     id,
		Family:             family,
		ConservationStatus: domain.StatusNotEvaluated,
		Coordinates:        domain.Coordinates{Latitude: lat, Longitude: lng},
		Active:             true,
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		lat, lng float64
		want     string
	}{
		{"origin", 0, 0, RegionNoLocation},
		{"galapagos", -0.9, -90.3, "Galápagos"},
		{"coast", -2.2, -79.9, "Costa"},
		{"highlands", -0.22, -78.5, "Sierra"},
		{"amazon", -1.3, -77.8, "Sierra"},
		{"deep amazon", -3.0, -76.0, "Amazonía"},
		{"shared edge goes to coast", 0.5, -79, "Costa"},
		{"outside", 40.4, -3.7, RegionOutside},
		{"out of range", 200, 500, RegionOutside},
		{"nan", math.NaN(), -78, RegionOutside},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.lat, tt.lng))
		})
	}
}

func TestClassify_IsTotal(t *testing.T) {
	labels := map[string]bool{}
	for _, n := range RegionNames() {
		labels[n] = true
	}
	for lat := -100.0; lat <= 100; lat += 0.7 {
		for lng := -200.0; lng <= 200; lng += 0.9 {
			assert.True(t, labels[Classify(lat, lng)])
		}
	}
}

func TestApply(t *testing.T) {
	all := []domain.Species{
		species("a", "Felidae", -1.3, -77.8),
		species("b", "Ursidae", -0.2, -78.5),
		species("c", "Felidae", -0.9, -90.3),
		species("d", "Canidae", 0, 0),
		species("e", "Felidae", -3.0, -76.0),
	}

	t.Run("family equality", func(t *testing.T) {
		got := Apply(all, Filter{Family: "Felidae"})
		require.Len(t, got, 3)
		for _, s := range got {
			assert.Equal(t, "Felidae", s.Family)
		}
		assert.Equal(t, "a", got[0].ID)
		assert.Equal(t, "e", got[2].ID)
	})

	t.Run("region ignores case and accents", func(t *testing.T) {
		got := Apply(all, Filter{Region: "amazonia"})
		require.Len(t, got, 1)
		assert.Equal(t, "e", got[0].ID)

		got = Apply(all, Filter{Region: "No location"})
		require.Len(t, got, 1)
		assert.Equal(t, "d", got[0].ID)
	})

	t.Run("no filter returns everything", func(t *testing.T) {
		assert.Len(t, Apply(all, Filter{}), 5)
		assert.True(t, Filter{}.Empty())
	})
}

func TestApply_Substring(t *testing.T) {
	all := []domain.Species{
		{ID: "1", ScientificName: "Panthera onca", CommonName: "Jaguar"},
		{ID: "2", ScientificName: "Puma concolor", CommonName: "Puma"},
		{ID: "3", ScientificName: "Tremarctos ornatus", CommonName: "Oso de ANTEOJOS"},
	}

	got := Apply(all, Filter{ScientificName: "ONCA"})
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)

	got = Apply(all, Filter{CommonName: "anteojos"})
	require.Len(t, got, 1)
	assert.Equal(t, "3", got[0].ID)

	assert.Empty(t, Apply(all, Filter{CommonName: "wolf"}))
}

func TestApply_DateRange(t *testing.T) {
	day := func(m, d int) time.Time { return time.Date(2026, time.Month(m), d, 12, 0, 0, 0, time.UTC) }
	all := []domain.Species{
		{ID: "jan", RegisteredAt: day(1, 10)},
		{ID: "feb-observed", RegisteredAt: day(3, 1), ObservedAt: day(2, 15)},
		{ID: "mar", RegisteredAt: day(3, 31)},
		{ID: "undated"},
	}

	from, ok := ParseDateBound("2026-02-01", false)
	require.True(t, ok)
	to, ok := ParseDateBound("2026-03-31", true)
	require.True(t, ok)

	got := Apply(all, Filter{DateFrom: from, DateTo: to})
	require.Len(t, got, 2)
	assert.Equal(t, "feb-observed", got[0].ID)
	assert.Equal(t, "mar", got[1].ID)
}

func TestParseDateBound(t *testing.T) {
	v, ok := ParseDateBound("", true)
	assert.True(t, ok)
	assert.Nil(t, v)

	_, ok = ParseDateBound("31/12/2026", false)
	assert.False(t, ok)

	v, ok = ParseDateBound("2026-01-02T10:00:00-05:00", false)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC), *v)
}

func TestCompute(t *testing.T) {
	now := time.Date(2026, 4, 20, 15, 0, 0, 0, time.UTC)
	all := []domain.Species{
		{ID: "1", Family: "Ursidae", ConservationStatus: "Vulnerable", Ecosystem: "forest", Active: true, RegisteredAt: now.Add(-48 * time.Hour), Coordinates: domain.Coordinates{Latitude: -0.2, Longitude: -78.5}},
		{ID: "2", Family: "Felidae", ConservationStatus: "Near Threatened", Ecosystem: "forest", Active: true, RegisteredAt: now.Add(-time.Hour), Coordinates: domain.Coordinates{Latitude: -3, Longitude: -76}},
		{ID: "3", Family: "Felidae", ConservationStatus: "Vulnerable", Ecosystem: "lake", Active: false, RegisteredAt: now.Add(-time.Hour)},
		{ID: "4", Family: "Ursidae", ConservationStatus: "Least Concern", ObservedAt: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "5", Family: "Canidae", ConservationStatus: "Vulnerable", Active: true, RegisteredAt: now.AddDate(0, -2, 0)},
	}

	st := Compute(all, now)

	assert.Equal(t, 5, st.Total)
	assert.Equal(t, 3, st.Active)
	assert.Equal(t, 2, st.RegisteredToday)
	assert.Equal(t, []Count{{"Ursidae", 2}, {"Felidae", 2}, {"Canidae", 1}}, st.ByFamily)
	assert.Equal(t, []Count{{"Vulnerable", 3}, {"Near Threatened", 1}, {"Least Concern", 1}}, st.ByStatus)
	assert.Equal(t, []Count{{"forest", 2}, {unspecified, 2}, {"lake", 1}}, st.ByEcosystem)
	assert.Equal(t, []Count{{RegionNoLocation, 3}, {"Sierra", 1}, {"Amazonía", 1}}, st.ByRegion)
	assert.Equal(t, []Count{{"2025-12", 1}, {"2026-02", 1}, {"2026-04", 3}}, st.ByMonth)

	require.Len(t, st.RecentAdditions, 5)
	ids := make([]string, 0, 5)
	for _, r := range st.RecentAdditions {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"2", "3", "1", "5", "4"}, ids)
}

func TestCompute_Empty(t *testing.T) {
	st := Compute(nil, time.Now())
	assert.Zero(t, st.Total)
	assert.Zero(t, st.Active)
	assert.Empty(t, st.ByFamily)
	assert.NotNil(t, st.ByFamily)
	assert.Empty(t, st.ByMonth)
	assert.NotNil(t, st.RecentAdditions)
	assert.Empty(t, st.RecentAdditions)
}

func TestRecentAdditions_Limit(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	all := make([]domain.Species, 0, 15)
	for i := 0; i < 15; i++ {
		all = append(all, domain.Species{ID: string(rune('a' + i)), RegisteredAt: base.Add(time.Duration(i) * time.Hour)})
	}
	got := RecentAdditions(all, 10)
	require.Len(t, got, 10)
	assert.Equal(t, "o", got[0].ID)
	assert.Equal(t, "f", got[9].ID)
}

func TestFromValues(t *testing.T) {
	f, err := FromValues(url.Values{
		"familia":         {"Felidae"},
		"status":          {" Endangered "},
		"region":          {"Amazonia"},
		"scientific_name": {"panthera"},
		"date_from":       {"2024-01-01"},
		"date_to":         {"2024-01-31"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Felidae", f.Family)
	assert.Equal(t, "Endangered", f.Status)
	assert.Equal(t, "panthera", f.ScientificName)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *f.DateFrom)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), *f.DateTo)

	empty, err := FromValues(url.Values{})
	require.NoError(t, err)
	assert.True(t, empty.Empty())

	_, err = FromValues(url.Values{"date_to": {"last week"}})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}
